package platform

import (
	"net/url"
	"strings"
)

// MailComposer composes email by opening a mailto: link with the opener, so
// the user's default mail client handles it.
type MailComposer struct {
	opener *Opener
}

// NewMailComposer returns a composer backed by opener.
func NewMailComposer(opener *Opener) *MailComposer {
	return &MailComposer{opener: opener}
}

// IsAvailable reports whether a mail handler can be launched at all.
func (m *MailComposer) IsAvailable() bool {
	return m != nil && m.opener != nil && m.opener.Available()
}

// Compose opens a draft addressed to recipient.
func (m *MailComposer) Compose(recipient, subject, body string) bool {
	if !m.IsAvailable() {
		return false
	}
	link, ok := MailtoURL(recipient, subject, body)
	if !ok {
		return false
	}
	return m.opener.Open(link)
}

// MailtoURL builds an RFC 6068 mailto: URI. It fails for an empty or
// malformed recipient.
func MailtoURL(recipient, subject, body string) (string, bool) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || strings.ContainsAny(recipient, " ?&") || !strings.Contains(recipient, "@") {
		return "", false
	}
	var params []string
	if subject != "" {
		params = append(params, "subject="+mailtoEscape(subject))
	}
	if body != "" {
		params = append(params, "body="+mailtoEscape(body))
	}
	link := "mailto:" + recipient
	if len(params) > 0 {
		link += "?" + strings.Join(params, "&")
	}
	return link, true
}

// mailtoEscape percent-encodes a header value; mail clients do not treat
// "+" as a space.
func mailtoEscape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
