package support

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// SupportEmail receives support requests.
	SupportEmail = "support@bridgetech.io"

	// MailUnavailableMessage and MailUnavailableDetail are shown when the
	// platform cannot compose the support email.
	MailUnavailableMessage = "Unable To Launch Mail Client"
	MailUnavailableDetail  = "Please contact support on " + SupportEmail

	supportEmailBody    = "Hi"
	supportSubjectFixed = " - Help, Support & Feedback"
)

// URLOpener hands a URI to the OS. It reports whether the OS accepted it.
type URLOpener interface {
	Open(uri string) bool
}

// EmailComposer opens the platform's compose-email UI.
type EmailComposer interface {
	IsAvailable() bool
	Compose(recipient, subject, body string) bool
}

// AlertPresenter shows an informational alert and returns once it is dismissed.
type AlertPresenter interface {
	Show(message, detail string)
}

// Ports bundles the capabilities a Controller calls. Missing ports degrade:
// no opener fails every open, no composer is treated as unavailable.
type Ports struct {
	Opener URLOpener
	Mail   EmailComposer
	Alerts AlertPresenter
}

// Logger is satisfied by *logbook.Logbook.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Outcome describes which side effect a dispatch produced.
type Outcome string

const (
	OutcomeOpened     Outcome = "opened"
	OutcomeOpenFailed Outcome = "open_failed"
	OutcomeComposed   Outcome = "composed"
	OutcomeAlerted    Outcome = "alerted"
)

// Selection records one completed dispatch.
type Selection struct {
	ID      uuid.UUID `json:"id"`
	Action  Action    `json:"action"`
	URL     string    `json:"url,omitempty"`
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

// ControllerOption customizes Controller construction.
type ControllerOption func(*Controller)

// WithCapabilities sets the probed platform capabilities.
func WithCapabilities(caps Capabilities) ControllerOption {
	return func(c *Controller) {
		c.caps = caps
	}
}

// WithLogger routes dispatch diagnostics to l.
func WithLogger(l Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers obs on the controller's notifier.
func WithObserver(obs Observer) ControllerOption {
	return func(c *Controller) {
		if obs != nil {
			c.notifier.Register(obs)
		}
	}
}

// WithClock allows tests to control selection timestamps.
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDSource allows tests to control selection IDs.
func WithIDSource(next func() uuid.UUID) ControllerOption {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// Controller performs selected actions through the host's ports and then
// notifies the registered observer. It holds no mutable dispatch state, so
// concurrent selections do not interfere.
type Controller struct {
	cfg      Config
	caps     Capabilities
	ports    Ports
	notifier *Notifier
	logger   Logger
	clock    func() time.Time
	newID    func() uuid.UUID
}

// NewController builds a controller for cfg.
func NewController(cfg Config, ports Ports, opts ...ControllerOption) *Controller {
	c := &Controller{
		cfg:      cfg,
		ports:    ports,
		notifier: NewNotifier(),
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// Capabilities returns the platform capabilities in effect.
func (c *Controller) Capabilities() Capabilities { return c.caps }

// Notifier exposes the observer registration.
func (c *Controller) Notifier() *Notifier { return c.notifier }

// Menu composes the visible entries for the controller's configuration.
func (c *Controller) Menu() []MenuEntry { return Compose(c.cfg) }

// Subject returns the support email subject line.
func (c *Controller) Subject() string {
	return c.cfg.AppName + supportSubjectFixed
}

// EmailDraft returns the recipient, subject and body the email action composes.
func (c *Controller) EmailDraft() (recipient, subject, body string) {
	return SupportEmail, c.Subject(), supportEmailBody
}

// PerformTag is the host's selection callback. A tag outside the catalog
// means the host rendered a stale or foreign menu; that is an integration
// bug and PerformTag panics with *UnknownTagError without notifying.
func (c *Controller) PerformTag(tag int) Selection {
	sel, err := c.Select(tag)
	if err != nil {
		c.logger.Error("Support · %v", err)
		panic(err)
	}
	return sel
}

// Select is PerformTag for hosts that must survive untrusted input: unknown
// tags come back as an error instead of a panic.
func (c *Controller) Select(tag int) (Selection, error) {
	action, err := ActionForTag(tag)
	if err != nil {
		return Selection{}, err
	}
	return c.Dispatch(action)
}

// Dispatch performs action, then notifies the observer exactly once.
func (c *Controller) Dispatch(action Action) (Selection, error) {
	if !action.Valid() {
		return Selection{}, &UnknownTagError{Tag: int(action)}
	}
	sel := Selection{ID: c.newID(), Action: action}
	if action == ActionEmailSupport {
		sel.Outcome = c.emailSupport()
	} else {
		url, outcome, err := c.openLink(action)
		if err != nil {
			return Selection{}, err
		}
		sel.URL = url
		sel.Outcome = outcome
	}
	sel.At = c.clock()
	c.logger.Info("Support · %s (%s)", action.Title(), sel.Outcome)
	c.notifier.Notify(sel)
	return sel, nil
}

func (c *Controller) openLink(action Action) (string, Outcome, error) {
	link, err := ResolveFor(action, c.cfg, c.caps)
	if err != nil {
		if errors.Is(err, ErrComposeAction) {
			return "", "", fmt.Errorf("support: %s has no link: %w", action.Slug(), err)
		}
		return "", "", err
	}
	url := link.URL()
	if c.ports.Opener == nil || !c.ports.Opener.Open(url) {
		c.logger.Warn("Support · could not open %s", url)
		return url, OutcomeOpenFailed, nil
	}
	return url, OutcomeOpened, nil
}

func (c *Controller) emailSupport() Outcome {
	mail := c.ports.Mail
	if mail == nil || !mail.IsAvailable() {
		c.logger.Warn("Support · compose email unavailable")
		c.presentMailFallback()
		return OutcomeAlerted
	}
	if !mail.Compose(SupportEmail, c.Subject(), supportEmailBody) {
		c.logger.Warn("Support · compose email refused content")
		c.presentMailFallback()
		return OutcomeAlerted
	}
	return OutcomeComposed
}

func (c *Controller) presentMailFallback() {
	if c.ports.Alerts == nil {
		c.logger.Error("Support · no alert presenter for: %s", MailUnavailableDetail)
		return
	}
	c.ports.Alerts.Show(MailUnavailableMessage, MailUnavailableDetail)
}
