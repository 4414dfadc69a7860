package support

import (
	"errors"
	"fmt"
)

// ErrComposeAction is returned by Resolve for actions that are performed by
// composing an email instead of opening a URL.
var ErrComposeAction = errors.New("support: action composes email")

const (
	companyWebsiteURL  = "https://www.bridgetech.io"
	mailingListURL     = "https://www.bridgetech.io/mailinglist.html"
	socialProfileURL   = "https://twitter.com/MarkBridgesApps"
	publisherListing   = "macappstore://itunes.apple.com/us/developer/bridgetechsolutionslimited/id497840921?mt=8#"
	writeReviewPattern = "macappstore://itunes.apple.com/app/id%s?action=write-review"
	listingPattern     = "macappstore://itunes.apple.com/app/id%s?ls=1&mt=12"
	privacyPolicyURL   = "https://www.bridgetech.io/PrivacyPolicy.html"
	termsOfUseURL      = "https://app.termly.io/document/terms-and-conditions/d7403a4e-b18c-492b-bd65-a17ed1545185"
)

// LinkKind enumerates the destinations an action can open.
type LinkKind int

const (
	LinkCompanyWebsite LinkKind = iota
	LinkMailingListSignup
	LinkSocialProfile
	LinkPublisherStoreListing
	LinkWriteReview
	LinkStoreListingFallback
	LinkPrivacyPolicy
	LinkTermsOfUse
)

func (k LinkKind) String() string {
	switch k {
	case LinkCompanyWebsite:
		return "company-website"
	case LinkMailingListSignup:
		return "mailing-list-signup"
	case LinkSocialProfile:
		return "social-profile"
	case LinkPublisherStoreListing:
		return "publisher-store-listing"
	case LinkWriteReview:
		return "write-review"
	case LinkStoreListingFallback:
		return "store-listing-fallback"
	case LinkPrivacyPolicy:
		return "privacy-policy"
	case LinkTermsOfUse:
		return "terms-of-use"
	default:
		return fmt.Sprintf("link(%d)", int(k))
	}
}

// Link is a destination plus the store identifier the templated kinds need.
type Link struct {
	Kind    LinkKind
	StoreID string
}

// URL renders the destination. Store identifiers are substituted verbatim.
func (l Link) URL() string {
	switch l.Kind {
	case LinkCompanyWebsite:
		return companyWebsiteURL
	case LinkMailingListSignup:
		return mailingListURL
	case LinkSocialProfile:
		return socialProfileURL
	case LinkPublisherStoreListing:
		return publisherListing
	case LinkWriteReview:
		return fmt.Sprintf(writeReviewPattern, l.StoreID)
	case LinkStoreListingFallback:
		return fmt.Sprintf(listingPattern, l.StoreID)
	case LinkPrivacyPolicy:
		return privacyPolicyURL
	case LinkTermsOfUse:
		return termsOfUseURL
	default:
		return ""
	}
}

// Fallback returns the link to open instead when the platform cannot handle
// l. Only the review deep link has one: the plain store listing.
func (l Link) Fallback() (Link, bool) {
	if l.Kind != LinkWriteReview {
		return Link{}, false
	}
	return Link{Kind: LinkStoreListingFallback, StoreID: l.StoreID}, true
}

// Resolve maps an action to its destination. EmailSupport has none and
// returns ErrComposeAction.
func Resolve(action Action, cfg Config) (Link, error) {
	switch action {
	case ActionOpenWebsite:
		return Link{Kind: LinkCompanyWebsite}, nil
	case ActionEmailSupport:
		return Link{}, ErrComposeAction
	case ActionJoinMailingList:
		return Link{Kind: LinkMailingListSignup}, nil
	case ActionOpenSocialProfile:
		return Link{Kind: LinkSocialProfile}, nil
	case ActionViewOtherApps:
		return Link{Kind: LinkPublisherStoreListing}, nil
	case ActionWriteReview:
		return Link{Kind: LinkWriteReview, StoreID: cfg.StoreID}, nil
	case ActionViewPrivacyPolicy:
		return Link{Kind: LinkPrivacyPolicy}, nil
	case ActionViewTerms:
		return Link{Kind: LinkTermsOfUse}, nil
	default:
		return Link{}, &UnknownTagError{Tag: int(action)}
	}
}

// ResolveFor resolves action and applies the platform fallback when caps says
// the primary link is unsupported.
func ResolveFor(action Action, cfg Config, caps Capabilities) (Link, error) {
	link, err := Resolve(action, cfg)
	if err != nil {
		return Link{}, err
	}
	if link.Kind == LinkWriteReview && !caps.ReviewDeepLinks {
		if fb, ok := link.Fallback(); ok {
			return fb, nil
		}
	}
	return link, nil
}

// ResolveURL is Resolve followed by URL.
func ResolveURL(action Action, cfg Config) (string, error) {
	link, err := Resolve(action, cfg)
	if err != nil {
		return "", err
	}
	return link.URL(), nil
}
