package support

// Config is the immutable input supplied by the host when it mounts the menu.
type Config struct {
	// StoreID is the publisher's numeric app store identifier, used to
	// template review and listing links. It is not validated.
	StoreID string
	// AppName prefixes the support email subject.
	AppName string
	// Restricted hides promotional and social actions.
	Restricted bool
}

// Capabilities describes what the running platform can do. Hosts probe these
// once at startup (see platform.ProbeCapabilities) and pass them in.
type Capabilities struct {
	// ReviewDeepLinks is true when the store app understands the
	// write-review deep link. When false, WriteReview opens the listing.
	ReviewDeepLinks bool
}
