package notification

import "context"

// Message carries everything a channel provider may need to deliver one
// notification. Free-text providers use Body; template/campaign providers
// (e.g. SiCuba) use the structured fields instead. Subject applies to email only.
type Message struct {
	To           string // canonical phone number or email address
	Name         string
	Subject      string
	Body         string
	TrackingCode string
	ServiceLabel string
	StatusLabel  string
	TrackingURL  string
}

// Sender delivers a message through one concrete provider. This decouples the
// dispatcher from whichever provider is active; implementations are selected
// by configuration at bootstrap.
type Sender interface {
	// Channel identifies which transport this sender serves.
	Channel() Channel
	// Send delivers msg and returns the provider's message id, if any.
	Send(ctx context.Context, msg Message) (providerMessageID string, err error)
}
