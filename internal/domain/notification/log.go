package notification

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a notification transport.
type Channel string

const (
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
)

// SendStatus records the outcome of one delivery attempt.
type SendStatus string

const (
	SendSuccess SendStatus = "SUCCESS"
	SendFailed  SendStatus = "FAILED"
)

// Payload is the structured record of what was sent on one channel and what
// came back from the provider. Persisted as JSONB.
type Payload struct {
	Destination       string `json:"destination"`
	Message           string `json:"message"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Log is one attempt to notify a requester on one channel. Append-only: a row
// is written once per attempt (success or failure) and never updated.
// Corresponds to the 'notification_logs' table.
type Log struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	Channel      Channel
	SendStatus   SendStatus
	Payload      Payload
	CreatedAt    time.Time
}
