// internal/models/notification.go
package models

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

// Delivery records what happened on one notification channel.
type Delivery struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient,omitempty"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
