// internal/workers/planning/deliver-package-proposals/models.go
package deliverpackageproposals

import "event-package-workers/internal/models"

type Input struct {
	RequestID      string                   `json:"requestId"`
	RecipientEmail string                   `json:"recipientEmail"`
	RecipientPhone string                   `json:"recipientPhone,omitempty"`
	EventType      string                   `json:"eventType"`
	GuestCount     int                      `json:"guestCount,omitempty"`
	Packages       []models.PackageProposal `json:"packages"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	EmailSent      bool              `json:"emailSent"`
	SMSSent        bool              `json:"smsSent"`
	SentAt         string            `json:"sentAt"` // ISO 8601
	Deliveries     []models.Delivery `json:"deliveries"`
}
