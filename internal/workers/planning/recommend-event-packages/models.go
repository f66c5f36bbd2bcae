// internal/workers/planning/recommend-event-packages/models.go
package recommendeventpackages

import (
	"event-package-workers/internal/models"
	"event-package-workers/internal/recommend"
)

type Input struct {
	RequestID  string  `json:"requestId"`
	UserID     string  `json:"userId,omitempty"`
	EventType  string  `json:"eventType"`
	BudgetMin  float64 `json:"budgetMin"`
	BudgetMax  float64 `json:"budgetMax"`
	GuestCount int     `json:"guestCount"`
	// Catalog, when present, replaces the configured catalog source.
	Catalog []recommend.Product `json:"catalog,omitempty"`
}

func (in *Input) EventContext() recommend.EventContext {
	return recommend.EventContext{
		EventType:  in.EventType,
		BudgetMin:  in.BudgetMin,
		BudgetMax:  in.BudgetMax,
		GuestCount: in.GuestCount,
	}
}

type Output struct {
	RequestID      string                   `json:"requestId"`
	Packages       []models.PackageProposal `json:"packages"`
	PackageCount   int                      `json:"packageCount"`
	Profile        string                   `json:"profile"`
	Tiers          []recommend.BudgetTier   `json:"tiers"`
	DiscardedTiers []string                 `json:"discardedTiers"`
	CatalogSize    int                      `json:"catalogSize"`
}
