// Package recommend builds budget-tiered event service packages from a
// read-only product catalog.
//
// The engine is a deterministic greedy heuristic: the overall budget is split
// into five tiers, each tier walks the event profile's categories in order and
// claims the best-scoring affordable product not already claimed by an earlier
// tier. It performs no I/O and keeps no state between calls.
package recommend

// EventContext is the immutable input of one recommendation run.
type EventContext struct {
	EventType  string  `json:"eventType" validate:"required"`
	BudgetMin  float64 `json:"budgetMin" validate:"gte=0"`
	BudgetMax  float64 `json:"budgetMax" validate:"gtfield=BudgetMin"`
	GuestCount int     `json:"guestCount" validate:"gt=0"`
}

// CategoryProfile lists the service categories an event type requires, in
// claim order, and the importance weight of each.
type CategoryProfile struct {
	Name       string             `json:"name"`
	Categories []string           `json:"categories"`
	Weights    map[string]float64 `json:"weights"`
}

// Product is one catalog entry. Optional attributes are pointers; a product
// with a nil or invalid Price is never eligible.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	Category      string   `json:"category"`
	Price         *float64 `json:"price"`
	Capacity      *int     `json:"capacity,omitempty"`
	Sponsored     bool     `json:"sponsored,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	// Seq is the catalog-provided ordering used to break score ties.
	Seq int `json:"seq"`
}

// BudgetTier is one fifth of the overall budget range.
type BudgetTier struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Selection is the product chosen for one category together with its
// effective (guest-adjusted) cost.
type Selection struct {
	Product    Product `json:"product"`
	TotalPrice float64 `json:"totalPrice"`
}

// Package is the proposal emitted for one tier.
type Package struct {
	TierLabel  string               `json:"tierLabel"`
	TotalCost  float64              `json:"totalCost"`
	MatchScore int                  `json:"matchScore"`
	Selections map[string]Selection `json:"selections"`
	Features   []string             `json:"features"`
}

// TierOutcome describes what the allocator did with one tier.
type TierOutcome struct {
	Tier              BudgetTier `json:"tier"`
	Filled            int        `json:"filled"`
	Required          int        `json:"required"`
	SkippedCategories []string   `json:"skippedCategories,omitempty"`
	Emitted           bool       `json:"emitted"`
}

// Result is the full output of Engine.Recommend. Packages are in tier order.
type Result struct {
	Profile  CategoryProfile `json:"profile"`
	Tiers    []BudgetTier    `json:"tiers"`
	Packages []Package       `json:"packages"`
	Outcomes []TierOutcome   `json:"outcomes"`
}
