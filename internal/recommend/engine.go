package recommend

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"event-package-workers/internal/common/validation"
)

// ErrInvalidContext is wrapped by every EventContext rejection.
var ErrInvalidContext = errors.New("invalid event context")

// Engine produces package proposals. It holds only the read-only profile
// table, so one Engine can serve concurrent requests.
type Engine struct {
	profiles *ProfileTable
}

// NewEngine returns an engine over profiles; nil selects the built-in table.
func NewEngine(profiles *ProfileTable) *Engine {
	if profiles == nil {
		profiles = DefaultProfileTable()
	}
	return &Engine{profiles: profiles}
}

// Profiles exposes the engine's profile table.
func (e *Engine) Profiles() *ProfileTable {
	return e.profiles
}

// ValidateContext rejects contexts the engine cannot partition.
func ValidateContext(ctx EventContext) error {
	if math.IsNaN(ctx.BudgetMin) || math.IsInf(ctx.BudgetMin, 0) ||
		math.IsNaN(ctx.BudgetMax) || math.IsInf(ctx.BudgetMax, 0) {
		return fmt.Errorf("%w: budget bounds must be finite", ErrInvalidContext)
	}
	if strings.TrimSpace(ctx.EventType) == "" {
		return fmt.Errorf("%w: eventType is required", ErrInvalidContext)
	}
	if err := validation.ValidateStruct(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	return nil
}

// Recommend runs one full recommendation. Tiers are processed cheapest
// first and share one used-product set, so a scarce product goes to the
// lowest tier that can afford it. The catalog slice is never modified.
func (e *Engine) Recommend(ctx EventContext, catalog []Product) (*Result, error) {
	if err := ValidateContext(ctx); err != nil {
		return nil, err
	}

	profile := e.profiles.Resolve(ctx.EventType)
	tiers := PartitionBudget(ctx.BudgetMin, ctx.BudgetMax)
	idx := indexCatalog(catalog)
	used := make(usedProducts)

	result := &Result{
		Profile:  profile,
		Tiers:    tiers,
		Packages: make([]Package, 0, len(tiers)),
		Outcomes: make([]TierOutcome, 0, len(tiers)),
	}

	for _, tier := range tiers {
		pkg, outcome := buildPackage(tier, profile, idx, ctx.GuestCount, used)
		result.Outcomes = append(result.Outcomes, outcome)
		if pkg == nil {
			continue
		}
		pkg.MatchScore = MatchScore(*pkg, profile, ctx.BudgetMax)
		pkg.Features = SynthesizeFeatures(*pkg, ctx, profile)
		result.Packages = append(result.Packages, *pkg)
	}

	return result, nil
}
