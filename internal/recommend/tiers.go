package recommend

// TierLabels are the fixed tier names, cheapest first.
var TierLabels = [...]string{
	"Budget Friendly",
	"Value Plus",
	"Premium Choice",
	"Elite",
	"Platinum",
}

// TierCount is the number of tiers produced per run.
const TierCount = len(TierLabels)

// PartitionBudget splits [budgetMin, budgetMax] into TierCount contiguous
// tiers of equal width. Adjacent tiers share their boundary value exactly.
// budgetMin == budgetMax yields point tiers; it is not rejected here.
func PartitionBudget(budgetMin, budgetMax float64) []BudgetTier {
	bounds := tierBounds(budgetMin, budgetMax)

	tiers := make([]BudgetTier, TierCount)
	for i := range tiers {
		tiers[i] = BudgetTier{
			Index: i,
			Label: TierLabels[i],
			Min:   bounds[i],
			Max:   bounds[i+1],
		}
	}
	return tiers
}

func tierBounds(budgetMin, budgetMax float64) [TierCount + 1]float64 {
	var bounds [TierCount + 1]float64
	span := budgetMax - budgetMin
	for k := 1; k < TierCount; k++ {
		bounds[k] = budgetMin + span*float64(k)/float64(TierCount)
	}
	bounds[0] = budgetMin
	bounds[TierCount] = budgetMax
	return bounds
}

// IsTopTier reports whether t is the most expensive tier.
func IsTopTier(t BudgetTier) bool {
	return t.Index == TierCount-1
}
