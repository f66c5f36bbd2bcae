package recommend

import "math"

const (
	coverageShare  = 0.7
	budgetFitShare = 0.3
)

// Coverage is the weighted share of the profile's categories that pkg fills,
// in percent. A package filling every category scores exactly 100.
func Coverage(pkg Package, profile CategoryProfile) float64 {
	var filled, total float64
	for _, c := range profile.Categories {
		w := profile.Weights[c]
		total += w
		if _, ok := pkg.Selections[c]; ok {
			filled += w
		}
	}
	if total == 0 {
		return 0
	}
	return filled / total * 100
}

// BudgetFit measures how close the package total lands to the run's overall
// budget ceiling, in percent. The result is not clamped and goes negative
// for totals more than budgetMax away from the ceiling.
func BudgetFit(totalCost, budgetMax float64) float64 {
	return 100 - (math.Abs(totalCost-budgetMax) / budgetMax * 100)
}

// MatchScore blends coverage and budget fit into the rounded relevance score.
func MatchScore(pkg Package, profile CategoryProfile, budgetMax float64) int {
	score := Coverage(pkg, profile)*coverageShare + BudgetFit(pkg.TotalCost, budgetMax)*budgetFitShare
	return int(math.Round(score))
}
