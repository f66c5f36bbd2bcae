package recommend

import "math"

const (
	relevanceFactor = 10.0
	capacityFactor  = 5.0
	centeringFactor = 3.0
	sponsoredBonus  = 2.0
)

// perGuestCategories are priced per guest (per plate, per seat, per slice).
var perGuestCategories = map[string]bool{
	CategoryCatering: true,
	CategoryRent:     true,
	CategoryBakers:   true,
}

// IsPerGuest reports whether a category's price is multiplied by guest count.
func IsPerGuest(category string) bool {
	return perGuestCategories[category]
}

// EffectiveCost is what a product adds to a package for the given guest count.
func EffectiveCost(p Product, guestCount int) float64 {
	price := *p.Price
	if IsPerGuest(p.Category) {
		return price * float64(guestCount)
	}
	return price
}

// ScoreProduct rates a pre-filtered candidate for one category of one tier.
// Higher is better; it never rejects.
func ScoreProduct(p Product, categoryWeight float64, tier BudgetTier, guestCount int) float64 {
	score := categoryWeight * relevanceFactor

	if p.Category == CategoryVenue && p.Capacity != nil {
		gap := math.Abs(float64(*p.Capacity - guestCount))
		score += (1 / (1 + gap)) * capacityFactor
	}

	// Rewards prices near the middle of the tier ceiling rather than the cheapest.
	if tier.Max > 0 && p.Price != nil {
		ratio := *p.Price / tier.Max
		score += (1 - math.Abs(0.5-ratio)) * centeringFactor
	}

	if p.AverageRating != nil {
		score += *p.AverageRating
	}

	if p.Sponsored && IsTopTier(tier) {
		score += sponsoredBonus
	}

	return score
}

func hasValidPrice(p Product) bool {
	if p.Price == nil {
		return false
	}
	v := *p.Price
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
