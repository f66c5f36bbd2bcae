package recommend

import "sort"

// usedProducts is the run-scoped set of product ids already claimed by an
// earlier tier. It is created per Recommend call and threaded through the
// tier loop explicitly.
type usedProducts map[string]struct{}

func (u usedProducts) has(id string) bool {
	_, ok := u[id]
	return ok
}

func (u usedProducts) add(id string) {
	u[id] = struct{}{}
}

// catalogIndex groups products by category, each group in tie-break order.
type catalogIndex map[string][]Product

func indexCatalog(products []Product) catalogIndex {
	ordered := make([]Product, len(products))
	copy(ordered, products)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Seq < ordered[j].Seq
	})

	idx := make(catalogIndex)
	for _, p := range ordered {
		idx[p.Category] = append(idx[p.Category], p)
	}
	return idx
}

// RequiredCategories is the minimum number of filled categories for a tier
// to yield a package: ceil(0.6 * total).
func RequiredCategories(total int) int {
	return (6*total + 9) / 10
}

// buildPackage runs the greedy allocation for one tier. It mutates used for
// every product it selects, whether or not the tier passes the coverage gate.
func buildPackage(tier BudgetTier, profile CategoryProfile, idx catalogIndex, guestCount int, used usedProducts) (*Package, TierOutcome) {
	outcome := TierOutcome{
		Tier:     tier,
		Required: RequiredCategories(len(profile.Categories)),
	}

	remaining := tier.Max
	total := 0.0
	selections := make(map[string]Selection, len(profile.Categories))

	for _, category := range profile.Categories {
		weight := profile.Weights[category]

		var (
			best      Product
			bestCost  float64
			bestScore float64
			found     bool
		)
		for _, p := range idx[category] {
			if used.has(p.ID) || !hasValidPrice(p) {
				continue
			}
			cost := EffectiveCost(p, guestCount)
			if cost > remaining {
				continue
			}
			score := ScoreProduct(p, weight, tier, guestCount)
			if !found || score > bestScore {
				best, bestCost, bestScore, found = p, cost, score, true
			}
		}

		if !found {
			outcome.SkippedCategories = append(outcome.SkippedCategories, category)
			continue
		}

		selections[category] = Selection{Product: best, TotalPrice: bestCost}
		used.add(best.ID)
		total += bestCost
		remaining -= bestCost
	}

	outcome.Filled = len(selections)
	if outcome.Filled < outcome.Required {
		return nil, outcome
	}

	outcome.Emitted = true
	return &Package{
		TierLabel:  tier.Label,
		TotalCost:  total,
		Selections: selections,
	}, outcome
}
