// internal/models/proposal.go
package models

import "event-package-workers/internal/recommend"

// ProductSelection is one line of a package proposal.
type ProductSelection struct {
	Category      string   `json:"category"`
	ProductID     string   `json:"productId"`
	Name          string   `json:"name,omitempty"`
	UnitPrice     float64  `json:"unitPrice"`
	TotalPrice    float64  `json:"totalPrice"`
	PerGuest      bool     `json:"perGuest"`
	Capacity      *int     `json:"capacity,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	Sponsored     bool     `json:"sponsored,omitempty"`
}

// PackageProposal is the process-variable form of a recommended package.
// Selections follow the profile's category order.
type PackageProposal struct {
	TierLabel  string             `json:"tierLabel"`
	TotalCost  float64            `json:"totalCost"`
	MatchScore int                `json:"matchScore"`
	Selections []ProductSelection `json:"selections"`
	Features   []string           `json:"features"`
}

// NewPackageProposal flattens pkg using profile for selection order.
func NewPackageProposal(pkg recommend.Package, profile recommend.CategoryProfile) PackageProposal {
	selections := make([]ProductSelection, 0, len(pkg.Selections))
	for _, category := range profile.Categories {
		sel, ok := pkg.Selections[category]
		if !ok {
			continue
		}
		p := sel.Product
		unit := 0.0
		if p.Price != nil {
			unit = *p.Price
		}
		selections = append(selections, ProductSelection{
			Category:      category,
			ProductID:     p.ID,
			Name:          p.Name,
			UnitPrice:     unit,
			TotalPrice:    sel.TotalPrice,
			PerGuest:      recommend.IsPerGuest(category),
			Capacity:      p.Capacity,
			AverageRating: p.AverageRating,
			Sponsored:     p.Sponsored,
		})
	}

	features := pkg.Features
	if features == nil {
		features = []string{}
	}

	return PackageProposal{
		TierLabel:  pkg.TierLabel,
		TotalCost:  pkg.TotalCost,
		MatchScore: pkg.MatchScore,
		Selections: selections,
		Features:   features,
	}
}

// NewPackageProposals converts every package of a result, in tier order.
func NewPackageProposals(result *recommend.Result) []PackageProposal {
	out := make([]PackageProposal, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		out = append(out, NewPackageProposal(pkg, result.Profile))
	}
	return out
}
