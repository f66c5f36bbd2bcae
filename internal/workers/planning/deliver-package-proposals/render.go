// internal/workers/planning/deliver-package-proposals/render.go
package deliverpackageproposals

import (
	"fmt"
	"math"
	"strings"

	"event-package-workers/internal/models"
)

func eventLabel(eventType string) string {
	et := strings.TrimSpace(eventType)
	if et == "" {
		return "your event"
	}
	return "your " + strings.ToLower(et) + " event"
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RenderEmail builds the plain-text proposal summary. It rejects packages
// that cannot be presented.
func RenderEmail(input *Input) (string, error) {
	var b strings.Builder

	if len(input.Packages) == 0 {
		fmt.Fprintf(&b, "We could not put together a package for %s within the requested budget.\n", eventLabel(input.EventType))
		b.WriteString("Widening the budget range or reducing the guest count usually helps.\n")
		fmt.Fprintf(&b, "\nReference: %s\n", input.RequestID)
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Here are %d package proposals for %s", len(input.Packages), eventLabel(input.EventType))
	if input.GuestCount > 0 {
		fmt.Fprintf(&b, " (%d guests)", input.GuestCount)
	}
	b.WriteString(".\n")

	for i, pkg := range input.Packages {
		if strings.TrimSpace(pkg.TierLabel) == "" {
			return "", fmt.Errorf("package %d has no tier label", i+1)
		}
		if pkg.TotalCost < 0 || math.IsNaN(pkg.TotalCost) || math.IsInf(pkg.TotalCost, 0) {
			return "", fmt.Errorf("package %q has invalid total %v", pkg.TierLabel, pkg.TotalCost)
		}

		fmt.Fprintf(&b, "\n%d. %s: %s total, match score %d/100\n", i+1, pkg.TierLabel, money(pkg.TotalCost), pkg.MatchScore)
		for _, sel := range pkg.Selections {
			writeSelection(&b, sel)
		}
		if len(pkg.Features) > 0 {
			fmt.Fprintf(&b, "   Highlights: %s\n", strings.Join(pkg.Features, "; "))
		}
	}

	fmt.Fprintf(&b, "\nReference: %s\n", input.RequestID)
	return b.String(), nil
}

func writeSelection(b *strings.Builder, sel models.ProductSelection) {
	name := sel.Name
	if name == "" {
		name = sel.ProductID
	}
	fmt.Fprintf(b, "   - %s: %s, %s", sel.Category, name, money(sel.TotalPrice))
	if sel.PerGuest {
		fmt.Fprintf(b, " (%s per guest)", money(sel.UnitPrice))
	}
	b.WriteString("\n")
}

// RenderSMS is the one-line summary sent alongside the email.
func RenderSMS(input *Input) string {
	if len(input.Packages) == 0 {
		return fmt.Sprintf("No event packages matched the budget for %s. Ref %s", eventLabel(input.EventType), input.RequestID)
	}

	lo, hi := input.Packages[0].TotalCost, input.Packages[0].TotalCost
	for _, p := range input.Packages[1:] {
		lo = math.Min(lo, p.TotalCost)
		hi = math.Max(hi, p.TotalCost)
	}
	return fmt.Sprintf("%d package proposals for %s, from %s to %s. Details sent to %s. Ref %s",
		len(input.Packages), eventLabel(input.EventType), money(lo), money(hi), input.RecipientEmail, input.RequestID)
}
