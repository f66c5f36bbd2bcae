package recommend

import (
	"fmt"
	"strings"
)

// MaxFeatures caps the highlight list of a package.
const MaxFeatures = 5

// SynthesizeFeatures derives the short highlight list shown with a package.
func SynthesizeFeatures(pkg Package, ctx EventContext, profile CategoryProfile) []string {
	lines := make([]string, 0, 2+len(pkg.Selections))
	lines = append(lines, fmt.Sprintf("Suitable for %d guests", ctx.GuestCount))
	if et := normalizeEventType(ctx.EventType); et != "" {
		lines = append(lines, fmt.Sprintf("Curated for your %s event", et))
	}

	for _, category := range profile.Categories {
		sel, ok := pkg.Selections[category]
		if !ok {
			continue
		}
		lines = append(lines, categoryFeature(category, sel, ctx.GuestCount))
	}

	return dedupeCapped(lines, MaxFeatures)
}

func categoryFeature(category string, sel Selection, guests int) string {
	switch category {
	case CategoryVenue:
		name := sel.Product.Name
		if name == "" {
			name = "Dedicated venue"
		}
		if sel.Product.Capacity != nil {
			return fmt.Sprintf("%s for up to %d guests", name, *sel.Product.Capacity)
		}
		return name
	case CategoryCatering:
		return fmt.Sprintf("Catering for %d guests", guests)
	case CategoryBakers:
		return fmt.Sprintf("Cakes and desserts for %d guests", guests)
	case CategoryRent:
		return fmt.Sprintf("Rental furniture and equipment for %d guests", guests)
	case CategoryDecorations:
		return "Themed decorations"
	case CategoryPhotography:
		return "Professional photography coverage"
	case CategoryAudioVisual:
		return "Sound and lighting setup"
	default:
		label := strings.ReplaceAll(category, "-", " ")
		if label == "" {
			return "Additional service included"
		}
		return strings.ToUpper(label[:1]) + label[1:] + " included"
	}
}

func dedupeCapped(lines []string, limit int) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, limit)
	for _, l := range lines {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out
}
