package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Service categories known to the marketplace catalog.
const (
	CategoryVenue       = "venue"
	CategoryCatering    = "catering"
	CategoryDecorations = "decorations"
	CategoryPhotography = "photography"
	CategoryAudioVisual = "audio-visual"
	CategoryBakers      = "bakers"
	CategoryRent        = "rent"
)

// DefaultProfileName is reported when an event type has no profile.
const DefaultProfileName = "default"

const weightTolerance = 1e-6

// defaultProfiles is the built-in event type table. Category order is claim
// order: earlier categories get first pick of each tier's budget.
var defaultProfiles = map[string]CategoryProfile{
	"wedding": {
		Categories: []string{CategoryVenue, CategoryCatering, CategoryDecorations, CategoryPhotography, CategoryAudioVisual, CategoryBakers},
		Weights: map[string]float64{
			CategoryVenue: 0.25, CategoryCatering: 0.25, CategoryDecorations: 0.15,
			CategoryPhotography: 0.15, CategoryAudioVisual: 0.10, CategoryBakers: 0.10,
		},
	},
	"birthday": {
		Categories: []string{CategoryVenue, CategoryCatering, CategoryDecorations, CategoryAudioVisual, CategoryBakers},
		Weights: map[string]float64{
			CategoryVenue: 0.25, CategoryCatering: 0.25, CategoryBakers: 0.20,
			CategoryDecorations: 0.15, CategoryAudioVisual: 0.15,
		},
	},
	"corporate": {
		Categories: []string{CategoryVenue, CategoryAudioVisual, CategoryCatering, CategoryPhotography, CategoryRent},
		Weights: map[string]float64{
			CategoryVenue: 0.30, CategoryAudioVisual: 0.30, CategoryCatering: 0.20,
			CategoryPhotography: 0.10, CategoryRent: 0.10,
		},
	},
	"social": {
		Categories: []string{CategoryVenue, CategoryCatering, CategoryDecorations, CategoryAudioVisual},
		Weights: map[string]float64{
			CategoryVenue: 0.30, CategoryCatering: 0.30, CategoryDecorations: 0.20, CategoryAudioVisual: 0.20,
		},
	},
	"cultural": {
		Categories: []string{CategoryVenue, CategoryDecorations, CategoryAudioVisual, CategoryCatering, CategoryPhotography},
		Weights: map[string]float64{
			CategoryVenue: 0.25, CategoryDecorations: 0.25, CategoryAudioVisual: 0.20,
			CategoryCatering: 0.20, CategoryPhotography: 0.10,
		},
	},
	"personal": {
		Categories: []string{CategoryVenue, CategoryCatering, CategoryDecorations, CategoryBakers},
		Weights: map[string]float64{
			CategoryVenue: 0.30, CategoryCatering: 0.30, CategoryDecorations: 0.20, CategoryBakers: 0.20,
		},
	},
	"festival": {
		Categories: []string{CategoryVenue, CategoryAudioVisual, CategoryDecorations, CategoryCatering, CategoryRent},
		Weights: map[string]float64{
			CategoryVenue: 0.20, CategoryAudioVisual: 0.25, CategoryDecorations: 0.20,
			CategoryCatering: 0.20, CategoryRent: 0.15,
		},
	},
	"conference": {
		Categories: []string{CategoryVenue, CategoryAudioVisual, CategoryCatering, CategoryRent},
		Weights: map[string]float64{
			CategoryVenue: 0.30, CategoryAudioVisual: 0.30, CategoryCatering: 0.25, CategoryRent: 0.15,
		},
	},
}

var profileAliases = map[string]string{
	"marriage": "wedding",
}

var fallbackProfile = CategoryProfile{
	Name:       DefaultProfileName,
	Categories: []string{CategoryVenue, CategoryCatering, CategoryDecorations, CategoryPhotography},
	Weights: map[string]float64{
		CategoryVenue: 0.25, CategoryCatering: 0.25, CategoryDecorations: 0.25, CategoryPhotography: 0.25,
	},
}

// ProfileTable resolves event types to category profiles. It is read-only
// after construction and safe for concurrent use.
type ProfileTable struct {
	profiles map[string]CategoryProfile
	aliases  map[string]string
	fallback CategoryProfile
}

// DefaultProfileTable returns the built-in table.
func DefaultProfileTable() *ProfileTable {
	t := &ProfileTable{
		profiles: make(map[string]CategoryProfile, len(defaultProfiles)),
		aliases:  make(map[string]string, len(profileAliases)),
		fallback: cloneProfile(fallbackProfile),
	}
	for name, p := range defaultProfiles {
		p.Name = name
		t.profiles[name] = cloneProfile(p)
	}
	for alias, target := range profileAliases {
		t.aliases[alias] = target
	}
	return t
}

// WithProfiles returns a copy of t with extra or replacement profiles. Every
// profile is validated; the first invalid one aborts the merge.
func (t *ProfileTable) WithProfiles(extra map[string]CategoryProfile) (*ProfileTable, error) {
	out := &ProfileTable{
		profiles: make(map[string]CategoryProfile, len(t.profiles)+len(extra)),
		aliases:  make(map[string]string, len(t.aliases)),
		fallback: t.fallback,
	}
	for name, p := range t.profiles {
		out.profiles[name] = p
	}
	for alias, target := range t.aliases {
		out.aliases[alias] = target
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := normalizeEventType(name)
		p := cloneProfile(extra[name])
		p.Name = key
		if err := ValidateProfile(p); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		if key == DefaultProfileName {
			out.fallback = p
			continue
		}
		out.profiles[key] = p
		delete(out.aliases, key)
	}
	return out, nil
}

// Resolve returns the profile for eventType (case-insensitive) or the
// default profile. The returned value is a copy.
func (t *ProfileTable) Resolve(eventType string) CategoryProfile {
	key := normalizeEventType(eventType)
	if target, ok := t.aliases[key]; ok {
		key = target
	}
	if p, ok := t.profiles[key]; ok {
		return cloneProfile(p)
	}
	return cloneProfile(t.fallback)
}

// Names lists the known event types, sorted.
func (t *ProfileTable) Names() []string {
	names := make([]string, 0, len(t.profiles)+len(t.aliases))
	for name := range t.profiles {
		names = append(names, name)
	}
	for alias := range t.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// ValidateProfile checks the structural invariants of a profile.
func ValidateProfile(p CategoryProfile) error {
	if len(p.Categories) == 0 {
		return fmt.Errorf("no categories")
	}
	seen := make(map[string]bool, len(p.Categories))
	sum := 0.0
	for _, c := range p.Categories {
		if seen[c] {
			return fmt.Errorf("duplicate category %q", c)
		}
		seen[c] = true
		w, ok := p.Weights[c]
		if !ok || w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("category %q needs a positive weight", c)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights sum to %.6f, want 1", sum)
	}
	return nil
}

func normalizeEventType(eventType string) string {
	return strings.ToLower(strings.TrimSpace(eventType))
}

func cloneProfile(p CategoryProfile) CategoryProfile {
	out := CategoryProfile{
		Name:       p.Name,
		Categories: append([]string(nil), p.Categories...),
		Weights:    make(map[string]float64, len(p.Weights)),
	}
	for k, v := range p.Weights {
		out.Weights[k] = v
	}
	return out
}
