// Package taxonomy defines the closed violation label sets and their acceptance thresholds.
package taxonomy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/geometry"
)

// Label set names
const (
	SetGeneral   = "general"
	SetEquipment = "equipment"
)

// Category groups violation types for filtering and export
const (
	CategoryPPE       = "ppe"
	CategoryProximity = "proximity"
	CategoryEquipment = "equipment"
	CategoryOther     = "other"
)

// Entry describes one violation type
type Entry struct {
	Type     string
	Category string
	Severity models.Severity
}

// LabelSet is a closed enumeration of violation types for one detection flow
type LabelSet struct {
	Name      string
	Threshold float64 // acceptance requires confidence strictly above this
	Entries   []Entry
}

var general = LabelSet{
	Name:      SetGeneral,
	Threshold: 0.6,
	Entries: []Entry{
		{"No Helmet", CategoryPPE, models.SeverityCritical},
		{"No Safety Vest", CategoryPPE, models.SeverityWarning},
		{"No Gloves", CategoryPPE, models.SeverityWarning},
		{"Person Too Close to Machinery", CategoryProximity, models.SeverityCritical},
		{"Unsafe Tool Handling", CategoryEquipment, models.SeverityWarning},
		{geometry.LabelBrokenCylinder, CategoryEquipment, models.SeverityWarning},
		{"Machine Collision Risk", CategoryProximity, models.SeverityCritical},
	},
}

// The equipment set is smaller and more specific, so it uses the stricter threshold.
var equipment = LabelSet{
	Name:      SetEquipment,
	Threshold: 0.7,
	Entries: []Entry{
		{geometry.LabelHandlingDrill, CategoryEquipment, models.SeverityWarning},
		{geometry.LabelBrokenCylinder, CategoryEquipment, models.SeverityWarning},
		{geometry.LabelRodAssisted, CategoryEquipment, models.SeverityCritical},
		{geometry.LabelLHCollision, CategoryProximity, models.SeverityCritical},
	},
}

// Get returns the named label set
func Get(name string) (LabelSet, error) {
	switch name {
	case SetGeneral, "":
		return general, nil
	case SetEquipment:
		return equipment, nil
	}
	return LabelSet{}, fmt.Errorf("unknown label set %q", name)
}

// Types returns the violation type names in declaration order
func (s LabelSet) Types() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Type
	}
	return out
}

// Lookup finds an entry by type, ignoring case and surrounding space
func (s LabelSet) Lookup(violationType string) (Entry, bool) {
	want := strings.TrimSpace(violationType)
	i := slices.IndexFunc(s.Entries, func(e Entry) bool {
		return strings.EqualFold(e.Type, want)
	})
	if i < 0 {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Accepts reports whether confidence clears the set's threshold
func (s LabelSet) Accepts(confidence float64) bool {
	return confidence > s.Threshold
}

// Categorize returns the category of any known type across all sets.
// Filename-derived labels outside the sets fall back to keyword matching.
func Categorize(violationType string) string {
	for _, set := range []LabelSet{general, equipment} {
		if e, ok := set.Lookup(violationType); ok {
			return e.Category
		}
	}

	lower := strings.ToLower(violationType)
	switch {
	case containsAny(lower, "helmet", "vest", "glove", "ppe", "goggle", "boots"):
		return CategoryPPE
	case containsAny(lower, "close", "collision", "proximity", "near"):
		return CategoryProximity
	case containsAny(lower, "drill", "cylinder", "rod", "beam", "tool", "machine"):
		return CategoryEquipment
	}
	return CategoryOther
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
