package setlist

import (
	"sort"

	"github.com/fabiofranco85/escala/internal/models"
)

// OrderRule names a direction for energy-based ordering within a moment.
type OrderRule string

const (
	OrderAscending  OrderRule = "ascending"
	OrderDescending OrderRule = "descending"
)

// DateLayout is the wire format for service dates.
const DateLayout = "2006-01-02"

// Config carries the tunables of the generation engine. Zero values are
// not useful; start from DefaultConfig and override.
type Config struct {
	// Moments lists the service moments in presentation order with the
	// number of songs each needs.
	Moments models.MomentCounts

	// RecencyDecayDays controls how fast a played song feels fresh
	// again. A song used exactly this many days ago scores ~0.63.
	RecencyDecayDays float64

	// DefaultWeight applies when a song is picked for a moment it has
	// no explicit tag weight for (override placements).
	DefaultWeight int

	// DefaultEnergy substitutes for songs without energy metadata when
	// reordering.
	DefaultEnergy float64

	// EnergyOrderingEnabled is the master switch for energy ordering.
	EnergyOrderingEnabled bool

	// EnergyRules maps moment names to their ordering direction.
	// Moments without a rule keep selection order.
	EnergyRules map[string]OrderRule
}

// DefaultConfig returns the stock service configuration: six moments,
// 45-day recency decay and ascending energy in louvor.
func DefaultConfig() Config {
	return Config{
		Moments: models.MomentCounts{
			{Name: "prelúdio", Count: 1},
			{Name: "ofertório", Count: 1},
			{Name: "saudação", Count: 1},
			{Name: "crianças", Count: 1},
			{Name: "louvor", Count: 4},
			{Name: "poslúdio", Count: 1},
		},
		RecencyDecayDays:      45,
		DefaultWeight:         3,
		DefaultEnergy:         2.5,
		EnergyOrderingEnabled: true,
		EnergyRules: map[string]OrderRule{
			"louvor": OrderAscending,
		},
	}
}

// WithMoments returns a copy of the config using a different moment
// layout. Used when an event type carries its own moments.
func (c Config) WithMoments(moments models.MomentCounts) Config {
	out := c
	out.Moments = moments.Clone()
	return out
}

// HasMoment reports whether a moment is part of the configured layout.
func (c Config) HasMoment(name string) bool {
	_, ok := c.Moments.Get(name)
	return ok
}

// MomentNames returns the configured moment names in order.
func (c Config) MomentNames() []string {
	return c.Moments.Names()
}

// CanonicalOrder sorts the moment names present in a setlist: configured
// moments first in layout order, then any extras alphabetically.
func (c Config) CanonicalOrder(moments models.Moments) []string {
	present := make(map[string]bool, len(moments))
	for _, m := range moments {
		present[m.Name] = true
	}

	ordered := make([]string, 0, len(moments))
	for _, name := range c.Moments.Names() {
		if present[name] {
			ordered = append(ordered, name)
			delete(present, name)
		}
	}

	extras := make([]string, 0, len(present))
	for name := range present {
		extras = append(extras, name)
	}
	sort.Strings(extras)

	return append(ordered, extras...)
}
