package setlist

import (
	"math/rand"
	"time"

	"github.com/fabiofranco85/escala/internal/models"
)

// Generator assembles setlists from a song catalog and the service
// history. It is cheap to construct; selection state is per call, so a
// single Generator can serve many requests.
type Generator struct {
	songs   []models.Song
	history []models.Setlist
	cfg     Config
	rng     *rand.Rand
}

// NewGenerator builds a Generator seeded from the clock.
func NewGenerator(songs []models.Song, history []models.Setlist, cfg Config) *Generator {
	return &Generator{
		songs:   songs,
		history: history,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand swaps the random source, mainly so tests can be deterministic.
func (g *Generator) WithRand(rng *rand.Rand) *Generator {
	g.rng = rng
	return g
}

// Generate builds a setlist for a service date.
//
// date may be empty (today). overrides maps moment names to songs that
// must appear first in that moment. eventType narrows the catalog to
// songs available for that service variant; momentsOverride, when
// non-empty, replaces the configured moment layout (used for event
// types that carry their own).
//
// Recency is computed against the full history as of the target date,
// so regenerating an old setlist scores songs the way they scored then.
func (g *Generator) Generate(
	date string,
	overrides map[string][]string,
	label string,
	eventType string,
	momentsOverride models.MomentCounts,
) (models.Setlist, error) {
	if date == "" {
		date = time.Now().Format(DateLayout)
	}

	catalog := models.FilterSongsForEventType(g.songs, eventType)

	scores, err := RecencyScores(catalog, g.history, date, g.cfg.RecencyDecayDays)
	if err != nil {
		return models.Setlist{}, err
	}

	layout := g.cfg.Moments
	if len(momentsOverride) > 0 {
		layout = momentsOverride
	}

	alreadySelected := make(map[string]struct{})
	moments := make(models.Moments, 0, len(layout))

	for _, mc := range layout {
		momentOverrides := overrides[mc.Name]

		picks := SelectSongsForMoment(
			mc.Name, mc.Count, catalog, scores, alreadySelected, momentOverrides, g.rng,
		)

		titles := OrderByEnergy(mc.Name, picks, len(momentOverrides), g.cfg)
		moments = append(moments, models.Moment{Name: mc.Name, Songs: titles})
	}

	return models.Setlist{
		Date:      date,
		Moments:   moments,
		Label:     label,
		EventType: eventType,
	}, nil
}

// GenerateSetlist is the one-shot form of Generator.Generate for
// callers that do not keep a Generator around. A nil rng seeds from
// the clock.
func GenerateSetlist(
	songs []models.Song,
	history []models.Setlist,
	date string,
	overrides map[string][]string,
	label string,
	eventType string,
	momentsOverride models.MomentCounts,
	cfg Config,
	rng *rand.Rand,
) (models.Setlist, error) {
	g := NewGenerator(songs, history, cfg)
	if rng != nil {
		g.rng = rng
	}
	return g.Generate(date, overrides, label, eventType, momentsOverride)
}
