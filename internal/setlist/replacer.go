package setlist

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/fabiofranco85/escala/internal/models"
)

// ReplaceRequest names one slot to change. An empty Song means
// auto-select a replacement; otherwise Song is placed as given.
type ReplaceRequest struct {
	Moment   string `json:"moment"`
	Position int    `json:"position"`
	Song     string `json:"song,omitempty"`
}

// slot identifies one position inside a setlist.
type slot struct {
	moment   string
	position int
}

// FindTargetSetlist picks the setlist to modify. With an empty date it
// returns the most recent entry, optionally the most recent of a given
// event type. With a date it requires an exact date+label+eventType
// match. history must be sorted most recent first.
func FindTargetSetlist(history []models.Setlist, date, label, eventType string) (models.Setlist, error) {
	if len(history) == 0 {
		return models.Setlist{}, NotFoundf("no setlists found in history")
	}

	if date == "" {
		if eventType != "" {
			for _, entry := range history {
				if entry.EventType == eventType {
					return entry, nil
				}
			}
			return models.Setlist{}, NotFoundf("no setlists found for event type %q", eventType)
		}
		return history[0], nil
	}

	for _, entry := range history {
		if entry.Date == date && entry.Label == label && entry.EventType == eventType {
			return entry, nil
		}
	}

	var suffix strings.Builder
	if label != "" {
		fmt.Fprintf(&suffix, " (label: %s)", label)
	}
	if eventType != "" {
		fmt.Fprintf(&suffix, " (event type: %s)", eventType)
	}
	return models.Setlist{}, NotFoundf("setlist for date %s%s not found", date, suffix.String())
}

// ValidateReplacementRequest checks one replacement before it runs:
// the moment must be configured and populated, the position in range,
// and a manual song (when given) must exist and carry the moment's tag.
func ValidateReplacementRequest(target models.Setlist, moment string, position int, manualSong string, songs []models.Song, cfg Config) error {
	if !cfg.HasMoment(moment) {
		return Validationf("invalid moment %q. Valid: %s", moment, strings.Join(cfg.MomentNames(), ", "))
	}

	momentSongs, _ := target.Moments.Get(moment)
	if len(momentSongs) == 0 {
		return Validationf("no songs found in moment %q", moment)
	}
	if position < 0 || position >= len(momentSongs) {
		return Validationf("position %d out of range: moment %q has %d song(s) (0-%d)",
			position, moment, len(momentSongs), len(momentSongs)-1)
	}

	if manualSong != "" {
		byTitle := indexByTitle(songs)
		song, ok := byTitle[manualSong]
		if !ok {
			return Validationf("song %q not found in database", manualSong)
		}
		if !song.HasMoment(moment) {
			return Validationf("song %q is not tagged for moment %q", manualSong, moment)
		}
	}

	return nil
}

// SelectReplacementSong resolves what goes into a slot. Manual mode
// validates and returns the given song. Auto mode picks the freshest
// eligible song not already elsewhere in the setlist; the current
// occupant stays eligible, so a sparse catalog can pick it again.
func SelectReplacementSong(
	target models.Setlist,
	moment string,
	position int,
	manualSong string,
	songs []models.Song,
	history []models.Setlist,
	cfg Config,
	rng *rand.Rand,
) (string, error) {
	if err := ValidateReplacementRequest(target, moment, position, manualSong, songs, cfg); err != nil {
		return "", err
	}
	if manualSong != "" {
		return manualSong, nil
	}

	momentSongs, _ := target.Moments.Get(moment)
	occupant := momentSongs[position]

	exclusion := make(map[string]struct{})
	for _, m := range target.Moments {
		for _, title := range m.Songs {
			if title != occupant {
				exclusion[title] = struct{}{}
			}
		}
	}

	scores, err := RecencyScores(songs, history, target.Date, cfg.RecencyDecayDays)
	if err != nil {
		return "", err
	}

	picks := SelectSongsForMoment(moment, 1, songs, scores, exclusion, nil, rng)
	if len(picks) == 0 {
		return "", Validationf("no available replacement songs for moment %q: all eligible songs may already be in the setlist", moment)
	}

	return picks[0].Title, nil
}

// ReplaceSong swaps one slot of a setlist and returns a new copy, the
// input untouched. When reorderEnergy is set and the moment has an
// ordering rule, the whole moment is re-sorted by energy afterwards.
// Moment membership is checked against the setlist itself, not the
// configured layout, so extra moments remain replaceable.
func ReplaceSong(
	target models.Setlist,
	moment string,
	position int,
	replacement string,
	songs []models.Song,
	reorderEnergy bool,
	cfg Config,
) (models.Setlist, error) {
	momentSongs, _ := target.Moments.Get(moment)
	if len(momentSongs) == 0 {
		return models.Setlist{}, Validationf("no songs found in moment %q", moment)
	}
	if position < 0 || position >= len(momentSongs) {
		return models.Setlist{}, Validationf("position %d out of range: moment %q has %d song(s) (0-%d)",
			position, moment, len(momentSongs), len(momentSongs)-1)
	}

	out := target.Clone()
	out.Moments.ReplaceAt(moment, position, replacement)

	if reorderEnergy && momentHasOrderingRule(moment, cfg) {
		byTitle := indexByTitle(songs)
		titles, _ := out.Moments.Get(moment)
		out.Moments.Set(moment, reorderMomentByEnergy(moment, titles, byTitle, cfg))
	}

	out.Moments = normalizeMoments(out.Moments, cfg)
	return out, nil
}

// ReplaceSongsBatch applies several replacements in one pass. All
// requests are validated up front; any failure leaves the setlist
// untouched. Auto-selected songs are excluded from later auto picks in
// the same batch, manual songs are not. Each affected moment with an
// ordering rule is re-sorted once at the end.
func ReplaceSongsBatch(
	target models.Setlist,
	requests []ReplaceRequest,
	songs []models.Song,
	history []models.Setlist,
	cfg Config,
	rng *rand.Rand,
) (models.Setlist, error) {
	for _, req := range requests {
		if err := ValidateReplacementRequest(target, req.Moment, req.Position, req.Song, songs, cfg); err != nil {
			return models.Setlist{}, err
		}
	}

	// Songs sitting in slots about to be replaced stay out of the
	// exclusion pool, so they remain pickable elsewhere.
	replacing := make(map[slot]bool, len(requests))
	for _, req := range requests {
		replacing[slot{req.Moment, req.Position}] = true
	}

	exclusion := make(map[string]struct{})
	for _, m := range target.Moments {
		for idx, title := range m.Songs {
			if !replacing[slot{m.Name, idx}] {
				exclusion[title] = struct{}{}
			}
		}
	}

	var scores map[string]float64
	resolved := make([]ReplaceRequest, 0, len(requests))

	for _, req := range requests {
		title := req.Song
		if title == "" {
			if scores == nil {
				var err error
				scores, err = RecencyScores(songs, history, target.Date, cfg.RecencyDecayDays)
				if err != nil {
					return models.Setlist{}, err
				}
			}

			picks := SelectSongsForMoment(req.Moment, 1, songs, scores, copySet(exclusion), nil, rng)
			if len(picks) == 0 {
				return models.Setlist{}, Validationf("no replacement found for %s position %d", req.Moment, req.Position)
			}

			title = picks[0].Title
			exclusion[title] = struct{}{}
		}
		resolved = append(resolved, ReplaceRequest{Moment: req.Moment, Position: req.Position, Song: title})
	}

	out := target.Clone()
	for _, r := range resolved {
		out.Moments.ReplaceAt(r.Moment, r.Position, r.Song)
	}

	byTitle := indexByTitle(songs)
	reordered := make(map[string]bool, len(requests))
	for _, req := range requests {
		if reordered[req.Moment] {
			continue
		}
		reordered[req.Moment] = true

		if !momentHasOrderingRule(req.Moment, cfg) {
			continue
		}
		titles, _ := out.Moments.Get(req.Moment)
		out.Moments.Set(req.Moment, reorderMomentByEnergy(req.Moment, titles, byTitle, cfg))
	}

	out.Moments = normalizeMoments(out.Moments, cfg)
	return out, nil
}

// DeriveSetlist builds a variant of a base setlist by auto-replacing a
// random sample of its slots. A nil replaceCount picks a random count
// between 1 and the setlist size; explicit counts are clamped to that
// range. Zero replacements returns a plain deep copy.
func DeriveSetlist(
	base models.Setlist,
	songs []models.Song,
	history []models.Setlist,
	replaceCount *int,
	eventType string,
	cfg Config,
	rng *rand.Rand,
) (models.Setlist, error) {
	available := songs
	if eventType != "" {
		available = models.FilterSongsForEventType(songs, eventType)
	}

	var slots []slot
	for _, m := range base.Moments {
		for idx := range m.Songs {
			slots = append(slots, slot{m.Name, idx})
		}
	}

	total := len(slots)
	if total == 0 {
		return base.Clone(), nil
	}

	var count int
	if replaceCount == nil {
		count = 1 + rng.Intn(total)
	} else {
		count = *replaceCount
		if count < 0 {
			count = 0
		}
		if count > total {
			count = total
		}
	}

	if count == 0 {
		return base.Clone(), nil
	}

	requests := make([]ReplaceRequest, 0, count)
	for _, i := range rng.Perm(total)[:count] {
		requests = append(requests, ReplaceRequest{Moment: slots[i].moment, Position: slots[i].position})
	}

	return ReplaceSongsBatch(base, requests, available, history, cfg, rng)
}

func momentHasOrderingRule(moment string, cfg Config) bool {
	if !cfg.EnergyOrderingEnabled {
		return false
	}
	_, ok := cfg.EnergyRules[moment]
	return ok
}

// reorderMomentByEnergy re-sorts a whole moment, treating every slot as
// auto-selected. Titles missing from the catalog sort with the default
// energy rather than failing.
func reorderMomentByEnergy(moment string, titles []string, byTitle map[string]models.Song, cfg Config) []string {
	picks := make([]Pick, len(titles))
	for i, title := range titles {
		energy := cfg.DefaultEnergy
		if song, ok := byTitle[title]; ok {
			energy = song.Energy
		}
		picks[i] = Pick{Title: title, Energy: energy}
	}
	return OrderByEnergy(moment, picks, 0, cfg)
}

// normalizeMoments rewrites a moments list into canonical order.
func normalizeMoments(moments models.Moments, cfg Config) models.Moments {
	out := make(models.Moments, 0, len(moments))
	for _, name := range cfg.CanonicalOrder(moments) {
		songs, _ := moments.Get(name)
		out = append(out, models.Moment{Name: name, Songs: songs})
	}
	return out
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}
