package setlist

import (
	"math/rand"
	"sort"

	"github.com/fabiofranco85/escala/internal/models"
)

// Pick is one selected song together with the energy it carried at
// selection time, so energy ordering can run without a catalog lookup.
type Pick struct {
	Title  string
	Energy float64
}

// indexByTitle builds a title lookup over the catalog slice.
func indexByTitle(songs []models.Song) map[string]models.Song {
	byTitle := make(map[string]models.Song, len(songs))
	for _, s := range songs {
		byTitle[s.Title] = s
	}
	return byTitle
}

// SelectSongsForMoment picks up to count songs for one service moment.
//
// Overrides come first, in request order; unknown titles and titles
// already placed elsewhere are skipped. Remaining slots are filled from
// the songs tagged for the moment, scored by tag weight times recency
// (plus a small random jitter so equal songs rotate), highest first.
//
// alreadySelected is shared across moments within one generation run
// and is extended with every pick made here.
func SelectSongsForMoment(
	moment string,
	count int,
	songs []models.Song,
	recencyScores map[string]float64,
	alreadySelected map[string]struct{},
	overrides []string,
	rng *rand.Rand,
) []Pick {
	byTitle := indexByTitle(songs)
	selected := make([]Pick, 0, count)

	for _, title := range overrides {
		song, known := byTitle[title]
		if !known {
			continue
		}
		if _, taken := alreadySelected[title]; taken {
			continue
		}
		selected = append(selected, Pick{Title: title, Energy: song.Energy})
		alreadySelected[title] = struct{}{}
	}

	if len(selected) >= count {
		return selected[:count]
	}

	type candidate struct {
		title  string
		energy float64
		score  float64
	}

	candidates := make([]candidate, 0, len(songs))
	for _, song := range songs {
		if _, taken := alreadySelected[song.Title]; taken {
			continue
		}
		if !song.HasMoment(moment) {
			continue
		}

		recency, ok := recencyScores[song.Title]
		if !ok {
			recency = 1.0
		}

		// Weight rewards strong tags, recency rewards rest; the +0.1
		// keeps songs played today from flatlining to zero.
		score := float64(song.Weight(moment))*(recency+0.1) + rng.Float64()*0.5
		candidates = append(candidates, candidate{
			title:  song.Title,
			energy: song.Energy,
			score:  score,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	for _, c := range candidates {
		if len(selected) >= count {
			break
		}
		selected = append(selected, Pick{Title: c.title, Energy: c.energy})
		alreadySelected[c.title] = struct{}{}
	}

	return selected
}
