package setlist

import (
	"math/rand"

	"github.com/fabiofranco85/escala/internal/models"
)

// Shared fixtures: a small catalogue covering different energies and
// moments, two past services, and one complete setlist.

func sampleSongs() []models.Song {
	return []models.Song{
		{Title: "Upbeat Song", Tags: map[string]int{"louvor": 4, "prelúdio": 3}, Energy: 1},
		{Title: "Moderate Song", Tags: map[string]int{"louvor": 3, "saudação": 4}, Energy: 2},
		{Title: "Reflective Song", Tags: map[string]int{"louvor": 5, "ofertório": 3}, Energy: 3},
		{Title: "Worship Song", Tags: map[string]int{"louvor": 4, "poslúdio": 2}, Energy: 4},
	}
}

// extendedSongs adds a spare louvor song so replacement tests have an
// unused candidate.
func extendedSongs() []models.Song {
	return append(sampleSongs(), models.Song{
		Title: "Extra Song", Tags: map[string]int{"louvor": 3}, Energy: 2,
	})
}

func sampleHistory() []models.Setlist {
	return []models.Setlist{
		{
			Date: "2026-01-15",
			Moments: models.Moments{
				{Name: "louvor", Songs: []string{"Upbeat Song", "Moderate Song", "Reflective Song", "Worship Song"}},
				{Name: "prelúdio", Songs: []string{"Upbeat Song"}},
			},
		},
		{
			Date: "2026-01-01",
			Moments: models.Moments{
				{Name: "louvor", Songs: []string{"Moderate Song", "Worship Song", "Reflective Song", "Upbeat Song"}},
				{Name: "ofertório", Songs: []string{"Reflective Song"}},
			},
		},
	}
}

func sampleSetlist() models.Setlist {
	return models.Setlist{
		Date: "2026-02-15",
		Moments: models.Moments{
			{Name: "prelúdio", Songs: []string{"Upbeat Song"}},
			{Name: "louvor", Songs: []string{"Upbeat Song", "Moderate Song", "Reflective Song", "Worship Song"}},
			{Name: "ofertório", Songs: []string{"Reflective Song"}},
			{Name: "saudação", Songs: []string{"Moderate Song"}},
			{Name: "crianças", Songs: []string{"Upbeat Song"}},
			{Name: "poslúdio", Songs: []string{"Worship Song"}},
		},
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
