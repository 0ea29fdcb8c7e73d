package setlist

import (
	"math"
	"sort"
	"time"

	"github.com/fabiofranco85/escala/internal/models"
)

// parseDateOrToday parses a YYYY-MM-DD date, defaulting to today for
// the empty string.
func parseDateOrToday(date string) (time.Time, error) {
	if date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, Validationf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// lastUsedDates finds the most recent service date each known title
// appeared on. History entries with missing or malformed dates are
// skipped, as are songs outside the catalog.
func lastUsedDates(known map[string]bool, history []models.Setlist) map[string]time.Time {
	lastUsed := make(map[string]time.Time)

	for _, entry := range history {
		used, err := time.Parse(DateLayout, entry.Date)
		if err != nil {
			continue
		}
		for _, moment := range entry.Moments {
			for _, title := range moment.Songs {
				if !known[title] {
					continue
				}
				if prev, ok := lastUsed[title]; !ok || used.After(prev) {
					lastUsed[title] = used
				}
			}
		}
	}

	return lastUsed
}

// RecencyScores computes a freshness score in [0,1] for every catalog
// title. Never-used songs score 1.0; a song used today scores 0.0 and
// recovers exponentially with decayDays as the time constant.
func RecencyScores(songs []models.Song, history []models.Setlist, currentDate string, decayDays float64) (map[string]float64, error) {
	current, err := parseDateOrToday(currentDate)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(songs))
	scores := make(map[string]float64, len(songs))
	for _, s := range songs {
		known[s.Title] = true
		scores[s.Title] = 1.0
	}

	for title, used := range lastUsedDates(known, history) {
		days := int(current.Sub(used).Hours() / 24)
		if days <= 0 {
			scores[title] = 0.0
			continue
		}
		scores[title] = 1.0 - math.Exp(-float64(days)/decayDays)
	}

	return scores, nil
}

// UsageEntry records one service a song appeared in and the moments it
// filled there.
type UsageEntry struct {
	Date    string   `json:"date"`
	Moments []string `json:"moments"`
}

// UsageHistory lists every service a title appeared in, oldest first.
// Entries without a date are skipped.
func UsageHistory(title string, history []models.Setlist) []UsageEntry {
	usages := make([]UsageEntry, 0)

	for _, entry := range history {
		if entry.Date == "" {
			continue
		}
		var moments []string
		for _, m := range entry.Moments {
			for _, song := range m.Songs {
				if song == title {
					moments = append(moments, m.Name)
					break
				}
			}
		}
		if len(moments) > 0 {
			usages = append(usages, UsageEntry{Date: entry.Date, Moments: moments})
		}
	}

	sort.SliceStable(usages, func(i, j int) bool {
		return usages[i].Date < usages[j].Date
	})
	return usages
}

// DaysSinceLastUse returns how many days ago a title was last played.
// The second return is false when the song has never been used.
func DaysSinceLastUse(title string, history []models.Setlist, currentDate string) (int, bool, error) {
	current, err := parseDateOrToday(currentDate)
	if err != nil {
		return 0, false, err
	}

	var last time.Time
	found := false
	for _, entry := range history {
		used, err := time.Parse(DateLayout, entry.Date)
		if err != nil {
			continue
		}
		if !entry.Moments.Contains(title) {
			continue
		}
		if !found || used.After(last) {
			last = used
			found = true
		}
	}

	if !found {
		return 0, false, nil
	}
	return int(current.Sub(last).Hours() / 24), true, nil
}
