package setlist

import "sort"

// OrderByEnergy sorts a moment's picks into an emotional arc and
// returns the titles. The first overrideCount picks keep their request
// order; only the auto-selected tail is sorted. Moments without an
// ordering rule, and disabled ordering, keep selection order.
func OrderByEnergy(moment string, picks []Pick, overrideCount int, cfg Config) []string {
	if !cfg.EnergyOrderingEnabled {
		return pickTitles(picks)
	}

	rule, ok := cfg.EnergyRules[moment]
	if !ok {
		return pickTitles(picks)
	}

	if overrideCount < 0 {
		overrideCount = 0
	}
	if overrideCount > len(picks) {
		overrideCount = len(picks)
	}

	frozen := picks[:overrideCount]
	auto := append([]Pick(nil), picks[overrideCount:]...)

	switch rule {
	case OrderAscending:
		sort.SliceStable(auto, func(i, j int) bool { return auto[i].Energy < auto[j].Energy })
	case OrderDescending:
		sort.SliceStable(auto, func(i, j int) bool { return auto[i].Energy > auto[j].Energy })
	default:
		// Unrecognized rule value: keep selection order.
	}

	titles := make([]string, 0, len(picks))
	for _, p := range frozen {
		titles = append(titles, p.Title)
	}
	for _, p := range auto {
		titles = append(titles, p.Title)
	}
	return titles
}

func pickTitles(picks []Pick) []string {
	titles := make([]string, len(picks))
	for i, p := range picks {
		titles[i] = p.Title
	}
	return titles
}
