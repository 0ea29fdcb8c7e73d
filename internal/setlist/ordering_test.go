package setlist

import (
	"reflect"
	"testing"
)

func TestOrderByEnergy_Ascending(t *testing.T) {
	picks := []Pick{
		{Title: "Worship Song", Energy: 4},
		{Title: "Upbeat Song", Energy: 1},
		{Title: "Reflective Song", Energy: 3},
		{Title: "Moderate Song", Energy: 2},
	}

	got := OrderByEnergy("louvor", picks, 0, DefaultConfig())
	want := []string{"Upbeat Song", "Moderate Song", "Reflective Song", "Worship Song"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ascending order wrong:\nGot:  %v\nWant: %v", got, want)
	}
}

func TestOrderByEnergy_Descending(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnergyRules = map[string]OrderRule{"louvor": OrderDescending}

	picks := []Pick{
		{Title: "Upbeat Song", Energy: 1},
		{Title: "Worship Song", Energy: 4},
	}

	got := OrderByEnergy("louvor", picks, 0, cfg)
	want := []string{"Worship Song", "Upbeat Song"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Descending order wrong: %v", got)
	}
}

func TestOrderByEnergy_NoRuleKeepsSelectionOrder(t *testing.T) {
	picks := []Pick{
		{Title: "Worship Song", Energy: 4},
		{Title: "Upbeat Song", Energy: 1},
	}

	// prelúdio has no ordering rule in the default config
	got := OrderByEnergy("prelúdio", picks, 0, DefaultConfig())
	want := []string{"Worship Song", "Upbeat Song"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unruled moment should keep order: %v", got)
	}
}

func TestOrderByEnergy_DisabledKeepsSelectionOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnergyOrderingEnabled = false

	picks := []Pick{
		{Title: "Worship Song", Energy: 4},
		{Title: "Upbeat Song", Energy: 1},
	}

	got := OrderByEnergy("louvor", picks, 0, cfg)
	want := []string{"Worship Song", "Upbeat Song"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Disabled ordering should keep order: %v", got)
	}
}

func TestOrderByEnergy_FreezesOverridePrefix(t *testing.T) {
	picks := []Pick{
		{Title: "Chosen First", Energy: 4},  // override, stays put
		{Title: "Chosen Second", Energy: 3}, // override, stays put
		{Title: "Auto High", Energy: 4},
		{Title: "Auto Low", Energy: 1},
	}

	got := OrderByEnergy("louvor", picks, 2, DefaultConfig())
	want := []string{"Chosen First", "Chosen Second", "Auto Low", "Auto High"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Override prefix not preserved:\nGot:  %v\nWant: %v", got, want)
	}
}

func TestOrderByEnergy_OverrideCountClamped(t *testing.T) {
	picks := []Pick{
		{Title: "B", Energy: 2},
		{Title: "A", Energy: 1},
	}

	// More overrides requested than picks kept: everything frozen
	got := OrderByEnergy("louvor", picks, 5, DefaultConfig())
	if !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Oversized override count should freeze all picks: %v", got)
	}

	// Negative counts behave like zero
	got = OrderByEnergy("louvor", picks, -1, DefaultConfig())
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Negative override count should sort everything: %v", got)
	}
}

func TestOrderByEnergy_StableOnTies(t *testing.T) {
	picks := []Pick{
		{Title: "First Two", Energy: 2},
		{Title: "Second Two", Energy: 2},
		{Title: "One", Energy: 1},
	}

	got := OrderByEnergy("louvor", picks, 0, DefaultConfig())
	want := []string{"One", "First Two", "Second Two"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Equal energies should keep selection order: %v", got)
	}
}

func TestOrderByEnergy_EmptyPicks(t *testing.T) {
	got := OrderByEnergy("louvor", nil, 0, DefaultConfig())
	if len(got) != 0 {
		t.Errorf("Empty picks should give empty titles, got %v", got)
	}
}
