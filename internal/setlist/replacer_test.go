package setlist

import (
	"reflect"
	"strings"
	"testing"

	"github.com/fabiofranco85/escala/internal/models"
)

func TestFindTargetSetlist_EmptyHistory(t *testing.T) {
	_, err := FindTargetSetlist(nil, "", "", "")
	if err == nil {
		t.Fatal("Expected error for empty history")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %T: %v", err, err)
	}
}

func TestFindTargetSetlist_LatestByDefault(t *testing.T) {
	got, err := FindTargetSetlist(sampleHistory(), "", "", "")
	if err != nil {
		t.Fatalf("FindTargetSetlist failed: %v", err)
	}
	if got.Date != "2026-01-15" {
		t.Errorf("Expected most recent entry, got %s", got.Date)
	}
}

func TestFindTargetSetlist_LatestForEventType(t *testing.T) {
	history := []models.Setlist{
		{Date: "2026-01-15", EventType: "main"},
		{Date: "2026-01-10", EventType: "youth"},
		{Date: "2026-01-05", EventType: "youth"},
	}

	got, err := FindTargetSetlist(history, "", "", "youth")
	if err != nil {
		t.Fatalf("FindTargetSetlist failed: %v", err)
	}
	if got.Date != "2026-01-10" {
		t.Errorf("Expected most recent youth entry, got %s", got.Date)
	}

	_, err = FindTargetSetlist(history, "", "", "camp")
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unseen event type, got %v", err)
	}
}

func TestFindTargetSetlist_ExactMatch(t *testing.T) {
	history := []models.Setlist{
		{Date: "2026-01-15", Label: "evening"},
		{Date: "2026-01-15"},
		{Date: "2026-01-01"},
	}

	got, err := FindTargetSetlist(history, "2026-01-15", "evening", "")
	if err != nil {
		t.Fatalf("FindTargetSetlist failed: %v", err)
	}
	if got.Label != "evening" {
		t.Errorf("Expected the labeled entry, got %+v", got)
	}

	// Label must match exactly, including its absence
	got, err = FindTargetSetlist(history, "2026-01-15", "", "")
	if err != nil {
		t.Fatalf("FindTargetSetlist failed: %v", err)
	}
	if got.Label != "" {
		t.Errorf("Expected the unlabeled entry, got %+v", got)
	}

	_, err = FindTargetSetlist(history, "2026-01-15", "morning", "")
	if !IsNotFound(err) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), "(label: morning)") {
		t.Errorf("Error should name the missing label: %v", err)
	}
}

func TestValidateReplacementRequest(t *testing.T) {
	target := sampleSetlist()
	songs := extendedSongs()
	cfg := DefaultConfig()

	sparse := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"Upbeat Song"}}},
	}

	tests := []struct {
		name     string
		target   models.Setlist
		moment   string
		position int
		song     string
		wantErr  string
	}{
		{"valid manual", target, "louvor", 0, "Extra Song", ""},
		{"valid auto", target, "louvor", 0, "", ""},
		{"unknown moment", target, "adoração", 0, "", "invalid moment"},
		{"moment empty in setlist", sparse, "prelúdio", 0, "", "no songs found in moment"},
		{"negative position", target, "louvor", -1, "", "out of range"},
		{"position past end", target, "louvor", 4, "", "out of range"},
		{"song not in catalog", target, "louvor", 0, "Ghost Song", "not found in database"},
		{"song missing moment tag", target, "prelúdio", 0, "Extra Song", "is not tagged for"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReplacementRequest(tt.target, tt.moment, tt.position, tt.song, songs, cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSelectReplacementSong_Manual(t *testing.T) {
	got, err := SelectReplacementSong(sampleSetlist(), "louvor", 0, "Extra Song",
		extendedSongs(), sampleHistory(), DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("SelectReplacementSong failed: %v", err)
	}
	if got != "Extra Song" {
		t.Errorf("Manual mode should return the given song, got %q", got)
	}
}

func TestSelectReplacementSong_AutoPrefersFreshSong(t *testing.T) {
	// Extra Song has never been played; the recently used occupant
	// cannot outscore it even with a higher tag weight.
	got, err := SelectReplacementSong(sampleSetlist(), "louvor", 0, "",
		extendedSongs(), sampleHistory(), DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("SelectReplacementSong failed: %v", err)
	}
	if got != "Extra Song" {
		t.Errorf("Expected the never-used candidate, got %q", got)
	}
}

func TestSelectReplacementSong_AutoExcludesRestOfSetlist(t *testing.T) {
	got, err := SelectReplacementSong(sampleSetlist(), "louvor", 0, "",
		extendedSongs(), nil, DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("SelectReplacementSong failed: %v", err)
	}

	// Every other current member of the setlist is off the table.
	for _, blocked := range []string{"Moderate Song", "Reflective Song", "Worship Song"} {
		if got == blocked {
			t.Errorf("Replacement %q is already elsewhere in the setlist", got)
		}
	}
}

func TestSelectReplacementSong_OnlyCandidateIsOccupant(t *testing.T) {
	// With no spare songs, the slot's current occupant is the one
	// eligible candidate and gets picked again.
	got, err := SelectReplacementSong(sampleSetlist(), "louvor", 0, "",
		sampleSongs(), sampleHistory(), DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("SelectReplacementSong failed: %v", err)
	}
	if got != "Upbeat Song" {
		t.Errorf("Expected the occupant to be re-picked, got %q", got)
	}
}

func TestSelectReplacementSong_PoolExhausted(t *testing.T) {
	// saudação holds a song without the saudação tag, and the only
	// tagged candidate already sits in louvor.
	target := models.Setlist{
		Date: "2026-02-15",
		Moments: models.Moments{
			{Name: "saudação", Songs: []string{"Upbeat Song"}},
			{Name: "louvor", Songs: []string{"Moderate Song"}},
		},
	}

	_, err := SelectReplacementSong(target, "saudação", 0, "",
		sampleSongs(), nil, DefaultConfig(), testRand())
	if err == nil {
		t.Fatal("Expected error when no candidates remain")
	}
	if !IsValidation(err) || !strings.Contains(err.Error(), "no available replacement songs") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestReplaceSong_CopyOnWrite(t *testing.T) {
	target := sampleSetlist()
	snapshot := target.Clone()

	result, err := ReplaceSong(target, "louvor", 0, "Extra Song", extendedSongs(), false, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	if !target.Moments.Equal(snapshot.Moments) {
		t.Error("ReplaceSong mutated its input")
	}

	louvor, _ := result.Moments.Get("louvor")
	if louvor[0] != "Extra Song" {
		t.Errorf("Replacement not applied: %v", louvor)
	}
	if result.Date != target.Date {
		t.Errorf("Date changed: %q", result.Date)
	}
}

func TestReplaceSong_ReordersMomentByEnergy(t *testing.T) {
	songs := []models.Song{
		{Title: "Low", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "Mid", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "High", Tags: map[string]int{"louvor": 3}, Energy: 3},
		{Title: "Peak", Tags: map[string]int{"louvor": 3}, Energy: 4},
	}
	target := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"Low", "Mid", "High"}}},
	}

	result, err := ReplaceSong(target, "louvor", 0, "Peak", songs, true, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	want := []string{"Mid", "High", "Peak"}
	if !reflect.DeepEqual(louvor, want) {
		t.Errorf("Reorder wrong: got %v, want %v", louvor, want)
	}
}

func TestReplaceSong_UnknownTitleSortsWithDefaultEnergy(t *testing.T) {
	songs := []models.Song{
		{Title: "Mid", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "High", Tags: map[string]int{"louvor": 3}, Energy: 3},
	}
	target := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"Mid", "High"}}},
	}

	// "Mystery" is not in the catalog; it sorts at the 2.5 default,
	// landing between Mid (2) and High (3).
	result, err := ReplaceSong(target, "louvor", 1, "Mystery", songs, true, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	want := []string{"Mid", "Mystery"}
	if !reflect.DeepEqual(louvor, want) {
		t.Errorf("Default energy placement wrong: got %v, want %v", louvor, want)
	}
}

func TestReplaceSong_SkipsReorderWhenDisabled(t *testing.T) {
	target := sampleSetlist()

	result, err := ReplaceSong(target, "louvor", 3, "Upbeat Song", sampleSongs(), false, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if louvor[3] != "Upbeat Song" {
		t.Errorf("Position 3 should hold the replacement verbatim: %v", louvor)
	}
}

func TestReplaceSong_ExtraMomentIsReplaceable(t *testing.T) {
	// Moments outside the configured layout are still editable; they
	// just sort after the configured ones.
	target := models.Setlist{
		Date: "2026-02-15",
		Moments: models.Moments{
			{Name: "adoração", Songs: []string{"Worship Song"}},
			{Name: "prelúdio", Songs: []string{"Upbeat Song"}},
		},
	}

	result, err := ReplaceSong(target, "adoração", 0, "Extra Song", extendedSongs(), true, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	if got := result.Moments.Names(); !reflect.DeepEqual(got, []string{"prelúdio", "adoração"}) {
		t.Errorf("Extra moment should sort last: %v", got)
	}
	adoracao, _ := result.Moments.Get("adoração")
	if adoracao[0] != "Extra Song" {
		t.Errorf("Replacement not applied: %v", adoracao)
	}
}

func TestReplaceSong_PositionErrors(t *testing.T) {
	target := sampleSetlist()

	if _, err := ReplaceSong(target, "louvor", 99, "Extra Song", extendedSongs(), false, DefaultConfig()); !IsValidation(err) {
		t.Errorf("Expected ValidationError for bad position, got %v", err)
	}
	if _, err := ReplaceSong(target, "vazio", 0, "Extra Song", extendedSongs(), false, DefaultConfig()); !IsValidation(err) {
		t.Errorf("Expected ValidationError for missing moment, got %v", err)
	}
}

func TestReplaceSong_NormalizesScrambledMoments(t *testing.T) {
	scrambled := models.Setlist{
		Date: "2026-02-15",
		Moments: models.Moments{
			{Name: "louvor", Songs: []string{"Upbeat Song", "Moderate Song", "Reflective Song", "Worship Song"}},
			{Name: "poslúdio", Songs: []string{"Worship Song"}},
			{Name: "prelúdio", Songs: []string{"Upbeat Song"}},
			{Name: "saudação", Songs: []string{"Moderate Song"}},
			{Name: "ofertório", Songs: []string{"Reflective Song"}},
			{Name: "crianças", Songs: []string{"Upbeat Song"}},
		},
	}

	result, err := ReplaceSong(scrambled, "louvor", 0, "Extra Song", extendedSongs(), false, DefaultConfig())
	if err != nil {
		t.Fatalf("ReplaceSong failed: %v", err)
	}

	want := []string{"prelúdio", "ofertório", "saudação", "crianças", "louvor", "poslúdio"}
	if got := result.Moments.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Moments not normalized:\nGot:  %v\nWant: %v", got, want)
	}
}

func TestReplaceSongsBatch_AllOrNothing(t *testing.T) {
	target := sampleSetlist()
	snapshot := target.Clone()

	requests := []ReplaceRequest{
		{Moment: "louvor", Position: 0, Song: "Extra Song"},
		{Moment: "louvor", Position: 99},
	}

	_, err := ReplaceSongsBatch(target, requests, extendedSongs(), nil, DefaultConfig(), testRand())
	if err == nil {
		t.Fatal("Expected validation failure for the bad position")
	}
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
	if !target.Moments.Equal(snapshot.Moments) {
		t.Error("Failed batch must leave the input untouched")
	}
}

func TestReplaceSongsBatch_ManualPickStaysEligibleForAuto(t *testing.T) {
	// Manual picks are not added to the batch exclusion set, so an
	// auto slot in the same batch can choose the same song.
	target := sampleSetlist()
	requests := []ReplaceRequest{
		{Moment: "louvor", Position: 0, Song: "Extra Song"},
		{Moment: "louvor", Position: 1},
	}

	result, err := ReplaceSongsBatch(target, requests, extendedSongs(), nil, DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("ReplaceSongsBatch failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if louvor[0] != "Extra Song" || louvor[1] != "Extra Song" {
		t.Errorf("Expected Extra Song in both replaced slots, got %v", louvor)
	}
}

func TestReplaceSongsBatch_AutoPicksAreDistinct(t *testing.T) {
	songs := append(extendedSongs(), models.Song{
		Title: "Second Extra", Tags: map[string]int{"louvor": 3}, Energy: 2,
	})
	target := sampleSetlist()
	requests := []ReplaceRequest{
		{Moment: "louvor", Position: 0},
		{Moment: "louvor", Position: 1},
	}

	result, err := ReplaceSongsBatch(target, requests, songs, nil, DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("ReplaceSongsBatch failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if louvor[0] == louvor[1] {
		t.Errorf("Auto picks in one batch must differ, got %v", louvor)
	}
	for _, title := range louvor[:2] {
		if title != "Extra Song" && title != "Second Extra" {
			t.Errorf("Unexpected pick %q (occupied songs were excluded)", title)
		}
	}
}

func TestReplaceSongsBatch_ReordersAffectedMoments(t *testing.T) {
	songs := []models.Song{
		{Title: "Low", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "Mid", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "High", Tags: map[string]int{"louvor": 3}, Energy: 3},
		{Title: "Peak", Tags: map[string]int{"louvor": 3}, Energy: 4},
	}
	target := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"Low", "Mid", "High"}}},
	}

	result, err := ReplaceSongsBatch(target,
		[]ReplaceRequest{{Moment: "louvor", Position: 0, Song: "Peak"}},
		songs, nil, DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("ReplaceSongsBatch failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	want := []string{"Mid", "High", "Peak"}
	if !reflect.DeepEqual(louvor, want) {
		t.Errorf("Affected moment not reordered: got %v, want %v", louvor, want)
	}
}

func TestReplaceSongsBatch_EmptyRequests(t *testing.T) {
	target := sampleSetlist()

	result, err := ReplaceSongsBatch(target, nil, extendedSongs(), nil, DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("ReplaceSongsBatch failed: %v", err)
	}

	// Content unchanged, order normalized
	want := []string{"prelúdio", "ofertório", "saudação", "crianças", "louvor", "poslúdio"}
	if got := result.Moments.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
	louvor, _ := result.Moments.Get("louvor")
	if !reflect.DeepEqual(louvor, []string{"Upbeat Song", "Moderate Song", "Reflective Song", "Worship Song"}) {
		t.Errorf("Content changed: %v", louvor)
	}
}

func TestDeriveSetlist_ZeroReplacementsCopies(t *testing.T) {
	base := sampleSetlist()
	base.Label = "evening"
	base.EventType = "youth"
	zero := 0

	result, err := DeriveSetlist(base, extendedSongs(), nil, &zero, "", DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("DeriveSetlist failed: %v", err)
	}

	if !result.Moments.Equal(base.Moments) {
		t.Error("Zero replacements should copy verbatim")
	}
	if result.Label != "evening" || result.EventType != "youth" {
		t.Errorf("Copy dropped metadata: label=%q type=%q", result.Label, result.EventType)
	}

	// Deep copy: the base must not see mutations of the variant
	result.Moments.ReplaceAt("louvor", 0, "Changed")
	louvor, _ := base.Moments.Get("louvor")
	if louvor[0] != "Upbeat Song" {
		t.Error("Derived copy shares memory with the base")
	}
}

func TestDeriveSetlist_CountClampedToTotal(t *testing.T) {
	songs := []models.Song{
		{Title: "S1", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "S2", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "S3", Tags: map[string]int{"louvor": 3}, Energy: 3},
		{Title: "S4", Tags: map[string]int{"louvor": 3}, Energy: 4},
		{Title: "S5", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "S6", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "S7", Tags: map[string]int{"louvor": 3}, Energy: 3},
		{Title: "S8", Tags: map[string]int{"louvor": 3}, Energy: 4},
	}
	base := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"S1", "S2", "S3", "S4"}}},
	}
	cfg := DefaultConfig().WithMoments(models.MomentCounts{{Name: "louvor", Count: 4}})

	hundred := 100
	result, err := DeriveSetlist(base, songs, nil, &hundred, "", cfg, testRand())
	if err != nil {
		t.Fatalf("DeriveSetlist failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if len(louvor) != 4 {
		t.Fatalf("Slot count changed: %v", louvor)
	}
	seen := make(map[string]bool)
	for _, title := range louvor {
		if seen[title] {
			t.Errorf("Duplicate in derived setlist: %v", louvor)
		}
		seen[title] = true
	}
}

func TestDeriveSetlist_NilCountReplacesAtLeastOne(t *testing.T) {
	songs := []models.Song{
		{Title: "S1", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "S2", Tags: map[string]int{"louvor": 3}, Energy: 2},
		{Title: "S3", Tags: map[string]int{"louvor": 3}, Energy: 3},
		{Title: "S4", Tags: map[string]int{"louvor": 3}, Energy: 4},
		{Title: "S5", Tags: map[string]int{"louvor": 3}, Energy: 1},
		{Title: "S6", Tags: map[string]int{"louvor": 3}, Energy: 2},
	}
	base := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"S1", "S2", "S3", "S4"}}},
	}
	cfg := DefaultConfig().WithMoments(models.MomentCounts{{Name: "louvor", Count: 4}})

	result, err := DeriveSetlist(base, songs, nil, nil, "", cfg, testRand())
	if err != nil {
		t.Fatalf("DeriveSetlist failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if len(louvor) != 4 {
		t.Fatalf("Slot count changed: %v", louvor)
	}
	seen := make(map[string]bool)
	for _, title := range louvor {
		if seen[title] {
			t.Errorf("Duplicate in derived setlist: %v", louvor)
		}
		seen[title] = true
	}
}

func TestDeriveSetlist_EmptyBaseCopies(t *testing.T) {
	base := models.Setlist{Date: "2026-02-15", Label: "empty"}

	result, err := DeriveSetlist(base, extendedSongs(), nil, nil, "", DefaultConfig(), testRand())
	if err != nil {
		t.Fatalf("DeriveSetlist failed: %v", err)
	}
	if result.Date != "2026-02-15" || result.Label != "empty" || len(result.Moments) != 0 {
		t.Errorf("Empty base should copy through: %+v", result)
	}
}

func TestDeriveSetlist_EventTypeFiltersReplacementPool(t *testing.T) {
	songs := []models.Song{
		{Title: "Main Hymn", Tags: map[string]int{"louvor": 3}, Energy: 2, EventTypes: []string{"main"}},
		{Title: "For Everyone", Tags: map[string]int{"louvor": 3}, Energy: 2},
	}
	base := models.Setlist{
		Date:    "2026-02-15",
		Moments: models.Moments{{Name: "louvor", Songs: []string{"Main Hymn"}}},
	}
	cfg := DefaultConfig().WithMoments(models.MomentCounts{{Name: "louvor", Count: 1}})

	one := 1
	result, err := DeriveSetlist(base, songs, nil, &one, "youth", cfg, testRand())
	if err != nil {
		t.Fatalf("DeriveSetlist failed: %v", err)
	}

	louvor, _ := result.Moments.Get("louvor")
	if louvor[0] != "For Everyone" {
		t.Errorf("Replacement pool should exclude main-only songs, got %v", louvor)
	}
}
