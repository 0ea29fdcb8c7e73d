package models

import "gorm.io/gorm"

// Song is one catalog entry: a unique title, the moments it can fill,
// and the chord sheet used when rendering a setlist.
type Song struct {
	gorm.Model `json:"-"`

	Title string `json:"title" gorm:"uniqueIndex;not null"`

	// Tags maps a moment name to this song's weight for that moment.
	// Weight biases selection; a moment absent from the map means the
	// song never plays there.
	Tags map[string]int `json:"tags" gorm:"serializer:json"`

	// Energy runs 1 (reflective) to 4 (intense) and drives per-moment
	// ordering.
	Energy float64 `json:"energy"`

	// Content is the chord sheet (markdown).
	Content string `json:"content,omitempty" gorm:"type:text"`

	YouTubeURL string `json:"youtube_url,omitempty"`

	// EventTypes restricts the song to the listed event type slugs.
	// Empty means the song is available for every event type.
	EventTypes []string `json:"event_types,omitempty" gorm:"serializer:json"`
}

// Weight returns the song's weight for a moment, 0 when untagged.
func (s Song) Weight(moment string) int {
	return s.Tags[moment]
}

// HasMoment reports whether the song is tagged for a moment.
func (s Song) HasMoment(moment string) bool {
	_, ok := s.Tags[moment]
	return ok
}

// AvailableFor reports whether the song may be used for an event type.
// Unbound songs are available everywhere; the empty slug sees every song.
func (s Song) AvailableFor(slug string) bool {
	if slug == "" || len(s.EventTypes) == 0 {
		return true
	}
	for _, et := range s.EventTypes {
		if et == slug {
			return true
		}
	}
	return false
}
