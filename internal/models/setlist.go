package models

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Setlist is one service's plan: which songs play at which moment.
type Setlist struct {
	gorm.Model `json:"-"`

	Date    string  `json:"date" gorm:"index;not null"`
	Moments Moments `json:"moments" gorm:"serializer:json"`

	// Label distinguishes multiple setlists sharing a date ("evening").
	Label string `json:"label,omitempty"`

	// EventType is the slug of the service variant this setlist belongs
	// to. It is not part of the setlist identifier — routing by event
	// type is the storage layer's concern.
	EventType string `json:"event_type,omitempty"`
}

// ID returns the composite identifier used for storage keys: the date,
// plus "_label" when the setlist is labeled.
func (s Setlist) ID() string {
	if s.Label != "" {
		return s.Date + "_" + s.Label
	}
	return s.Date
}

// Clone deep-copies the setlist; mutating the copy never touches the
// original.
func (s Setlist) Clone() Setlist {
	out := s
	out.Moments = s.Moments.Clone()
	return out
}

var labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// NormalizeLabel lowercases and validates a setlist label. Labels become
// part of storage filenames, so they share the slug shape. An empty
// label is valid (the setlist is unlabeled).
func NormalizeLabel(label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", nil
	}
	if len(label) > 30 {
		return "", fmt.Errorf("label must be at most 30 characters")
	}
	if !labelPattern.MatchString(label) {
		return "", fmt.Errorf("invalid label %q: use lowercase letters, digits, hyphens and underscores, starting with a letter or digit", label)
	}
	return label, nil
}
