package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultEventTypeSlug names the event type used when none is given.
	DefaultEventTypeSlug = "main"
	DefaultEventTypeName = "Main Event"
)

// MomentCount pairs a moment name with how many songs it needs.
type MomentCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// MomentCounts is an ordered list of moment requirements. It marshals as
// a JSON object (moment → count) so stored configuration keeps the shape
// and ordering of the moments themselves.
type MomentCounts []MomentCount

// Get returns the count for a moment and whether it is configured.
func (mc MomentCounts) Get(name string) (int, bool) {
	for _, m := range mc {
		if m.Name == name {
			return m.Count, true
		}
	}
	return 0, false
}

// Names returns the configured moment names in order.
func (mc MomentCounts) Names() []string {
	names := make([]string, len(mc))
	for i, m := range mc {
		names[i] = m.Name
	}
	return names
}

// Clone copies the list.
func (mc MomentCounts) Clone() MomentCounts {
	if mc == nil {
		return nil
	}
	return append(MomentCounts(nil), mc...)
}

// MarshalJSON writes the list as a JSON object in configured order.
func (mc MomentCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range mc {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", m.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping its key order.
func (mc *MomentCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("moments config: expected JSON object, got %v", tok)
	}

	out := MomentCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("moments config: expected string key, got %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("moments config: invalid count for %q: %w", name, err)
		}
		out = append(out, MomentCount{Name: name, Count: count})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*mc = out
	return nil
}

// EventType is a service variant (main, youth, christmas) carrying its
// own moment configuration. Songs may be bound to specific event types;
// unbound songs serve every type.
type EventType struct {
	gorm.Model `json:"-"`

	Slug        string       `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Moments     MomentCounts `json:"moments,omitempty" gorm:"serializer:json"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateEventTypeSlug normalizes and validates an event type slug:
// lowercase alphanumerics plus hyphens, 1-30 chars, starting with a
// letter or digit.
func ValidateEventTypeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	if slug == "" {
		return "", fmt.Errorf("event type slug cannot be empty")
	}
	if len(slug) > 30 {
		return "", fmt.Errorf("event type slug must be at most 30 characters")
	}
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("invalid event type slug %q: use lowercase letters, digits and hyphens, starting with a letter or digit", slug)
	}
	return slug, nil
}

// IsDefaultEventType reports whether a slug names the default type. The
// empty slug means the default.
func IsDefaultEventType(slug string) bool {
	return slug == "" || slug == DefaultEventTypeSlug
}

// FilterSongsForEventType keeps the songs available for an event type.
// The empty slug applies no filter at all.
func FilterSongsForEventType(songs []Song, slug string) []Song {
	if slug == "" {
		return songs
	}
	out := make([]Song, 0, len(songs))
	for _, s := range songs {
		if s.AvailableFor(slug) {
			out = append(out, s)
		}
	}
	return out
}

// DefaultEventType builds the built-in default service type with the
// given moment configuration.
func DefaultEventType(moments MomentCounts) EventType {
	return EventType{
		Slug:        DefaultEventTypeSlug,
		Name:        DefaultEventTypeName,
		Description: "Default service configuration",
		Moments:     moments.Clone(),
	}
}
