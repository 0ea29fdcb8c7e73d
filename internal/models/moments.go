package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Moment is one named slot of a setlist and the songs placed in it.
type Moment struct {
	Name  string
	Songs []string
}

// Moments is a setlist's moment → songs mapping. The order is meaningful
// (it is the order moments appear in the service and in stored JSON), so
// the type is a slice of pairs rather than a Go map, with JSON
// marshalling that reads and writes a plain object without scrambling
// its keys.
type Moments []Moment

// Get returns the songs of a moment and whether the moment exists.
func (m Moments) Get(name string) ([]string, bool) {
	for _, moment := range m {
		if moment.Name == name {
			return moment.Songs, true
		}
	}
	return nil, false
}

// Set replaces a moment's songs, appending the moment if it is new.
func (m *Moments) Set(name string, songs []string) {
	for i, moment := range *m {
		if moment.Name == name {
			(*m)[i].Songs = songs
			return
		}
	}
	*m = append(*m, Moment{Name: name, Songs: songs})
}

// ReplaceAt swaps the song at one position within a moment. It reports
// whether the moment exists and the position is in range.
func (m Moments) ReplaceAt(name string, position int, title string) bool {
	for i, moment := range m {
		if moment.Name != name {
			continue
		}
		if position < 0 || position >= len(moment.Songs) {
			return false
		}
		m[i].Songs[position] = title
		return true
	}
	return false
}

// Names returns the moment names in stored order.
func (m Moments) Names() []string {
	names := make([]string, len(m))
	for i, moment := range m {
		names[i] = moment.Name
	}
	return names
}

// TotalSongs counts every song slot across all moments.
func (m Moments) TotalSongs() int {
	total := 0
	for _, moment := range m {
		total += len(moment.Songs)
	}
	return total
}

// Contains reports whether a title appears in any moment.
func (m Moments) Contains(title string) bool {
	for _, moment := range m {
		for _, song := range moment.Songs {
			if song == title {
				return true
			}
		}
	}
	return false
}

// Clone deep-copies the mapping; mutating the copy never touches the
// original.
func (m Moments) Clone() Moments {
	if m == nil {
		return nil
	}
	out := make(Moments, len(m))
	for i, moment := range m {
		out[i] = Moment{
			Name:  moment.Name,
			Songs: append([]string(nil), moment.Songs...),
		}
	}
	return out
}

// Equal compares two mappings including moment order and song order.
func (m Moments) Equal(other Moments) bool {
	if len(m) != len(other) {
		return false
	}
	for i, moment := range m {
		if moment.Name != other[i].Name || len(moment.Songs) != len(other[i].Songs) {
			return false
		}
		for j, song := range moment.Songs {
			if song != other[i].Songs[j] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes the mapping as a JSON object in stored order.
func (m Moments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, moment := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(moment.Name)
		if err != nil {
			return nil, err
		}
		songs := moment.Songs
		if songs == nil {
			songs = []string{}
		}
		list, err := json.Marshal(songs)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping its key order.
func (m *Moments) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("moments: expected JSON object, got %v", tok)
	}

	out := Moments{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("moments: expected string key, got %v", keyTok)
		}

		var songs []string
		if err := dec.Decode(&songs); err != nil {
			return fmt.Errorf("moments: invalid song list for %q: %w", name, err)
		}
		out = append(out, Moment{Name: name, Songs: songs})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}
