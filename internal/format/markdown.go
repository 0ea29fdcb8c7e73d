// Package format renders setlists into shareable documents.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fabiofranco85/escala/internal/models"
)

// SetlistMarkdown renders a setlist with chord sheets inlined: one
// section per moment in stored order, each song followed by a
// separator. Songs without chord content get a placeholder so the
// document stays complete.
func SetlistMarkdown(s models.Setlist, songs []models.Song) string {
	byTitle := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		byTitle[song.Title] = song
	}

	lines := []string{fmt.Sprintf("# Setlist - %s", s.Date), ""}

	for _, moment := range s.Moments {
		lines = append(lines, fmt.Sprintf("## %s", capitalize(moment.Name)), "")

		for _, title := range moment.Songs {
			song, ok := byTitle[title]
			if ok && song.Content != "" {
				lines = append(lines, song.Content)
			} else {
				lines = append(lines, fmt.Sprintf("### %s", title), "", "*(Content not found)*")
			}
			lines = append(lines, "", "---", "")
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// capitalize uppercases the first rune and lowercases the rest, so
// "prelúdio" renders as "Prelúdio".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
