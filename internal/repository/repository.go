// Package repository provides data access behind small per-concern
// interfaces with interchangeable backends: plain files (default) or a
// relational database, plus local or S3-compatible storage for rendered
// outputs.
package repository

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fabiofranco85/escala/internal/config"
	database "github.com/fabiofranco85/escala/internal/db"
	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
	"github.com/fabiofranco85/escala/internal/storage"
)

// SongRepository reads the song catalog and writes chord content.
type SongRepository interface {
	// GetAll returns every song in the catalog.
	GetAll() ([]models.Song, error)

	// GetByTitle returns a song by exact title. A missing title is a
	// *setlist.NotFoundError.
	GetByTitle(title string) (models.Song, error)

	// Search matches titles on a case-insensitive substring.
	Search(query string) ([]models.Song, error)

	// Exists reports whether a title is in the catalog.
	Exists(title string) (bool, error)

	// UpdateContent replaces a song's chord sheet.
	UpdateContent(title, content string) error
}

// HistoryRepository stores produced setlists. The storage identity of a
// setlist is date plus optional label; the event type is an attribute,
// matched where the caller supplies one (empty means the default type).
type HistoryRepository interface {
	// GetAll returns every setlist, most recent date first; entries
	// sharing a date order by label with the unlabeled entry first.
	GetAll() ([]models.Setlist, error)

	// GetByDate returns the setlist for a date and optional label,
	// checking it belongs to the given event type.
	GetByDate(date, label, eventType string) (models.Setlist, error)

	// GetAllByDate returns every setlist on one date within an event
	// type, unlabeled first then by label.
	GetAllByDate(date, eventType string) ([]models.Setlist, error)

	// GetLatest returns the most recent setlist.
	GetLatest() (models.Setlist, error)

	// Save writes a setlist, overwriting any entry sharing its
	// date+label identity.
	Save(s models.Setlist) error

	// Update rewrites an existing setlist; it fails when the identity
	// is not already stored.
	Update(s models.Setlist) error

	// Delete removes the setlist matching date, label and event type.
	Delete(date, label, eventType string) error

	// Exists reports whether a setlist matches date, label and event type.
	Exists(date, label, eventType string) (bool, error)
}

// EventTypeRepository manages service variants (main, youth, ...).
type EventTypeRepository interface {
	// GetAll returns every event type, the default first and the rest
	// alphabetical by slug.
	GetAll() ([]models.EventType, error)

	// Get returns one event type. The empty slug means the default.
	Get(slug string) (models.EventType, error)

	// Add stores a new event type; the slug must be free.
	Add(et models.EventType) error

	// Update replaces an existing event type.
	Update(et models.EventType) error

	// Remove deletes an event type. The default type cannot be removed.
	Remove(slug string) error
}

// OutputRepository stores rendered setlist files.
type OutputRepository interface {
	// SaveMarkdown writes rendered markdown for a setlist identifier
	// and returns the location written.
	SaveMarkdown(id, content string) (string, error)

	// MarkdownPath returns where markdown for an identifier lives.
	MarkdownPath(id string) string

	// DeleteOutputs removes rendered files for an identifier and
	// returns the locations actually removed.
	DeleteOutputs(id string) ([]string, error)
}

// Container bundles one repository per concern so entry points can hand
// a single value to handlers and commands.
type Container struct {
	Songs      SongRepository
	History    HistoryRepository
	EventTypes EventTypeRepository
	Output     OutputRepository

	closers []func() error
}

// New builds the repository set for the configured backend. The
// generation config supplies the default moment layout (seeding the
// built-in event type) and the catalog parsing defaults.
func New(cfg *config.Config, gen setlist.Config) *Container {
	out := NewMarkdownOutput(storage.New(cfg))

	if cfg.Repository.Backend == "database" {
		client := database.New(cfg)
		client.AutoMigrate()
		client.SeedDefaults(gen.Moments)
		log.Printf("✅ Repositories ready (database/%s)", cfg.Database.Driver)
		return &Container{
			Songs:      NewDatabaseSongs(client.DB),
			History:    NewDatabaseHistory(client.DB),
			EventTypes: NewDatabaseEventTypes(client.DB),
			Output:     out,
		}
	}

	base := cfg.Library.BaseDir
	songs := NewFilesystemSongs(base, gen.DefaultWeight, gen.DefaultEnergy)
	c := &Container{
		Songs:      songs,
		History:    NewFilesystemHistory(filepath.Join(base, "history")),
		EventTypes: NewFilesystemEventTypes(filepath.Join(base, "event_types.json"), gen.Moments),
		Output:     out,
	}

	if cfg.Library.Watch {
		if err := songs.Watch(); err != nil {
			log.Printf("⚠️ Library watcher unavailable: %v", err)
		} else {
			c.closers = append(c.closers, songs.Close)
		}
	}

	log.Printf("✅ Repositories ready (filesystem at %s)", base)
	return c
}

// Close releases backend resources such as file watchers.
func (c *Container) Close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// sameEventType reports whether two slugs name the same service
// variant. The empty slug and the default slug are interchangeable.
func sameEventType(a, b string) bool {
	if models.IsDefaultEventType(a) && models.IsDefaultEventType(b) {
		return true
	}
	return a == b
}

// setlistID mirrors models.Setlist.ID for loose date+label pairs.
func setlistID(date, label string) string {
	if label != "" {
		return date + "_" + label
	}
	return date
}

// errSetlistMissing is the shared not-found error for history lookups.
func errSetlistMissing(date, label, eventType string) error {
	var suffix strings.Builder
	if label != "" {
		fmt.Fprintf(&suffix, " (label: %s)", label)
	}
	if !models.IsDefaultEventType(eventType) {
		fmt.Fprintf(&suffix, " (event type: %s)", eventType)
	}
	return setlist.NotFoundf("no setlist found for: %s%s", setlistID(date, label), suffix.String())
}
