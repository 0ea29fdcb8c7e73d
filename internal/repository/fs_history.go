package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// FilesystemHistory stores one JSON file per setlist under the history
// directory, named by the setlist identifier (date, or date_label). The
// event type lives inside the file, not in its name.
type FilesystemHistory struct {
	dir string

	mu     sync.Mutex
	cache  []models.Setlist
	loaded bool
}

func NewFilesystemHistory(dir string) *FilesystemHistory {
	return &FilesystemHistory{dir: dir}
}

func (r *FilesystemHistory) load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.cache = nil
			r.loaded = true
			return nil
		}
		return err
	}

	var history []models.Setlist
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read history file %s: %w", path, err)
		}
		var s models.Setlist
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parse history file %s: %w", path, err)
		}
		history = append(history, s)
	}

	// Most recent date first; the unlabeled entry leads within a date.
	sort.Slice(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].Label < history[j].Label
	})

	r.cache = history
	r.loaded = true
	return nil
}

func (r *FilesystemHistory) ensureLoaded() error {
	if r.loaded {
		return nil
	}
	return r.load()
}

func (r *FilesystemHistory) invalidate() {
	r.cache = nil
	r.loaded = false
}

func (r *FilesystemHistory) GetAll() ([]models.Setlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]models.Setlist, len(r.cache))
	copy(out, r.cache)
	return out, nil
}

func (r *FilesystemHistory) GetByDate(date, label, eventType string) (models.Setlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getByDate(date, label, eventType)
}

// getByDate is the lock-free lookup shared by the mutating methods.
func (r *FilesystemHistory) getByDate(date, label, eventType string) (models.Setlist, error) {
	if err := r.ensureLoaded(); err != nil {
		return models.Setlist{}, err
	}
	for _, s := range r.cache {
		if s.Date == date && s.Label == label && sameEventType(s.EventType, eventType) {
			return s, nil
		}
	}
	return models.Setlist{}, errSetlistMissing(date, label, eventType)
}

func (r *FilesystemHistory) GetAllByDate(date, eventType string) ([]models.Setlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	var out []models.Setlist
	for _, s := range r.cache {
		if s.Date == date && sameEventType(s.EventType, eventType) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *FilesystemHistory) GetLatest() (models.Setlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return models.Setlist{}, err
	}
	if len(r.cache) == 0 {
		return models.Setlist{}, setlist.NotFoundf("no setlists found in history")
	}
	return r.cache[0], nil
}

func (r *FilesystemHistory) Save(s models.Setlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(s)
}

func (r *FilesystemHistory) write(s models.Setlist) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.dir, s.ID()+".json"), data, 0644); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *FilesystemHistory) Update(s models.Setlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.getByDate(s.Date, s.Label, s.EventType); err != nil {
		return err
	}
	return r.write(s)
}

func (r *FilesystemHistory) Delete(date, label, eventType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.getByDate(date, label, eventType)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(r.dir, s.ID()+".json")); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *FilesystemHistory) Exists(date, label, eventType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.getByDate(date, label, eventType)
	if err == nil {
		return true, nil
	}
	if setlist.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
