package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// FilesystemEventTypes keeps service variants in event_types.json at
// the library root. A missing file is created on first access with the
// default event type so a fresh library works out of the box.
type FilesystemEventTypes struct {
	path           string
	defaultMoments models.MomentCounts

	mu     sync.Mutex
	cache  map[string]models.EventType
	loaded bool
}

func NewFilesystemEventTypes(path string, defaultMoments models.MomentCounts) *FilesystemEventTypes {
	return &FilesystemEventTypes{path: path, defaultMoments: defaultMoments}
}

// eventTypeRecord is the on-disk shape; the slug is the object key.
type eventTypeRecord struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Moments     models.MomentCounts `json:"moments"`
}

type eventTypesFile struct {
	EventTypes map[string]eventTypeRecord `json:"event_types"`
}

func (r *FilesystemEventTypes) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		def := models.DefaultEventType(r.defaultMoments)
		r.cache = map[string]models.EventType{def.Slug: def}
		r.loaded = true
		return r.save()
	}
	if err != nil {
		return err
	}

	var file eventTypesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.cache = make(map[string]models.EventType, len(file.EventTypes))
	for slug, rec := range file.EventTypes {
		r.cache[slug] = models.EventType{
			Slug:        slug,
			Name:        rec.Name,
			Description: rec.Description,
			Moments:     rec.Moments,
		}
	}
	r.loaded = true
	return nil
}

func (r *FilesystemEventTypes) ensureLoaded() error {
	if r.loaded {
		return nil
	}
	return r.load()
}

func (r *FilesystemEventTypes) save() error {
	file := eventTypesFile{EventTypes: make(map[string]eventTypeRecord, len(r.cache))}
	for slug, et := range r.cache {
		file.EventTypes[slug] = eventTypeRecord{
			Name:        et.Name,
			Description: et.Description,
			Moments:     et.Moments,
		}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

func (r *FilesystemEventTypes) GetAll() ([]models.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(r.cache))
	for slug := range r.cache {
		if slug == models.DefaultEventTypeSlug {
			continue
		}
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	out := make([]models.EventType, 0, len(r.cache))
	if def, ok := r.cache[models.DefaultEventTypeSlug]; ok {
		out = append(out, def)
	}
	for _, slug := range slugs {
		out = append(out, r.cache[slug])
	}
	return out, nil
}

func (r *FilesystemEventTypes) Get(slug string) (models.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return models.EventType{}, err
	}
	key := slug
	if models.IsDefaultEventType(slug) {
		key = models.DefaultEventTypeSlug
	}
	et, ok := r.cache[key]
	if !ok {
		return models.EventType{}, setlist.NotFoundf("event type %q not found", slug)
	}
	return et, nil
}

func (r *FilesystemEventTypes) Add(et models.EventType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return err
	}
	if _, ok := r.cache[et.Slug]; ok {
		return setlist.Validationf("event type %q already exists", et.Slug)
	}
	r.cache[et.Slug] = et
	return r.save()
}

func (r *FilesystemEventTypes) Update(et models.EventType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return err
	}
	if _, ok := r.cache[et.Slug]; !ok {
		return setlist.NotFoundf("event type %q not found", et.Slug)
	}
	r.cache[et.Slug] = et
	return r.save()
}

func (r *FilesystemEventTypes) Remove(slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if models.IsDefaultEventType(slug) {
		return setlist.Validationf("cannot remove the default event type")
	}
	if err := r.ensureLoaded(); err != nil {
		return err
	}
	if _, ok := r.cache[slug]; !ok {
		return setlist.NotFoundf("event type %q not found", slug)
	}
	delete(r.cache, slug)
	return r.save()
}
