package repository

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// FilesystemSongs reads the catalog from database.csv (semicolon
// separated: song;energy;tags;youtube) and chord sheets from
// chords/<title>.md. Rows are cached until something invalidates them.
type FilesystemSongs struct {
	basePath   string
	csvPath    string
	chordsPath string

	defaultWeight int
	defaultEnergy float64

	mu      sync.RWMutex
	cache   []models.Song
	byTitle map[string]int
	loaded  bool
	watcher *fsnotify.Watcher
}

func NewFilesystemSongs(basePath string, defaultWeight int, defaultEnergy float64) *FilesystemSongs {
	return &FilesystemSongs{
		basePath:      basePath,
		csvPath:       filepath.Join(basePath, "database.csv"),
		chordsPath:    filepath.Join(basePath, "chords"),
		defaultWeight: defaultWeight,
		defaultEnergy: defaultEnergy,
	}
}

var tagWeightPattern = regexp.MustCompile(`^(.+?)\((\d+)\)$`)

// parseTags turns "louvor(5),prelúdio" into {louvor: 5, prelúdio: defaultWeight}.
func parseTags(raw string, defaultWeight int) map[string]int {
	tags := map[string]int{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if m := tagWeightPattern.FindStringSubmatch(tag); m != nil {
			weight, _ := strconv.Atoi(m[2])
			tags[strings.TrimSpace(m[1])] = weight
			continue
		}
		tags[tag] = defaultWeight
	}
	return tags
}

func (r *FilesystemSongs) load() error {
	f, err := os.Open(r.csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("song database not found: %s (ensure database.csv exists in the library root)", r.csvPath)
		}
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", r.csvPath, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("parse %s: missing header row", r.csvPath)
	}

	// Columns are addressed by header name so their order is free.
	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"song", "tags"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("parse %s: missing %q column", r.csvPath, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	songs := make([]models.Song, 0, len(rows)-1)
	byTitle := make(map[string]int, len(rows)-1)
	for _, row := range rows[1:] {
		title := field(row, "song")
		if title == "" {
			continue
		}

		energy := r.defaultEnergy
		if raw := strings.TrimSpace(field(row, "energy")); raw != "" {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				energy = parsed
			}
		}

		content := ""
		if data, err := os.ReadFile(filepath.Join(r.chordsPath, title+".md")); err == nil {
			content = string(data)
		}

		song := models.Song{
			Title:      title,
			Tags:       parseTags(field(row, "tags"), r.defaultWeight),
			Energy:     energy,
			Content:    content,
			YouTubeURL: strings.TrimSpace(field(row, "youtube")),
		}
		// A repeated title keeps its row position, last row wins.
		if i, ok := byTitle[title]; ok {
			songs[i] = song
			continue
		}
		byTitle[title] = len(songs)
		songs = append(songs, song)
	}

	r.cache = songs
	r.byTitle = byTitle
	r.loaded = true
	return nil
}

func (r *FilesystemSongs) ensureLoaded() error {
	if r.loaded {
		return nil
	}
	return r.load()
}

func (r *FilesystemSongs) GetAll() ([]models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]models.Song, len(r.cache))
	copy(out, r.cache)
	return out, nil
}

func (r *FilesystemSongs) GetByTitle(title string) (models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return models.Song{}, err
	}
	i, ok := r.byTitle[title]
	if !ok {
		return models.Song{}, setlist.NotFoundf("song %q not found in database", title)
	}
	return r.cache[i], nil
}

func (r *FilesystemSongs) Search(query string) ([]models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var out []models.Song
	for _, s := range r.cache {
		if strings.Contains(strings.ToLower(s.Title), query) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *FilesystemSongs) Exists(title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return false, err
	}
	_, ok := r.byTitle[title]
	return ok, nil
}

func (r *FilesystemSongs) UpdateContent(title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoaded(); err != nil {
		return err
	}
	i, ok := r.byTitle[title]
	if !ok {
		return setlist.NotFoundf("song %q not found in database", title)
	}

	if err := os.MkdirAll(r.chordsPath, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.chordsPath, title+".md"), []byte(content), 0644); err != nil {
		return err
	}

	r.cache[i].Content = content
	return nil
}

// InvalidateCache forces a reload on the next access. Use it when the
// library files were edited outside this process.
func (r *FilesystemSongs) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = nil
	r.byTitle = nil
	r.loaded = false
}

// Watch invalidates the cache whenever database.csv or a chord file
// changes on disk, so long-running processes pick up external edits.
func (r *FilesystemSongs) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(r.basePath); err != nil {
		watcher.Close()
		return err
	}
	// The chords directory may not exist yet; creating it later still
	// raises an event on the base directory.
	if _, err := os.Stat(r.chordsPath); err == nil {
		if err := watcher.Add(r.chordsPath); err != nil {
			watcher.Close()
			return err
		}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					r.InvalidateCache()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ Library watcher: %v", err)
			}
		}
	}()

	r.mu.Lock()
	r.watcher = watcher
	r.mu.Unlock()
	log.Printf("Watcher started on '%s'.", r.basePath)
	return nil
}

// Close stops the library watcher if one is running.
func (r *FilesystemSongs) Close() error {
	r.mu.Lock()
	watcher := r.watcher
	r.watcher = nil
	r.mu.Unlock()
	if watcher == nil {
		return nil
	}
	return watcher.Close()
}
