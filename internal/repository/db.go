package repository

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// DatabaseSongs serves the catalog from the songs table.
type DatabaseSongs struct {
	db *gorm.DB
}

func NewDatabaseSongs(db *gorm.DB) *DatabaseSongs {
	return &DatabaseSongs{db: db}
}

func (r *DatabaseSongs) GetAll() ([]models.Song, error) {
	var songs []models.Song
	if err := r.db.Order("title asc").Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *DatabaseSongs) GetByTitle(title string) (models.Song, error) {
	var song models.Song
	err := r.db.Where("title = ?", title).First(&song).Error
	if err == gorm.ErrRecordNotFound {
		return models.Song{}, setlist.NotFoundf("song %q not found in database", title)
	}
	if err != nil {
		return models.Song{}, err
	}
	return song, nil
}

func (r *DatabaseSongs) Search(query string) ([]models.Song, error) {
	var songs []models.Song
	// LOWER+LIKE instead of ILIKE so sqlite and postgres behave alike.
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.Where("LOWER(title) LIKE ?", pattern).Order("title asc").Find(&songs).Error
	if err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *DatabaseSongs) Exists(title string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Song{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

func (r *DatabaseSongs) UpdateContent(title, content string) error {
	result := r.db.Model(&models.Song{}).Where("title = ?", title).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return setlist.NotFoundf("song %q not found in database", title)
	}
	return nil
}

// DatabaseHistory stores setlists in the setlists table. The storage
// identity stays date+label, matching the filesystem backend; the event
// type is a checked attribute.
type DatabaseHistory struct {
	db *gorm.DB
}

func NewDatabaseHistory(db *gorm.DB) *DatabaseHistory {
	return &DatabaseHistory{db: db}
}

func (r *DatabaseHistory) GetAll() ([]models.Setlist, error) {
	var history []models.Setlist
	if err := r.db.Order("date desc, label asc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// find resolves the row for a date+label identity without the event
// type check.
func (r *DatabaseHistory) find(date, label string) (models.Setlist, error) {
	var s models.Setlist
	err := r.db.Where("date = ? AND label = ?", date, label).First(&s).Error
	return s, err
}

func (r *DatabaseHistory) GetByDate(date, label, eventType string) (models.Setlist, error) {
	s, err := r.find(date, label)
	if err == gorm.ErrRecordNotFound {
		return models.Setlist{}, errSetlistMissing(date, label, eventType)
	}
	if err != nil {
		return models.Setlist{}, err
	}
	if !sameEventType(s.EventType, eventType) {
		return models.Setlist{}, errSetlistMissing(date, label, eventType)
	}
	return s, nil
}

func (r *DatabaseHistory) GetAllByDate(date, eventType string) ([]models.Setlist, error) {
	var rows []models.Setlist
	if err := r.db.Where("date = ?", date).Order("label asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	var out []models.Setlist
	for _, s := range rows {
		if sameEventType(s.EventType, eventType) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *DatabaseHistory) GetLatest() (models.Setlist, error) {
	var s models.Setlist
	err := r.db.Order("date desc, label asc").First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return models.Setlist{}, setlist.NotFoundf("no setlists found in history")
	}
	if err != nil {
		return models.Setlist{}, err
	}
	return s, nil
}

func (r *DatabaseHistory) Save(s models.Setlist) error {
	existing, err := r.find(s.Date, s.Label)
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(&s).Error
	}
	if err != nil {
		return err
	}
	existing.Moments = s.Moments
	existing.EventType = s.EventType
	return r.db.Save(&existing).Error
}

func (r *DatabaseHistory) Update(s models.Setlist) error {
	existing, err := r.find(s.Date, s.Label)
	if err == gorm.ErrRecordNotFound {
		return errSetlistMissing(s.Date, s.Label, s.EventType)
	}
	if err != nil {
		return err
	}
	if !sameEventType(existing.EventType, s.EventType) {
		return errSetlistMissing(s.Date, s.Label, s.EventType)
	}
	existing.Moments = s.Moments
	return r.db.Save(&existing).Error
}

func (r *DatabaseHistory) Delete(date, label, eventType string) error {
	s, err := r.GetByDate(date, label, eventType)
	if err != nil {
		return err
	}
	// Hard delete keeps the date+label identity free for a re-save.
	return r.db.Unscoped().Delete(&s).Error
}

func (r *DatabaseHistory) Exists(date, label, eventType string) (bool, error) {
	_, err := r.GetByDate(date, label, eventType)
	if err == nil {
		return true, nil
	}
	if setlist.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// DatabaseEventTypes stores service variants in the event_types table.
type DatabaseEventTypes struct {
	db *gorm.DB
}

func NewDatabaseEventTypes(db *gorm.DB) *DatabaseEventTypes {
	return &DatabaseEventTypes{db: db}
}

func (r *DatabaseEventTypes) GetAll() ([]models.EventType, error) {
	var types []models.EventType
	if err := r.db.Find(&types).Error; err != nil {
		return nil, err
	}
	sort.Slice(types, func(i, j int) bool {
		if (types[i].Slug == models.DefaultEventTypeSlug) != (types[j].Slug == models.DefaultEventTypeSlug) {
			return types[i].Slug == models.DefaultEventTypeSlug
		}
		return types[i].Slug < types[j].Slug
	})
	return types, nil
}

func (r *DatabaseEventTypes) Get(slug string) (models.EventType, error) {
	key := slug
	if models.IsDefaultEventType(slug) {
		key = models.DefaultEventTypeSlug
	}
	var et models.EventType
	err := r.db.Where("slug = ?", key).First(&et).Error
	if err == gorm.ErrRecordNotFound {
		return models.EventType{}, setlist.NotFoundf("event type %q not found", slug)
	}
	if err != nil {
		return models.EventType{}, err
	}
	return et, nil
}

func (r *DatabaseEventTypes) Add(et models.EventType) error {
	var count int64
	if err := r.db.Model(&models.EventType{}).Where("slug = ?", et.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return setlist.Validationf("event type %q already exists", et.Slug)
	}
	return r.db.Create(&et).Error
}

func (r *DatabaseEventTypes) Update(et models.EventType) error {
	var existing models.EventType
	err := r.db.Where("slug = ?", et.Slug).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return setlist.NotFoundf("event type %q not found", et.Slug)
	}
	if err != nil {
		return err
	}
	existing.Name = et.Name
	existing.Description = et.Description
	existing.Moments = et.Moments
	return r.db.Save(&existing).Error
}

func (r *DatabaseEventTypes) Remove(slug string) error {
	if models.IsDefaultEventType(slug) {
		return setlist.Validationf("cannot remove the default event type")
	}
	var et models.EventType
	err := r.db.Where("slug = ?", slug).First(&et).Error
	if err == gorm.ErrRecordNotFound {
		return setlist.NotFoundf("event type %q not found", slug)
	}
	if err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&et).Error
}
