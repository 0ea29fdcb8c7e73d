package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// SongHandler handles song catalog requests independently of the main server
type SongHandler struct {
	repos *repository.Container
}

// NewSongHandler creates a new SongHandler instance
func NewSongHandler(repos *repository.Container) *SongHandler {
	return &SongHandler{repos: repos}
}

// UpdateSongRequest is the body of PATCH /songs/:title. Only the chord
// sheet is writable; the rest of the catalog row comes from the library.
type UpdateSongRequest struct {
	Content *string `json:"content"`
}

// List returns the whole catalog.
func (h *SongHandler) List(c *gin.Context) {
	songs, err := h.repos.Songs.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

// Search returns songs whose titles contain the query, case-insensitively.
func (h *SongHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "query parameter q is required"})
		return
	}

	songs, err := h.repos.Songs.Search(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

// Get returns a single song by exact title.
func (h *SongHandler) Get(c *gin.Context) {
	song, err := h.repos.Songs.GetByTitle(c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// UpdateContent rewrites a song's chord sheet and returns the updated
// catalog row.
func (h *SongHandler) UpdateContent(c *gin.Context) {
	var req UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if req.Content == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "content is required"})
		return
	}

	title := c.Param("title")
	if err := h.repos.Songs.UpdateContent(title, *req.Content); err != nil {
		respondError(c, err)
		return
	}

	song, err := h.repos.Songs.GetByTitle(title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// Info reports a song's metadata together with its usage statistics:
// how often and how recently it has been played, and in which moments.
func (h *SongHandler) Info(c *gin.Context) {
	title := c.Param("title")

	song, err := h.repos.Songs.GetByTitle(title)
	if err != nil {
		respondError(c, err)
		return
	}

	history, err := h.repos.History.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	usage := setlist.UsageHistory(title, history)

	var daysSince *int
	if days, used, err := setlist.DaysSinceLastUse(title, history, ""); err == nil && used {
		daysSince = &days
	}

	c.JSON(http.StatusOK, gin.H{
		"title":               song.Title,
		"energy":              song.Energy,
		"tags":                song.Tags,
		"youtube_url":         song.YouTubeURL,
		"event_types":         song.EventTypes,
		"usage_count":         len(usage),
		"days_since_last_use": daysSince,
		"usage_history":       usage,
	})
}
