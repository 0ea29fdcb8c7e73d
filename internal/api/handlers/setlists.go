package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fabiofranco85/escala/internal/format"
	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"
)

var setlistOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "escala_setlist_ops_total",
		Help: "Setlist operations by kind and outcome.",
	},
	[]string{"operation", "status"},
)

// RegisterMetrics registers the handler collectors with Prometheus.
// Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(setlistOps)
}

// SetlistHandler handles setlist requests independently of the main server
type SetlistHandler struct {
	repos *repository.Container
	gen   setlist.Config
}

// NewSetlistHandler creates a new SetlistHandler instance
func NewSetlistHandler(repos *repository.Container, gen setlist.Config) *SetlistHandler {
	return &SetlistHandler{repos: repos, gen: gen}
}

// GenerateRequest is the body of POST /setlists/generate. An empty date
// means today; overrides pin songs to moments before selection runs.
type GenerateRequest struct {
	Date      string              `json:"date"`
	Overrides map[string][]string `json:"overrides"`
	Label     string              `json:"label"`
	EventType string              `json:"event_type"`
}

// ReplaceSlotRequest names one slot to change. A nil Song means
// auto-select the replacement.
type ReplaceSlotRequest struct {
	Moment   string  `json:"moment" binding:"required"`
	Position *int    `json:"position" binding:"required"`
	Song     *string `json:"song"`
}

// ReplaceBatchRequest applies several replacements in one atomic pass.
type ReplaceBatchRequest struct {
	Requests []ReplaceSlotRequest `json:"requests" binding:"required"`
}

// DeriveRequest is the body of POST /setlists/:date/derive. A nil
// ReplaceCount lets the engine pick how many slots to swap.
type DeriveRequest struct {
	Label        string `json:"label" binding:"required"`
	ReplaceCount *int   `json:"replace_count"`
}

// Generate builds a setlist for a date, stores it and writes its
// markdown rendering.
func (h *SetlistHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	songs, history, err := h.loadCatalog()
	if err != nil {
		h.fail(c, "generate", err)
		return
	}

	// An event type may carry its own moment layout; unknown event
	// types fall back to the configured one.
	var momentsOverride models.MomentCounts
	if req.EventType != "" {
		if et, err := h.repos.EventTypes.Get(req.EventType); err == nil {
			momentsOverride = et.Moments
		}
	}

	result, err := setlist.NewGenerator(songs, history, h.gen).
		Generate(req.Date, req.Overrides, req.Label, req.EventType, momentsOverride)
	if err != nil {
		h.fail(c, "generate", err)
		return
	}

	if err := h.repos.History.Save(result); err != nil {
		h.fail(c, "generate", err)
		return
	}

	md := format.SetlistMarkdown(result, songs)
	if _, err := h.repos.Output.SaveMarkdown(result.ID(), md); err != nil {
		h.fail(c, "generate", err)
		return
	}

	setlistOps.WithLabelValues("generate", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// List returns stored setlists, most recent first. The label and
// event_type query parameters filter on exact values when present.
func (h *SetlistHandler) List(c *gin.Context) {
	all, err := h.repos.History.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	label, byLabel := c.GetQuery("label")
	eventType, byEventType := c.GetQuery("event_type")

	out := make([]models.Setlist, 0, len(all))
	for _, s := range all {
		if byLabel && s.Label != label {
			continue
		}
		if byEventType && s.EventType != eventType {
			continue
		}
		out = append(out, s)
	}

	c.JSON(http.StatusOK, out)
}

// Get returns one setlist by date plus optional label and event type.
func (h *SetlistHandler) Get(c *gin.Context) {
	s, err := h.repos.History.GetByDate(c.Param("date"), c.Query("label"), c.Query("event_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Markdown renders a stored setlist with its chord sheets.
func (h *SetlistHandler) Markdown(c *gin.Context) {
	s, err := h.repos.History.GetByDate(c.Param("date"), c.Query("label"), c.Query("event_type"))
	if err != nil {
		respondError(c, err)
		return
	}

	songs, err := h.repos.Songs.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(format.SetlistMarkdown(s, songs)))
}

// Replace swaps one slot of a stored setlist and persists the result.
func (h *SetlistHandler) Replace(c *gin.Context) {
	var req ReplaceSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	songs, history, err := h.loadCatalog()
	if err != nil {
		h.fail(c, "replace", err)
		return
	}

	target, err := setlist.FindTargetSetlist(history, c.Param("date"), c.Query("label"), c.Query("event_type"))
	if err != nil {
		h.fail(c, "replace", err)
		return
	}

	manual := ""
	if req.Song != nil {
		manual = *req.Song
	}

	title, err := setlist.SelectReplacementSong(target, req.Moment, *req.Position, manual, songs, history, h.gen, newRand())
	if err != nil {
		h.fail(c, "replace", err)
		return
	}

	updated, err := setlist.ReplaceSong(target, req.Moment, *req.Position, title, songs, true, h.gen)
	if err != nil {
		h.fail(c, "replace", err)
		return
	}

	if err := h.repos.History.Update(updated); err != nil {
		h.fail(c, "replace", err)
		return
	}

	setlistOps.WithLabelValues("replace", "success").Inc()
	c.JSON(http.StatusOK, updated)
}

// ReplaceBatch swaps several slots at once. Validation covers the whole
// batch before anything changes, so a bad request leaves the stored
// setlist untouched.
func (h *SetlistHandler) ReplaceBatch(c *gin.Context) {
	var req ReplaceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if len(req.Requests) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "requests cannot be empty"})
		return
	}

	requests := make([]setlist.ReplaceRequest, 0, len(req.Requests))
	for _, r := range req.Requests {
		if r.Position == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "position is required for every replacement"})
			return
		}
		song := ""
		if r.Song != nil {
			song = *r.Song
		}
		requests = append(requests, setlist.ReplaceRequest{Moment: r.Moment, Position: *r.Position, Song: song})
	}

	songs, history, err := h.loadCatalog()
	if err != nil {
		h.fail(c, "replace_batch", err)
		return
	}

	target, err := setlist.FindTargetSetlist(history, c.Param("date"), c.Query("label"), c.Query("event_type"))
	if err != nil {
		h.fail(c, "replace_batch", err)
		return
	}

	updated, err := setlist.ReplaceSongsBatch(target, requests, songs, history, h.gen, newRand())
	if err != nil {
		h.fail(c, "replace_batch", err)
		return
	}

	if err := h.repos.History.Update(updated); err != nil {
		h.fail(c, "replace_batch", err)
		return
	}

	setlistOps.WithLabelValues("replace_batch", "success").Inc()
	c.JSON(http.StatusOK, updated)
}

// Derive stores a labeled variant of an existing setlist with some of
// its slots re-picked.
func (h *SetlistHandler) Derive(c *gin.Context) {
	var req DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	songs, history, err := h.loadCatalog()
	if err != nil {
		h.fail(c, "derive", err)
		return
	}

	// The base is always the unlabeled setlist of the date.
	eventType := c.Query("event_type")
	base, err := setlist.FindTargetSetlist(history, c.Param("date"), "", eventType)
	if err != nil {
		h.fail(c, "derive", err)
		return
	}

	derived, err := setlist.DeriveSetlist(base, songs, history, req.ReplaceCount, eventType, h.gen, newRand())
	if err != nil {
		h.fail(c, "derive", err)
		return
	}

	derived.Label = req.Label
	if eventType != "" {
		derived.EventType = eventType
	}

	if err := h.repos.History.Save(derived); err != nil {
		h.fail(c, "derive", err)
		return
	}

	setlistOps.WithLabelValues("derive", "success").Inc()
	c.JSON(http.StatusOK, derived)
}

func (h *SetlistHandler) loadCatalog() ([]models.Song, []models.Setlist, error) {
	songs, err := h.repos.Songs.GetAll()
	if err != nil {
		return nil, nil, err
	}
	history, err := h.repos.History.GetAll()
	if err != nil {
		return nil, nil, err
	}
	return songs, history, nil
}

func (h *SetlistHandler) fail(c *gin.Context, operation string, err error) {
	setlistOps.WithLabelValues(operation, "error").Inc()
	respondError(c, err)
}
