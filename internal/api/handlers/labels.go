package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// LabelHandler handles label requests independently of the main server
type LabelHandler struct {
	repos *repository.Container
}

// NewLabelHandler creates a new LabelHandler instance
func NewLabelHandler(repos *repository.Container) *LabelHandler {
	return &LabelHandler{repos: repos}
}

// Add copies the unlabeled setlist of a date under a new label.
func (h *LabelHandler) Add(c *gin.Context) {
	date := c.Query("date")
	label := c.Query("label")
	eventType := c.Query("event_type")

	if date == "" || label == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "date and label are required"})
		return
	}

	source, err := h.repos.History.GetByDate(date, "", eventType)
	if err != nil {
		respondError(c, err)
		return
	}

	exists, err := h.repos.History.Exists(date, label, eventType)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		respondError(c, setlist.Validationf("label %q already exists for %s", label, date))
		return
	}

	labeled := setlist.Relabel(source, label)
	if err := h.repos.History.Save(labeled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, labeled)
}

// Rename moves a labeled setlist to a new label. The old entry is
// removed once the new one is stored.
func (h *LabelHandler) Rename(c *gin.Context) {
	date := c.Query("date")
	newLabel := c.Query("new_label")
	oldLabel := c.Param("label")
	eventType := c.Query("event_type")

	if date == "" || newLabel == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "date and new_label are required"})
		return
	}

	source, err := h.repos.History.GetByDate(date, oldLabel, eventType)
	if err != nil {
		respondError(c, err)
		return
	}

	exists, err := h.repos.History.Exists(date, newLabel, eventType)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		respondError(c, setlist.Validationf("label %q already exists for %s", newLabel, date))
		return
	}

	renamed := setlist.Relabel(source, newLabel)
	if err := h.repos.History.Save(renamed); err != nil {
		respondError(c, err)
		return
	}
	if err := h.repos.History.Delete(date, oldLabel, eventType); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, renamed)
}

// Remove deletes a labeled setlist along with its rendered outputs.
func (h *LabelHandler) Remove(c *gin.Context) {
	date := c.Query("date")
	label := c.Param("label")
	eventType := c.Query("event_type")

	if date == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "date is required"})
		return
	}

	s, err := h.repos.History.GetByDate(date, label, eventType)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repos.History.Delete(date, label, eventType); err != nil {
		respondError(c, err)
		return
	}

	// The setlist itself is gone; stale renders are only worth a warning.
	if _, err := h.repos.Output.DeleteOutputs(s.ID()); err != nil {
		log.Printf("⚠️ Could not delete outputs for %s: %v", s.ID(), err)
	}

	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("Label %q removed from %s", label, date)})
}
