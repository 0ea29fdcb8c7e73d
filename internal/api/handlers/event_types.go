package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/repository"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// EventTypeHandler handles event type requests independently of the main server
type EventTypeHandler struct {
	repos *repository.Container
}

// NewEventTypeHandler creates a new EventTypeHandler instance
func NewEventTypeHandler(repos *repository.Container) *EventTypeHandler {
	return &EventTypeHandler{repos: repos}
}

// EventTypeCreateRequest is the body of POST /event-types.
type EventTypeCreateRequest struct {
	Slug        string              `json:"slug" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Moments     models.MomentCounts `json:"moments"`
}

// EventTypeUpdateRequest is the body of PATCH /event-types/:slug. Nil
// fields keep their stored values.
type EventTypeUpdateRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Moments     *models.MomentCounts `json:"moments"`
}

// List returns every event type, the default one first.
func (h *EventTypeHandler) List(c *gin.Context) {
	types, err := h.repos.EventTypes.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// Get returns one event type by slug.
func (h *EventTypeHandler) Get(c *gin.Context) {
	et, err := h.repos.EventTypes.Get(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, et)
}

// Create registers a new event type.
func (h *EventTypeHandler) Create(c *gin.Context) {
	var req EventTypeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	slug, err := models.ValidateEventTypeSlug(req.Slug)
	if err != nil {
		respondError(c, setlist.Validationf("%v", err))
		return
	}
	if req.Moments == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "moments is required"})
		return
	}

	et := models.EventType{
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		Moments:     req.Moments,
	}
	if err := h.repos.EventTypes.Add(et); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, et)
}

// Update edits an event type's name, description or moment layout.
func (h *EventTypeHandler) Update(c *gin.Context) {
	var req EventTypeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	et, err := h.repos.EventTypes.Get(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		et.Name = *req.Name
	}
	if req.Description != nil {
		et.Description = *req.Description
	}
	if req.Moments != nil {
		et.Moments = *req.Moments
	}

	if err := h.repos.EventTypes.Update(et); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, et)
}

// Delete removes an event type. The default type is protected.
func (h *EventTypeHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.repos.EventTypes.Remove(slug); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("Event type %q removed", slug)})
}
