// Package handlers implements the HTTP endpoints, one handler struct
// per resource. Error bodies carry a single "detail" field: invalid
// input maps to 422, missing resources to 404, the rest to 500.
package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/setlist"
)

// respondError translates a domain error into an HTTP response.
func respondError(c *gin.Context, err error) {
	switch {
	case setlist.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case setlist.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

// newRand seeds a fresh source per request; handlers never share one,
// so concurrent requests cannot race on it.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
