package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fabiofranco85/escala/internal/setlist"
)

// ConfigHandler exposes the generation settings currently in effect
type ConfigHandler struct {
	gen setlist.Config
}

// NewConfigHandler creates a new ConfigHandler instance
func NewConfigHandler(gen setlist.Config) *ConfigHandler {
	return &ConfigHandler{gen: gen}
}

// Get reports the effective generation tunables.
func (h *ConfigHandler) Get(c *gin.Context) {
	rules := make(map[string]string, len(h.gen.EnergyRules))
	for moment, rule := range h.gen.EnergyRules {
		rules[moment] = string(rule)
	}

	c.JSON(http.StatusOK, gin.H{
		"moments_config":          h.gen.Moments,
		"recency_decay_days":      h.gen.RecencyDecayDays,
		"default_weight":          h.gen.DefaultWeight,
		"default_energy":          h.gen.DefaultEnergy,
		"energy_ordering_enabled": h.gen.EnergyOrderingEnabled,
		"energy_ordering_rules":   rules,
	})
}
