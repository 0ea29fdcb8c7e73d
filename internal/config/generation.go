package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fabiofranco85/escala/internal/models"
	"github.com/fabiofranco85/escala/internal/setlist"
)

// generationFile is the YAML shape of generation.yaml. Every field is
// optional; unset fields keep the built-in defaults, so a file can
// override just the moment layout or just the decay.
type generationFile struct {
	Moments        models.MomentCounts `yaml:"moments"`
	DecayDays      *float64            `yaml:"decay_days"`
	DefaultWeight  *int                `yaml:"default_weight"`
	DefaultEnergy  *float64            `yaml:"default_energy"`
	EnergyOrdering struct {
		Enabled *bool             `yaml:"enabled"`
		Rules   map[string]string `yaml:"rules"`
	} `yaml:"energy_ordering"`
}

// LoadGeneration reads the generation rules file and layers it over the
// engine defaults. A missing file is not an error: the defaults apply.
func LoadGeneration(path string) (setlist.Config, error) {
	cfg := setlist.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Info: %s not found, using built-in generation rules.", path)
			return cfg, nil
		}
		return setlist.Config{}, err
	}

	var file generationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return setlist.Config{}, err
	}

	if len(file.Moments) > 0 {
		cfg.Moments = file.Moments
	}
	if file.DecayDays != nil {
		cfg.RecencyDecayDays = *file.DecayDays
	}
	if file.DefaultWeight != nil {
		cfg.DefaultWeight = *file.DefaultWeight
	}
	if file.DefaultEnergy != nil {
		cfg.DefaultEnergy = *file.DefaultEnergy
	}
	if file.EnergyOrdering.Enabled != nil {
		cfg.EnergyOrderingEnabled = *file.EnergyOrdering.Enabled
	}
	if file.EnergyOrdering.Rules != nil {
		rules := make(map[string]setlist.OrderRule, len(file.EnergyOrdering.Rules))
		for moment, rule := range file.EnergyOrdering.Rules {
			rules[moment] = setlist.OrderRule(rule)
		}
		cfg.EnergyRules = rules
	}

	log.Printf("📋 Generation rules loaded: %d moments, %.0f-day decay", len(cfg.Moments), cfg.RecencyDecayDays)
	return cfg, nil
}
