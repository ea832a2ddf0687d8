package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsUnusableValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CampusConfig)
	}{
		{"zero base speed", func(c *CampusConfig) { c.Physics.BaseSpeed = 0 }},
		{"negative coffee duration", func(c *CampusConfig) { c.Bonuses.CoffeeDuration = -1 }},
		{"zero cheatsheet duration", func(c *CampusConfig) { c.Bonuses.CheatsheetDuration = 0 }},
		{"zero exam duration", func(c *CampusConfig) { c.Exam.Duration = 0 }},
		{"negative exam alert", func(c *CampusConfig) { c.Exam.Alert = -5 }},
		{"zero exam spawn factor", func(c *CampusConfig) { c.Exam.SpawnFactor = 0 }},
		{"zero exam interval", func(c *CampusConfig) { c.Exam.Interval = 0 }},
		{"empty config", func(c *CampusConfig) { *c = CampusConfig{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCampusConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateAcceptsDefaultsAndPresets(t *testing.T) {
	for _, d := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		cfg := DefaultCampusConfig()
		ApplyCampusPreset(&cfg, d)
		assert.NoError(t, cfg.Validate(), d)
	}
}
