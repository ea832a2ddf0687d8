package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/campus-runner/internal/config"
)

func TestHitsObstacle(t *testing.T) {
	cfg := config.DefaultCampusConfig()
	p := newPlayer(cfg, CharacterStem)
	ground := cfg.World.GroundY()

	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"overlapping", p.X + 10, true},
		{"touching right edge", p.X + p.Width, false},
		{"touching left edge", p.X - 30, false},
		{"far away", 500, false},
	}
	for _, tt := range tests {
		o := Obstacle{Kind: ObstacleLab, X: tt.x, Y: ground - 30, Width: 30, Height: 30}
		assert.Equal(t, tt.want, HitsObstacle(p, o), tt.name)
	}
}

func TestCrouchDodgesFlyingObstacle(t *testing.T) {
	cfg := config.DefaultCampusConfig()
	p := newPlayer(cfg, CharacterStem)
	o := newObstacle(cfg, ObstacleFlying)
	o.X = p.X

	// Flying obstacles hover between 40 and 60 units above the ground.
	assert.True(t, HitsObstacle(p, o))

	p.crouch()
	assert.False(t, HitsObstacle(p, o))
	assert.Equal(t, cfg.World.GroundY(), p.Y+p.Height, "crouching keeps the feet on the ground")

	p.standUp()
	assert.Equal(t, cfg.World.GroundY(), p.Y+p.Height)
	assert.True(t, HitsObstacle(p, o))
}

func TestInvulnerablePlayerIgnoresObstaclesButCollectsBonuses(t *testing.T) {
	cfg := config.DefaultCampusConfig()
	p := newPlayer(cfg, CharacterMedical)
	p.grantInvulnerability(1000)

	o := Obstacle{Kind: ObstacleExam, X: p.X, Y: p.Y, Width: 30, Height: 70}
	b := Bonus{Kind: BonusNotes, X: p.X, Y: p.Y, Width: 20, Height: 20}

	assert.False(t, HitsObstacle(p, o))
	assert.True(t, TouchesBonus(p, b))
}
