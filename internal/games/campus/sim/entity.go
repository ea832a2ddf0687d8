package sim

import (
	"github.com/vovakirdan/campus-runner/internal/config"
	"github.com/vovakirdan/campus-runner/internal/core"
)

// Player is the student controlled by the user.
type Player struct {
	X, Y           float64 // Top-left corner in world units
	VY             float64 // Vertical velocity (negative = up)
	Width, Height  float64 // Current hitbox; Height shrinks while crouching
	Jumping        bool
	Crouching      bool
	Invulnerable   bool
	InvulnerableMs float64 // Remaining invulnerability
	Character      Character
	Modifiers      Modifiers

	standHeight  float64
	crouchHeight float64
}

func newPlayer(cfg config.CampusConfig, c Character) *Player {
	return &Player{
		X:            cfg.Player.X,
		Y:            cfg.World.GroundY() - cfg.Player.Height,
		Width:        cfg.Player.Width,
		Height:       cfg.Player.Height,
		Character:    c,
		Modifiers:    c.Modifiers(),
		standHeight:  cfg.Player.Height,
		crouchHeight: cfg.Player.CrouchHeight,
	}
}

// Rect returns the current hitbox.
func (p *Player) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.Width, p.Height)
}

// jump starts a jump with the given base force. Returns false while airborne.
func (p *Player) jump(force float64) bool {
	if p.Jumping {
		return false
	}
	p.standUp()
	p.VY = force * p.Modifiers.JumpForce
	p.Jumping = true
	return true
}

// crouch shrinks the hitbox from the top so the feet stay on the ground.
func (p *Player) crouch() {
	if p.Jumping || p.Crouching {
		return
	}
	p.Crouching = true
	p.Y += p.standHeight - p.crouchHeight
	p.Height = p.crouchHeight
}

func (p *Player) standUp() {
	if !p.Crouching {
		return
	}
	p.Crouching = false
	p.Y -= p.standHeight - p.crouchHeight
	p.Height = p.standHeight
}

// update applies gravity, lands on the ground and decays invulnerability.
func (p *Player) update(deltaMs, gravity, groundY float64) {
	p.VY += gravity
	p.Y += p.VY

	if floor := groundY - p.Height; p.Y > floor {
		p.Y = floor
		p.VY = 0
		p.Jumping = false
	}

	if p.Invulnerable {
		p.InvulnerableMs -= deltaMs
		if p.InvulnerableMs <= 0 {
			p.InvulnerableMs = 0
			p.Invulnerable = false
		}
	}
}

// grantInvulnerability sets the remaining time to ms; it never adds up.
func (p *Player) grantInvulnerability(ms float64) {
	p.Invulnerable = true
	p.InvulnerableMs = ms
}

func (p *Player) sprite() Sprite {
	return Sprite{
		Kind:         SpritePlayer,
		Bounds:       p.Rect(),
		Character:    p.Character,
		Jumping:      p.Jumping,
		Crouching:    p.Crouching,
		Invulnerable: p.Invulnerable,
	}
}

// Obstacle is a hazard scrolling towards the player.
type Obstacle struct {
	Kind          ObstacleKind
	X, Y          float64
	Width, Height float64
	Flying        bool
}

func newObstacle(cfg config.CampusConfig, kind ObstacleKind) Obstacle {
	w, h := kind.Size()
	y := cfg.World.GroundY() - h
	if kind.Flying() {
		y -= cfg.Obstacles.FlyingClearance
	}
	return Obstacle{
		Kind:   kind,
		X:      cfg.World.Width,
		Y:      y,
		Width:  w,
		Height: h,
		Flying: kind.Flying(),
	}
}

// Rect returns the obstacle's hitbox.
func (o Obstacle) Rect() core.Rect {
	return core.NewRect(o.X, o.Y, o.Width, o.Height)
}

func (o Obstacle) offscreen() bool {
	return o.X+o.Width < 0
}

func (o Obstacle) sprite() Sprite {
	return Sprite{
		Kind:     SpriteObstacle,
		Obstacle: o.Kind,
		Bounds:   o.Rect(),
		Flying:   o.Flying,
	}
}

// Bonus is a collectible scrolling towards the player.
type Bonus struct {
	Kind          BonusKind
	X, Y          float64
	Width, Height float64
	Duration      float64 // Effect length for timed kinds (ms)
	Points        float64 // Score for instant kinds
	Knowledge     int     // Knowledge for instant kinds
}

func newBonus(cfg config.CampusConfig, kind BonusKind, lift float64) Bonus {
	size := cfg.Bonuses.Size
	b := Bonus{
		Kind:   kind,
		X:      cfg.World.Width,
		Y:      cfg.World.GroundY() - size - lift,
		Width:  size,
		Height: size,
	}

	switch kind {
	case BonusCoffee:
		b.Duration = cfg.Bonuses.CoffeeDuration
	case BonusCheatsheet:
		b.Duration = cfg.Bonuses.CheatsheetDuration
	case BonusNotes:
		b.Points = cfg.Bonuses.NotesPoints
		b.Knowledge = cfg.Bonuses.NotesKnowledge
	}
	return b
}

// Rect returns the bonus hitbox.
func (b Bonus) Rect() core.Rect {
	return core.NewRect(b.X, b.Y, b.Width, b.Height)
}

func (b Bonus) offscreen() bool {
	return b.X+b.Width < 0
}

func (b Bonus) sprite() Sprite {
	return Sprite{
		Kind:   SpriteBonus,
		Bonus:  b.Kind,
		Bounds: b.Rect(),
	}
}
