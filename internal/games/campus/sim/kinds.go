package sim

import "fmt"

// ObstacleKind is the closed set of obstacle variants.
type ObstacleKind uint8

const (
	ObstacleLab ObstacleKind = iota
	ObstacleTest
	ObstacleProject
	ObstacleExam
	ObstacleFlying

	obstacleKindCount // must stay last
)

// regularObstacleKinds is how many kinds (from the start of the list) can
// spawn outside an exam session.
const regularObstacleKinds = 3

// ObstacleKinds returns every obstacle kind in spawn-table order.
func ObstacleKinds() []ObstacleKind {
	kinds := make([]ObstacleKind, 0, obstacleKindCount)
	for k := ObstacleKind(0); k < obstacleKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the name of the obstacle kind.
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleLab:
		return "lab"
	case ObstacleTest:
		return "test"
	case ObstacleProject:
		return "project"
	case ObstacleExam:
		return "exam"
	case ObstacleFlying:
		return "flying"
	default:
		return fmt.Sprintf("ObstacleKind(%d)", uint8(k))
	}
}

// Size returns the fixed width and height of the kind.
func (k ObstacleKind) Size() (w, h float64) {
	switch k {
	case ObstacleLab:
		return 30, 30
	case ObstacleTest:
		return 25, 40
	case ObstacleProject:
		return 20, 60
	case ObstacleExam:
		return 30, 70
	case ObstacleFlying:
		return 40, 20
	default:
		panic(fmt.Sprintf("sim: unknown obstacle kind %d", uint8(k)))
	}
}

// Flying reports whether the kind hovers above the ground.
func (k ObstacleKind) Flying() bool {
	return k == ObstacleFlying
}

// BonusKind is the closed set of bonus variants.
type BonusKind uint8

const (
	BonusCoffee     BonusKind = iota // Timed speed boost
	BonusCheatsheet                  // Timed invulnerability
	BonusNotes                       // Instant points and knowledge

	bonusKindCount // must stay last
)

// BonusKinds returns every bonus kind.
func BonusKinds() []BonusKind {
	return []BonusKind{BonusCoffee, BonusCheatsheet, BonusNotes}
}

// String returns the name of the bonus kind.
func (k BonusKind) String() string {
	switch k {
	case BonusCoffee:
		return "coffee"
	case BonusCheatsheet:
		return "cheatsheet"
	case BonusNotes:
		return "notes"
	default:
		return fmt.Sprintf("BonusKind(%d)", uint8(k))
	}
}

// Character is a selectable student archetype.
type Character string

const (
	CharacterStem       Character = "stem"
	CharacterHumanities Character = "humanities"
	CharacterMedical    Character = "medical"
)

// Characters returns the selectable archetypes in menu order.
func Characters() []Character {
	return []Character{CharacterStem, CharacterHumanities, CharacterMedical}
}

// Modifiers are the per-character difficulty multipliers, fixed when the
// player is created.
type Modifiers struct {
	JumpForce     float64
	RecoverySpeed float64
	MaxStamina    float64
}

// DefaultModifiers is the neutral triple used for unknown characters.
var DefaultModifiers = Modifiers{JumpForce: 1, RecoverySpeed: 1, MaxStamina: 1}

// ParseCharacter maps a name to a known archetype.
func ParseCharacter(name string) (Character, bool) {
	switch c := Character(name); c {
	case CharacterStem, CharacterHumanities, CharacterMedical:
		return c, true
	default:
		return c, false
	}
}

// Modifiers returns the archetype's multipliers, or DefaultModifiers for
// anything that is not a known archetype.
func (c Character) Modifiers() Modifiers {
	switch c {
	case CharacterStem:
		return Modifiers{JumpForce: 1.2, RecoverySpeed: 1, MaxStamina: 1}
	case CharacterHumanities:
		return Modifiers{JumpForce: 1, RecoverySpeed: 1.5, MaxStamina: 1}
	case CharacterMedical:
		return Modifiers{JumpForce: 1, RecoverySpeed: 1, MaxStamina: 1.5}
	default:
		return DefaultModifiers
	}
}

// Title returns the display name of the archetype.
func (c Character) Title() string {
	switch c {
	case CharacterStem:
		return "STEM"
	case CharacterHumanities:
		return "Humanities"
	case CharacterMedical:
		return "Medical"
	default:
		return "Undeclared"
	}
}

// Blurb returns a one-line description for pickers.
func (c Character) Blurb() string {
	switch c {
	case CharacterStem:
		return "jumps 20% higher"
	case CharacterHumanities:
		return "recovers 50% faster"
	case CharacterMedical:
		return "50% more stamina"
	default:
		return "no modifiers"
	}
}
