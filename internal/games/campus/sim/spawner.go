package sim

import (
	"math/rand"

	"github.com/vovakirdan/campus-runner/internal/config"
)

// Spawner decides when and what to spawn. It owns the run's RNG so that a
// seed reproduces a run exactly.
type Spawner struct {
	rng *rand.Rand
	cfg *config.CampusConfig
}

// NewSpawner creates a spawner with the given RNG seed.
func NewSpawner(seed int64, cfg *config.CampusConfig) *Spawner {
	return &Spawner{
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

// Reset reseeds the RNG.
func (sp *Spawner) Reset(seed int64) {
	sp.rng = rand.New(rand.NewSource(seed))
}

// NextObstacleInterval draws the delay before the next obstacle, uniform in
// the configured window and shortened during exam sessions.
func (sp *Spawner) NextObstacleInterval(examActive bool) float64 {
	lo, hi := sp.cfg.Obstacles.IntervalMin, sp.cfg.Obstacles.IntervalMax
	interval := lo + sp.rng.Float64()*(hi-lo)
	if examActive {
		interval *= sp.cfg.Exam.SpawnFactor
	}
	return interval
}

// ChooseObstacleKind picks an obstacle kind. Exam and flying obstacles only
// appear during exam sessions.
func (sp *Spawner) ChooseObstacleKind(examActive bool) ObstacleKind {
	pool := regularObstacleKinds
	if examActive {
		pool = int(obstacleKindCount)
	}
	return ObstacleKind(sp.rng.Intn(pool))
}

// ChooseBonusKind picks a bonus kind uniformly.
func (sp *Spawner) ChooseBonusKind() BonusKind {
	return BonusKind(sp.rng.Intn(int(bonusKindCount)))
}

// ShouldSpawnBonus rolls the per-frame bonus chance.
func (sp *Spawner) ShouldSpawnBonus() bool {
	return sp.rng.Float64() < sp.cfg.Bonuses.SpawnChance
}

// BonusLift draws how far above the ground a new bonus floats.
func (sp *Spawner) BonusLift() float64 {
	return sp.rng.Float64() * sp.cfg.Bonuses.MaxLift
}
