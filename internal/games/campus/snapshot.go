package campus

import "math"

// Snapshot is a flattened copy of the run, used to compare runs tick by tick.
type Snapshot struct {
	Tick      int
	Score     float64
	Knowledge int
	Semester  int
	Speed     float64
	Exam      bool
	Alert     bool
	GameOver  bool

	PlayerY      float64
	PlayerVY     float64
	Crouching    bool
	Invulnerable bool

	// Each obstacle is 3 values: Kind, X, Y
	ObstacleData []float64
	// Each bonus is 3 values: Kind, X, Y
	BonusData []float64
}

// Snapshot returns the current run as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.sim == nil {
		return Snapshot{}
	}
	sess := g.sim.Session()
	p := g.sim.Player()
	exam := g.sim.Exam()

	obstacles := g.sim.Obstacles()
	od := make([]float64, 0, len(obstacles)*3)
	for _, o := range obstacles {
		od = append(od, float64(o.Kind), o.X, o.Y)
	}

	bonuses := g.sim.Bonuses()
	bd := make([]float64, 0, len(bonuses)*3)
	for _, b := range bonuses {
		bd = append(bd, float64(b.Kind), b.X, b.Y)
	}

	return Snapshot{
		Tick:         g.ticks,
		Score:        sess.Score,
		Knowledge:    sess.Knowledge,
		Semester:     sess.Semester,
		Speed:        sess.SpeedMultiplier(),
		Exam:         exam.Active,
		Alert:        exam.AlertVisible,
		GameOver:     sess.GameOver,
		PlayerY:      p.Y,
		PlayerVY:     p.VY,
		Crouching:    p.Crouching,
		Invulnerable: p.Invulnerable,
		ObstacleData: od,
		BonusData:    bd,
	}
}

// Hash folds the snapshot into a single value for determinism checks.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Tick) //#nosec G115 -- tick count is never negative
	mix := func(v uint64) { h = h*31 + v }

	mix(math.Float64bits(snap.Score))
	mix(uint64(snap.Knowledge)) //#nosec G115 -- hash computation
	mix(uint64(snap.Semester))  //#nosec G115 -- hash computation
	mix(math.Float64bits(snap.Speed))
	mix(math.Float64bits(snap.PlayerY))
	mix(math.Float64bits(snap.PlayerVY))
	for _, b := range []bool{snap.Exam, snap.Alert, snap.GameOver, snap.Crouching, snap.Invulnerable} {
		if b {
			mix(1)
		} else {
			mix(0)
		}
	}
	for _, v := range snap.ObstacleData {
		mix(math.Float64bits(v))
	}
	for _, v := range snap.BonusData {
		mix(math.Float64bits(v))
	}
	return h
}
