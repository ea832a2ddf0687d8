package sim

// Theme is the backdrop for a semester.
type Theme uint8

const (
	ThemeClassroom Theme = iota
	ThemeLibrary
	ThemeDormitory
	ThemeMixed
)

// ThemeForSemester maps a semester number to its backdrop. Semesters past
// the last theme keep the mixed backdrop.
func ThemeForSemester(semester int) Theme {
	switch {
	case semester <= 1:
		return ThemeClassroom
	case semester == 2:
		return ThemeLibrary
	case semester == 3:
		return ThemeDormitory
	default:
		return ThemeMixed
	}
}

func (t Theme) String() string {
	switch t {
	case ThemeClassroom:
		return "classroom"
	case ThemeLibrary:
		return "library"
	case ThemeDormitory:
		return "dormitory"
	default:
		return "mixed"
	}
}

// ExamSession tracks the recurring high-difficulty window.
type ExamSession struct {
	Active       bool
	AlertVisible bool
	Count        int // Sessions started in this run
}

func (s *Simulation) scheduleExams() {
	s.timeline.Every(s.cfg.Exam.Interval, s.startExam)
}

// startExam fires on every exam interval. A new session may start while the
// previous one is still active; each one schedules its own end.
func (s *Simulation) startExam() {
	if !s.session.Running {
		return
	}
	s.exam.Active = true
	s.exam.AlertVisible = true
	s.exam.Count++
	s.cue(CueExam)
	s.log.Debug("exam session started", "count", s.exam.Count, "at", s.timeline.Now())

	s.timeline.After(s.cfg.Exam.Alert, func() {
		s.exam.AlertVisible = false
	})
	s.timeline.After(s.cfg.Exam.Duration, func() {
		s.exam.Active = false
		s.log.Debug("exam session ended", "at", s.timeline.Now())
	})
}

func (s *Simulation) applyBonus(b Bonus) {
	s.cue(CueBonus)
	s.log.Debug("bonus collected", "kind", b.Kind)

	switch b.Kind {
	case BonusCoffee:
		s.boostSpeed(s.cfg.Bonuses.CoffeeBoost, b.Duration)
	case BonusCheatsheet:
		s.player.grantInvulnerability(b.Duration)
	case BonusNotes:
		s.session.Score += b.Points
		s.session.Knowledge += b.Knowledge
	}
}

// boostSpeed multiplies the boost now and divides it back out after
// duration. Overlapping boosts stack multiplicatively.
func (s *Simulation) boostSpeed(factor, duration float64) {
	s.session.boost *= factor
	s.activeBoosts++
	s.timeline.After(duration, func() {
		s.session.boost /= factor
		s.activeBoosts--
		if s.activeBoosts == 0 {
			s.session.boost = 1
		}
	})
}

// dropEffects cancels every deferred effect and settles the state those
// effects would have restored.
func (s *Simulation) dropEffects() {
	s.timeline.Clear()
	s.session.boost = 1
	s.activeBoosts = 0
	s.exam.Active = false
	s.exam.AlertVisible = false
}
