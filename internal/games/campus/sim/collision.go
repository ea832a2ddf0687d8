package sim

// HitsObstacle reports whether the obstacle ends the run.
// An invulnerable player never collides with obstacles.
func HitsObstacle(p *Player, o Obstacle) bool {
	if p.Invulnerable {
		return false
	}
	return p.Rect().Intersects(o.Rect())
}

// TouchesBonus reports whether the player collects the bonus.
// Invulnerability does not prevent pickups.
func TouchesBonus(p *Player, b Bonus) bool {
	return p.Rect().Intersects(b.Rect())
}
