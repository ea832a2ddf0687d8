package campus

import (
	"fmt"
	"math"

	"github.com/vovakirdan/campus-runner/internal/core"
	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
)

// Glyphs
const (
	GroundChar  = '═'
	SubsoilChar = '░'
	PlayerChar  = '█'
	LabChar     = '#'
	TestChar    = '='
	ProjectChar = '▓'
	ExamChar    = '█'
	FlyingChar  = '~'
	CoffeeChar  = 'C'
	CheatChar   = 'S'
	NotesChar   = 'N'
)

// hudTopOffset is the number of rows above the world; row 0 is the HUD.
const hudTopOffset = 1

// scene buffers what the simulation announced during the last step.
type scene struct {
	frame   sim.Frame
	sprites []sim.Sprite
}

func (sc *scene) BeginFrame(f sim.Frame) {
	sc.frame = f
	sc.sprites = sc.sprites[:0]
}

func (sc *scene) Draw(s sim.Sprite) {
	sc.sprites = append(sc.sprites, s)
}

func (sc *scene) reset(f sim.Frame) {
	sc.BeginFrame(f)
}

// backdrop is the scrolling decoration strip for a semester theme.
type backdrop struct {
	wall  []rune
	floor []rune
	color core.Color
}

var backdrops = map[sim.Theme]backdrop{
	sim.ThemeClassroom: {
		wall:  []rune("   ┌──────┐            ┌──────┐         "),
		floor: []rune("  ╥─╥    ╥─╥    ╥─╥        "),
		color: core.ColorBrown,
	},
	sim.ThemeLibrary: {
		wall:  []rune(" ║▌▐▌▐▌║   ║▐▌▐▌▐║      "),
		floor: []rune("    ┬──┬        ┬──┬      "),
		color: core.ColorGold,
	},
	sim.ThemeDormitory: {
		wall:  []rune("     ╔══╗          ╔══╗    "),
		floor: []rune("  ▄▄▄▄▄      ▄▄▄▄▄        "),
		color: core.ColorGray,
	},
	sim.ThemeMixed: {
		wall:  []rune("   ┌──────┐     ║▌▐▌▐║      ╔══╗     "),
		floor: []rune("  ╥─╥      ┬──┬      ▄▄▄▄▄     "),
		color: core.ColorMagenta,
	},
}

// viewport maps world units onto the screen below the HUD row.
type viewport struct {
	sx, sy float64
	top    int
}

func newViewport(dst *core.Screen, worldW, worldH float64) viewport {
	rows := dst.Height() - hudTopOffset
	if rows < 1 {
		rows = 1
	}
	return viewport{
		sx:  float64(dst.Width()) / worldW,
		sy:  float64(rows) / worldH,
		top: hudTopOffset,
	}
}

func (v viewport) row(y float64) int {
	return v.top + int(math.Floor(y*v.sy))
}

func (v viewport) cells(r core.Rect) core.CellRect {
	x0 := int(math.Floor(r.X * v.sx))
	x1 := int(math.Ceil(r.Right() * v.sx))
	y0 := v.row(r.Y)
	y1 := v.top + int(math.Ceil(r.Bottom()*v.sy))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewCellRect(x0, y0, x1-x0, y1-y0)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.sim == nil {
		return
	}

	cfg := g.opts.Config
	vp := newViewport(dst, cfg.World.Width, cfg.World.Height)
	groundRow := vp.row(cfg.World.GroundY())

	g.drawBackdrop(dst, vp, groundRow)

	dst.DrawHLine(0, groundRow, dst.Width(), GroundChar, core.ColorWhite)
	for y := groundRow + 1; y < dst.Height(); y++ {
		dst.DrawHLine(0, y, dst.Width(), SubsoilChar, core.ColorGray)
	}

	var player *sim.Sprite
	for i := range g.scene.sprites {
		sp := &g.scene.sprites[i]
		switch sp.Kind {
		case sim.SpritePlayer:
			player = sp
		case sim.SpriteObstacle:
			r, c := obstacleGlyph(sp.Obstacle)
			dst.DrawRect(vp.cells(sp.Bounds), r, c)
		case sim.SpriteBonus:
			r, c := bonusGlyph(sp.Bonus)
			dst.DrawRect(vp.cells(sp.Bounds), r, c)
		}
	}
	if player != nil {
		g.drawPlayer(dst, vp, *player)
	}

	g.drawHUD(dst)

	if g.scene.frame.ExamAlert {
		dst.DrawTextCentered(vp.top+1, " !! EXAM SESSION !! ", core.ColorRed)
	}

	sess := g.sim.Session()
	switch {
	case sess.GameOver:
		g.drawGameOver(dst, sess)
	case g.paused:
		drawCenteredMessage(dst, core.ColorWhite, "PAUSED", "Press P to resume")
	}
}

func (g *Game) drawBackdrop(dst *core.Screen, vp viewport, groundRow int) {
	bd, ok := backdrops[g.scene.frame.Theme]
	if !ok {
		return
	}
	offset := int(g.scene.frame.ScrollOffset * vp.sx)

	wallRow := vp.top + (groundRow-vp.top)/3
	drawStrip(dst, wallRow, bd.wall, offset, bd.color)
	if groundRow-1 > wallRow {
		drawStrip(dst, groundRow-1, bd.floor, offset, bd.color)
	}
}

func drawStrip(dst *core.Screen, y int, pattern []rune, offset int, c core.Color) {
	if len(pattern) == 0 {
		return
	}
	for x := 0; x < dst.Width(); x++ {
		r := pattern[(x+offset)%len(pattern)]
		if r != ' ' {
			dst.SetColored(x, y, r, c)
		}
	}
}

func (g *Game) drawPlayer(dst *core.Screen, vp viewport, sp sim.Sprite) {
	c := characterColor(sp.Character)
	// Blink while invulnerable
	if sp.Invulnerable && g.ticks%8 < 4 {
		c = core.ColorGold
	}
	dst.DrawRect(vp.cells(sp.Bounds), PlayerChar, c)
}

func (g *Game) drawHUD(dst *core.Screen) {
	st := g.sim.Stats()
	left := fmt.Sprintf(" Score %d  Knowledge %d  Semester %d  x%.2f ",
		int(st.Score), st.Knowledge, st.Semester, st.SpeedMultiplier)
	dst.DrawTextColored(0, 0, left, core.ColorWhite)

	x := len([]rune(left))
	if st.ExamActive {
		dst.DrawTextColored(x, 0, " EXAM ", core.ColorRed)
		x += 6
	}
	if st.Invulnerable {
		dst.DrawTextColored(x, 0, " CHEATSHEET ", core.ColorBrightYellow)
	}

	name := " " + g.sim.Character().Title() + " "
	dst.DrawTextColored(dst.Width()-len([]rune(name)), 0, name, characterColor(g.sim.Character()))
}

func (g *Game) drawGameOver(dst *core.Screen, sess sim.Session) {
	cost := g.opts.Config.Progress.ContinueCost
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d   Semester: %d", int(sess.Score), sess.Semester),
		fmt.Sprintf("Knowledge: %d", sess.Knowledge),
		fmt.Sprintf("R: new run   C: continue (%d knowledge)", cost),
	}
	if g.notice != "" {
		lines = append(lines, g.notice)
	}
	drawCenteredMessage(dst, core.ColorRed, lines...)
}

// drawCenteredMessage draws a framed block of lines in the middle of the screen.
func drawCenteredMessage(dst *core.Screen, c core.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l)))
	}
	boxW := width + 4
	boxH := len(lines) + 2
	box := core.NewCellRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	for i, l := range lines {
		x := box.X + (boxW-len([]rune(l)))/2
		color := core.ColorWhite
		if i == 0 {
			color = c
		}
		dst.DrawTextColored(x, box.Y+1+i, l, color)
	}
}

func obstacleGlyph(k sim.ObstacleKind) (rune, core.Color) {
	switch k {
	case sim.ObstacleLab:
		return LabChar, core.ColorCyan
	case sim.ObstacleTest:
		return TestChar, core.ColorYellow
	case sim.ObstacleProject:
		return ProjectChar, core.ColorBlue
	case sim.ObstacleExam:
		return ExamChar, core.ColorRed
	case sim.ObstacleFlying:
		return FlyingChar, core.ColorMagenta
	default:
		return '?', core.ColorDefault
	}
}

func bonusGlyph(k sim.BonusKind) (rune, core.Color) {
	switch k {
	case sim.BonusCoffee:
		return CoffeeChar, core.ColorOrange
	case sim.BonusCheatsheet:
		return CheatChar, core.ColorBrightYellow
	case sim.BonusNotes:
		return NotesChar, core.ColorGreen
	default:
		return '?', core.ColorDefault
	}
}

func characterColor(c sim.Character) core.Color {
	switch c {
	case sim.CharacterStem:
		return core.ColorBrightCyan
	case sim.CharacterHumanities:
		return core.ColorMagenta
	case sim.CharacterMedical:
		return core.ColorGreen
	default:
		return core.ColorWhite
	}
}
