package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/twozero/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
	footHeight = 2
)

func (g *Game) boardWidth() int  { return g.engine.Size()*cellWidth + 1 }
func (g *Game) boardHeight() int { return g.engine.Size()*cellHeight + 1 }

func (g *Game) minWidth() int {
	size := g.opts.Size
	if g.engine != nil {
		size = g.engine.Size()
	}
	if size <= 0 {
		size = DefaultSize
	}
	return max(size*cellWidth+1, 30)
}

func (g *Game) minHeight() int {
	size := g.opts.Size
	if g.engine != nil {
		size = g.engine.Size()
	}
	if size <= 0 {
		size = DefaultSize
	}
	return size*cellHeight + 1 + hudHeight + footHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := g.boardWidth()
	boardH := g.boardHeight()
	boardX := core.Clamp((g.screenW-boardW)/2, 0, g.screenW)
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderGrid(dst, boardX, boardY)
	g.renderTiles(dst, boardX, boardY)
	g.renderEndGame(dst, core.NewRect(boardX, boardY, boardW, boardH))
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", g.minWidth(), g.minHeight()))
}

// renderHUD draws the score, best score and current goal.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	e := g.engine

	title := "2048"
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", e.Score()))
	best := fmt.Sprintf("Best: %d", e.HighScore())
	dst.DrawText(max(boardX, boardX+boardW-len(best)), 1, best)

	var mode string
	if e.CanContinue() {
		mode = fmt.Sprintf("Goal: %d", e.WinValue())
	} else {
		mode = "Endless"
	}
	if e.CanUndo() {
		mode += "  (undo)"
	}
	dst.DrawTextColored(boardX+(boardW-len(mode))/2, 2, mode, core.ColorGray)
}

// renderGrid draws the cell borders for a size×size board.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY int) {
	n := g.engine.Size()
	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// renderTiles draws every tile, applying its running animations. A tile with
// a pending spawn stays hidden until the spawn starts. A moving tile is drawn
// between its previous and current cells; when the move feeds a merge the
// moving piece shows the pre-merge value.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	grid := g.engine.Grid()
	anims := g.engine.Animations()

	grid.Field().ForEach(func(p Position, tile *Tile) {
		if tile == nil {
			return
		}
		list := anims.Cells(p)
		animated := false

		for i := len(list) - 1; i >= 0; i-- {
			a := list[i]
			if a.Kind == AnimationSpawn {
				animated = true
			}
			if !a.Active() {
				continue
			}
			animated = true

			switch a.Kind {
			case AnimationSpawn:
				if a.Progress() < 0.5 {
					g.drawCellText(dst, boardX, boardY, p, "·", core.ColorGray)
				} else {
					g.drawCellText(dst, boardX, boardY, p, formatValue(tile.Value), core.TileColor(tile.Value))
				}
			case AnimationMerge:
				g.drawCellText(dst, boardX, boardY, p, formatValue(tile.Value), core.ColorBrightWhite)
			case AnimationMove:
				value := tile.Value
				if len(list) >= 2 {
					value /= 2
				}
				from := Position{X: a.Extras[0], Y: a.Extras[1]}
				sx, sy := cellOrigin(boardX, boardY, from)
				ex, ey := cellOrigin(boardX, boardY, p)
				t := a.Progress()
				g.drawTextAt(dst, core.Lerp(sx, ex, t), core.Lerp(sy, ey, t), formatValue(value), core.TileColor(value))
			}
		}

		if !animated {
			g.drawCellText(dst, boardX, boardY, p, formatValue(tile.Value), core.TileColor(tile.Value))
		}
	})
}

// renderEndGame overlays the win or loss notice, revealed by the global fade.
func (g *Game) renderEndGame(dst *core.Screen, board core.Rect) {
	e := g.engine
	var lines []string
	switch {
	case e.GameWon() && e.CanContinue():
		lines = []string{"YOU WIN!", "C: keep going", "N: new game"}
	case e.GameWon():
		lines = []string{"YOU WIN!", fmt.Sprintf("Reached %d", e.MaxTile()), "N: new game"}
	case e.GameLost():
		lines = []string{"GAME OVER", fmt.Sprintf("Max tile: %d", e.MaxTile()), "N: new  U: undo"}
	default:
		return
	}

	reveal := 1.0
	for _, a := range e.Animations().Global() {
		if a.Kind == AnimationFade {
			reveal = a.Progress()
		}
	}
	if reveal <= 0 {
		return
	}
	color := core.ColorBrightWhite
	if reveal < 1 {
		color = core.ColorGray
	}
	drawOverlay(dst, board, color, lines...)
}

func cellOrigin(boardX, boardY int, p Position) (int, int) {
	return boardX + p.X*cellWidth + 1, boardY + p.Y*cellHeight + 1
}

func (g *Game) drawCellText(dst *core.Screen, boardX, boardY int, p Position, text string, c core.Color) {
	x, y := cellOrigin(boardX, boardY, p)
	g.drawTextAt(dst, x, y, text, c)
}

// drawTextAt centers text inside the cell whose interior starts at (x, y).
func (g *Game) drawTextAt(dst *core.Screen, x, y int, text string, c core.Color) {
	pad := max(0, (cellWidth-1-len([]rune(text)))/2)
	dst.DrawTextColored(x+pad, y, text, c)
}

// formatValue shortens large values so they fit in a cell.
func formatValue(v int) string {
	s := strconv.Itoa(v)
	if len(s) < cellWidth {
		return s
	}
	if k := strconv.Itoa(v>>10) + "k"; len(k) < cellWidth {
		return k
	}
	return strconv.Itoa(v>>20) + "M"
}

// drawOverlay draws a boxed message centered on area.
func drawOverlay(dst *core.Screen, area core.Rect, c core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := area.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	cx, _ := box.Center()
	for i, line := range lines {
		dst.DrawTextColored(cx-len(line)/2, box.Y+1+i, line, c)
	}
}
