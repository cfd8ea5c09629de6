package scene

import (
	"strconv"
	"time"

	"github.com/zurustar/star-glow/pkg/audio"
	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/story"
)

const matchingColumns = 4

// matchingGame is the Cozy Street memory game.
type matchingGame struct {
	pack   *story.Pack
	m      *minigame.Matching
	cursor int
}

func newMatchingGame(env *Env) *matchingGame {
	pairs := make([][2]string, len(env.Pack.Pairs))
	for i, p := range env.Pack.Pairs {
		pairs[i] = [2]string{p.Word, p.Match}
	}
	return &matchingGame{pack: env.Pack, m: minigame.NewMatching(pairs, env.Rand)}
}

func (g *matchingGame) begin() {}

func (g *matchingGame) handle(in Input) {
	cards := len(g.m.Cards())
	switch in.Kind {
	case InputUp, InputDown, InputLeft, InputRight:
		g.cursor = moveCursor(g.cursor, matchingColumns, cards, in)
	case InputConfirm:
		g.m.Flip(g.cursor)
	case InputCell:
		if in.Index >= 0 && in.Index < cards {
			g.cursor = in.Index
			g.m.Flip(in.Index)
		}
	}
}

func (g *matchingGame) update(dt time.Duration) { g.m.Update(dt) }
func (g *matchingGame) won() bool               { return g.m.Won() }
func (g *matchingGame) busy() bool              { return g.m.Checking() }
func (g *matchingGame) text() []string          { return nil }
func (g *matchingGame) notice() string          { return "" }

func (g *matchingGame) board() *Board {
	cards := g.m.Cards()
	b := &Board{Kind: BoardGrid, Columns: matchingColumns, Cursor: g.cursor}
	for _, c := range cards {
		b.Cells = append(b.Cells, CellView{Label: c.Value, Hidden: !c.Flipped, Done: c.Matched})
	}
	return b
}

func (g *matchingGame) status() string {
	return g.pack.T("Pairs matched: %d of %d", g.m.MatchedPairs(), g.m.Pairs())
}

// huntGame is the market hidden-object game.
type huntGame struct {
	pack   *story.Pack
	h      *minigame.Hunt
	cursor int
}

func newHuntGame(env *Env) *huntGame {
	items := make([]minigame.HuntItem, len(env.Pack.Market))
	for i, it := range env.Pack.Market {
		items[i] = minigame.HuntItem{ID: it.ID, Name: it.Name, Required: it.Required, X: it.X, Y: it.Y}
	}
	return &huntGame{pack: env.Pack, h: minigame.NewHunt(items)}
}

func (g *huntGame) begin() {}

func (g *huntGame) handle(in Input) {
	items := g.h.Items()
	if len(items) == 0 {
		return
	}
	switch in.Kind {
	case InputLeft, InputUp:
		g.cursor = (g.cursor + len(items) - 1) % len(items)
	case InputRight, InputDown:
		g.cursor = (g.cursor + 1) % len(items)
	case InputConfirm:
		g.h.Pick(items[g.cursor].ID)
	case InputCell:
		if in.Index >= 0 && in.Index < len(items) {
			g.cursor = in.Index
			g.h.Pick(items[in.Index].ID)
		}
	}
}

func (g *huntGame) update(dt time.Duration) { g.h.Update(dt) }
func (g *huntGame) won() bool               { return g.h.Won() }
func (g *huntGame) busy() bool              { return false }

func (g *huntGame) board() *Board {
	b := &Board{Kind: BoardScatter, Cursor: g.cursor}
	for _, it := range g.h.Items() {
		b.Cells = append(b.Cells, CellView{Label: it.Name, Done: g.h.Found(it.ID), X: it.X, Y: it.Y})
	}
	return b
}

// text is the shopping list.
func (g *huntGame) text() []string {
	out := []string{g.pack.T("Shopping list:")}
	for _, it := range g.h.Items() {
		if !it.Required {
			continue
		}
		mark := "[ ]"
		if g.h.Found(it.ID) {
			mark = "[x]"
		}
		out = append(out, mark+" "+it.Name)
	}
	return out
}

func (g *huntGame) status() string {
	return g.pack.T("Found %d of %d", g.h.FoundRequired(), g.h.Required())
}

func (g *huntGame) notice() string {
	if g.h.Wrong() {
		return g.pack.T("That's not on the shopping list!")
	}
	return ""
}

// puzzleGame is the forest sliding puzzle.
type puzzleGame struct {
	pack   *story.Pack
	p      *minigame.Puzzle
	cursor int
}

func newPuzzleGame(env *Env) *puzzleGame {
	return &puzzleGame{pack: env.Pack, p: minigame.NewPuzzle(env.Rand)}
}

func (g *puzzleGame) begin() {}

func (g *puzzleGame) handle(in Input) {
	cells := minigame.PuzzleSize * minigame.PuzzleSize
	switch in.Kind {
	case InputUp, InputDown, InputLeft, InputRight:
		g.cursor = moveCursor(g.cursor, minigame.PuzzleSize, cells, in)
	case InputConfirm:
		g.p.Move(g.cursor)
	case InputCell:
		if in.Index >= 0 && in.Index < cells {
			g.cursor = in.Index
			g.p.Move(in.Index)
		}
	}
}

func (g *puzzleGame) update(time.Duration) {}
func (g *puzzleGame) won() bool            { return g.p.Won() }
func (g *puzzleGame) busy() bool           { return false }
func (g *puzzleGame) text() []string       { return nil }
func (g *puzzleGame) notice() string       { return "" }

func (g *puzzleGame) board() *Board {
	b := &Board{Kind: BoardGrid, Columns: minigame.PuzzleSize, Cursor: g.cursor}
	for i, v := range g.p.Tiles() {
		c := CellView{Empty: v == 0, Done: v == i+1}
		if v != 0 {
			c.Label = strconv.Itoa(v)
		}
		b.Cells = append(b.Cells, c)
	}
	return b
}

func (g *puzzleGame) status() string {
	return g.pack.T("Moves: %d", g.p.Moves())
}

// rhythmGame is the square light-sync game.
type rhythmGame struct {
	pack    *story.Pack
	effects audio.Effects
	r       *minigame.Rhythm
	cursor  int
}

func newRhythmGame(env *Env) *rhythmGame {
	return &rhythmGame{pack: env.Pack, effects: env.Effects, r: minigame.NewRhythm(env.Rand)}
}

func (g *rhythmGame) begin() { g.r.Start() }

func (g *rhythmGame) handle(in Input) {
	switch in.Kind {
	case InputLeft:
		g.cursor = (g.cursor + minigame.Lanes - 1) % minigame.Lanes
	case InputRight:
		g.cursor = (g.cursor + 1) % minigame.Lanes
	case InputConfirm:
		g.tap(g.cursor)
	case InputTap, InputChoose, InputCell:
		if in.Index >= 0 && in.Index < minigame.Lanes {
			g.cursor = in.Index
			g.tap(in.Index)
		}
	}
}

func (g *rhythmGame) tap(lane int) {
	switch g.r.Tap(lane) {
	case minigame.TapHit:
		if g.effects != nil {
			g.effects.Note(lane)
		}
	case minigame.TapMiss:
		if g.effects != nil {
			g.effects.Miss()
		}
	}
}

func (g *rhythmGame) update(dt time.Duration) { g.r.Update(dt) }
func (g *rhythmGame) won() bool               { return g.r.Won() }
func (g *rhythmGame) busy() bool              { return false }
func (g *rhythmGame) text() []string          { return nil }
func (g *rhythmGame) notice() string          { return "" }

func (g *rhythmGame) board() *Board {
	b := &Board{Kind: BoardLanes, Columns: minigame.Lanes, Cursor: g.cursor}
	counts := make([]int, minigame.Lanes)
	for _, n := range g.r.Notes() {
		counts[n.Lane]++
	}
	for lane, n := range counts {
		b.Cells = append(b.Cells, CellView{Label: strconv.Itoa(lane + 1), Count: n})
	}
	return b
}

func (g *rhythmGame) status() string {
	return g.pack.T("Score: %d of %d · Misses: %d", g.r.Score(), minigame.TargetScore, g.r.Misses())
}
