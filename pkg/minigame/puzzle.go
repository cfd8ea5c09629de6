package minigame

import "math/rand/v2"

const (
	// PuzzleSize is the edge length of the sliding puzzle.
	PuzzleSize = 3
	// PuzzleShuffleMoves is how many random blank moves scramble a new board.
	PuzzleShuffleMoves = 100
)

// Puzzle is the 3×3 sliding tile puzzle. Tiles hold 1..8 and 0 marks the blank.
// The board is scrambled by legal moves from the solved layout, so it is always
// solvable.
type Puzzle struct {
	tiles [PuzzleSize * PuzzleSize]int
	moves int
}

func solvedTiles() [PuzzleSize * PuzzleSize]int {
	var t [PuzzleSize * PuzzleSize]int
	for i := range len(t) - 1 {
		t[i] = i + 1
	}
	return t
}

// NewPuzzle returns a scrambled board that is not already solved.
func NewPuzzle(rng *rand.Rand) *Puzzle {
	p := &Puzzle{}
	for {
		p.tiles = solvedTiles()
		for range PuzzleShuffleMoves {
			n := p.neighbours(p.Blank())
			p.swap(p.Blank(), n[rng.IntN(len(n))])
		}
		if !p.Solved() {
			return p
		}
	}
}

// NewPuzzleFrom builds a board from an explicit layout. It returns false when the
// layout is not a permutation of 0..8.
func NewPuzzleFrom(tiles [PuzzleSize * PuzzleSize]int) (*Puzzle, bool) {
	var seen [PuzzleSize * PuzzleSize]bool
	for _, v := range tiles {
		if v < 0 || v >= len(seen) || seen[v] {
			return nil, false
		}
		seen[v] = true
	}
	return &Puzzle{tiles: tiles}, true
}

// Tiles returns the board in row-major order.
func (p *Puzzle) Tiles() [PuzzleSize * PuzzleSize]int { return p.tiles }

// Blank returns the index of the empty cell.
func (p *Puzzle) Blank() int {
	for i, v := range p.tiles {
		if v == 0 {
			return i
		}
	}
	return -1
}

func (p *Puzzle) neighbours(i int) []int {
	row, col := i/PuzzleSize, i%PuzzleSize
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, i-PuzzleSize)
	}
	if row < PuzzleSize-1 {
		out = append(out, i+PuzzleSize)
	}
	if col > 0 {
		out = append(out, i-1)
	}
	if col < PuzzleSize-1 {
		out = append(out, i+1)
	}
	return out
}

func (p *Puzzle) swap(a, b int) {
	p.tiles[a], p.tiles[b] = p.tiles[b], p.tiles[a]
}

// CanMove reports whether the tile at index i is orthogonally next to the blank.
func (p *Puzzle) CanMove(i int) bool {
	if i < 0 || i >= len(p.tiles) || p.tiles[i] == 0 {
		return false
	}
	blank := p.Blank()
	dr := i/PuzzleSize - blank/PuzzleSize
	dc := i%PuzzleSize - blank%PuzzleSize
	return dr*dr+dc*dc == 1
}

// Move slides the tile at index i into the blank. Non-adjacent tiles and moves
// after the puzzle is solved are ignored.
func (p *Puzzle) Move(i int) bool {
	if p.Solved() || !p.CanMove(i) {
		return false
	}
	p.swap(i, p.Blank())
	p.moves++
	return true
}

// MoveBlank slides the neighbour of the blank in direction (dr, dc) into it.
// Arrow keys map onto this.
func (p *Puzzle) MoveBlank(dr, dc int) bool {
	blank := p.Blank()
	row, col := blank/PuzzleSize+dr, blank%PuzzleSize+dc
	if row < 0 || row >= PuzzleSize || col < 0 || col >= PuzzleSize {
		return false
	}
	return p.Move(row*PuzzleSize + col)
}

// Moves returns the number of successful moves.
func (p *Puzzle) Moves() int { return p.moves }

// Solved reports whether the tiles read 1..8 with the blank last.
func (p *Puzzle) Solved() bool { return p.tiles == solvedTiles() }

// Won is an alias of Solved so every game answers the same question.
func (p *Puzzle) Won() bool { return p.Solved() }
