package minigame

import (
	"math/rand/v2"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// MatchCheckDelay is how long two face-up cards stay visible before they are
// compared.
const MatchCheckDelay = 1 * time.Second

// Card is one face of the matching board.
type Card struct {
	ID      int
	Value   string
	Pair    string
	Flipped bool
	Matched bool
}

// Matching is the memory game: every word has one partner, and two face-up cards
// that are partners stay matched.
type Matching struct {
	cards    []Card // Flipped/Matched are derived, see Cards
	flipped  []int  // card ids face up and not yet matched, at most two
	matched  mapset.Set[int]
	checking time.Duration // remaining check delay; zero when idle
	pairs    int
	found    int
}

// NewMatching deals 2×len(pairs) cards in a random order.
func NewMatching(pairs [][2]string, rng *rand.Rand) *Matching {
	m := &Matching{
		matched: mapset.New[int](),
		pairs:   len(pairs),
	}
	id := 0
	for _, p := range pairs {
		m.cards = append(m.cards,
			Card{ID: id, Value: p[0], Pair: p[1]},
			Card{ID: id + 1, Value: p[1], Pair: p[0]},
		)
		id += 2
	}
	rng.Shuffle(len(m.cards), func(i, j int) {
		m.cards[i], m.cards[j] = m.cards[j], m.cards[i]
	})
	return m
}

// Cards returns the board in display order.
func (m *Matching) Cards() []Card {
	out := make([]Card, len(m.cards))
	for i, c := range m.cards {
		c.Matched = m.matched.Has(c.ID)
		c.Flipped = c.Matched || m.isFlipped(c.ID)
		out[i] = c
	}
	return out
}

func (m *Matching) isFlipped(id int) bool {
	for _, f := range m.flipped {
		if f == id {
			return true
		}
	}
	return false
}

func (m *Matching) card(id int) (Card, bool) {
	for _, c := range m.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Flip turns the card at board position pos face up. It is ignored while a pair is
// being checked, when two cards are already up, or when the card is already up or
// matched.
func (m *Matching) Flip(pos int) bool {
	if m.checking > 0 || len(m.flipped) >= 2 || m.Won() {
		return false
	}
	if pos < 0 || pos >= len(m.cards) {
		return false
	}
	id := m.cards[pos].ID
	if m.matched.Has(id) || m.isFlipped(id) {
		return false
	}
	m.flipped = append(m.flipped, id)
	if len(m.flipped) == 2 {
		m.checking = MatchCheckDelay
	}
	return true
}

// Update advances the check delay and resolves the face-up pair when it expires.
func (m *Matching) Update(dt time.Duration) {
	if m.checking <= 0 {
		return
	}
	m.checking -= dt
	if m.checking > 0 {
		return
	}
	m.checking = 0

	first, _ := m.card(m.flipped[0])
	second, _ := m.card(m.flipped[1])
	if first.Value == second.Pair || first.Pair == second.Value {
		m.matched.Put(first.ID)
		m.matched.Put(second.ID)
		m.found++
	}
	m.flipped = m.flipped[:0]
}

// Checking reports whether a face-up pair is waiting to be compared.
func (m *Matching) Checking() bool { return m.checking > 0 }

// MatchedPairs returns how many pairs have been matched.
func (m *Matching) MatchedPairs() int { return m.found }

// Pairs returns how many pairs the board holds.
func (m *Matching) Pairs() int { return m.pairs }

// Won reports whether every pair is matched.
func (m *Matching) Won() bool { return m.found == m.pairs }
