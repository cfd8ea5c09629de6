// Package story holds the fixed chapter progression and the swappable content packs
// (dialogue, mini-game data and interface strings) that scenes render.
package story

import (
	"slices"

	"github.com/zurustar/star-glow/pkg/state"
)

// Chapter is the static metadata of one stage.
type Chapter struct {
	Key     state.ChapterKey
	Order   int
	Crystal state.CrystalType // empty when the chapter grants no crystal
}

var chapters = []Chapter{
	{Key: state.ChapterStart, Order: 0},
	{Key: state.ChapterAttic, Order: 1},
	{Key: state.ChapterCozyStreet, Order: 2, Crystal: state.CrystalKindness},
	{Key: state.ChapterMarket, Order: 3, Crystal: state.CrystalMemories},
	{Key: state.ChapterForest, Order: 4, Crystal: state.CrystalCourage},
	{Key: state.ChapterSquare, Order: 5, Crystal: state.CrystalUnity},
	{Key: state.ChapterFinal, Order: 6},
	{Key: state.ChapterCollection, Order: 7},
	{Key: state.ChapterGratitude, Order: 8},
}

// Chapters returns the chapter table in story order.
func Chapters() []Chapter {
	return slices.Clone(chapters)
}

// Lookup returns the metadata of ch.
func Lookup(ch state.ChapterKey) (Chapter, bool) {
	i := slices.IndexFunc(chapters, func(c Chapter) bool { return c.Key == ch })
	if i < 0 {
		return Chapter{}, false
	}
	return chapters[i], true
}

// CrystalFor returns the crystal granted by ch.
func CrystalFor(ch state.ChapterKey) (state.CrystalType, bool) {
	c, ok := Lookup(ch)
	if !ok || c.Crystal == "" {
		return "", false
	}
	return c.Crystal, true
}

// ChapterFor returns the chapter that grants crystal c.
func ChapterFor(c state.CrystalType) (state.ChapterKey, bool) {
	for _, ch := range chapters {
		if ch.Crystal != "" && ch.Crystal == c {
			return ch.Key, true
		}
	}
	return "", false
}

// ProgressChapters returns the chapters shown by the progress indicator.
func ProgressChapters() []state.ChapterKey {
	return []state.ChapterKey{
		state.ChapterStart,
		state.ChapterAttic,
		state.ChapterCozyStreet,
		state.ChapterMarket,
		state.ChapterForest,
		state.ChapterSquare,
		state.ChapterFinal,
	}
}

// Variant selects which optional screens the story includes.
type Variant struct {
	// Gratitude shows the gratitude card after the final chapter instead of the
	// crystal collection.
	Gratitude bool
}

// Next returns the chapter that follows ch in the linear progression.
func (v Variant) Next(ch state.ChapterKey) (state.ChapterKey, bool) {
	switch ch {
	case state.ChapterStart:
		return state.ChapterAttic, true
	case state.ChapterAttic:
		return state.ChapterCozyStreet, true
	case state.ChapterCozyStreet:
		return state.ChapterMarket, true
	case state.ChapterMarket:
		return state.ChapterForest, true
	case state.ChapterForest:
		return state.ChapterSquare, true
	case state.ChapterSquare:
		return state.ChapterFinal, true
	case state.ChapterFinal:
		if v.Gratitude {
			return state.ChapterGratitude, true
		}
		return state.ChapterCollection, true
	case state.ChapterCollection, state.ChapterGratitude:
		return state.ChapterStart, true
	}
	return "", false
}

// Transitioner is the part of the Transition API a forward move needs.
// *state.Store satisfies it.
type Transitioner interface {
	CompleteChapter(ch state.ChapterKey)
	GoToChapter(ch state.ChapterKey)
}

// Advance completes from and moves to the chapter after it: exactly one
// CompleteChapter followed by one GoToChapter. It returns the destination.
func (v Variant) Advance(t Transitioner, from state.ChapterKey) (state.ChapterKey, bool) {
	next, ok := v.Next(from)
	if !ok {
		return "", false
	}
	t.CompleteChapter(from)
	t.GoToChapter(next)
	return next, true
}
