// Package state owns the story's global game state: the chapter the player is on,
// the four crystals, completed chapters and the theme preference.
//
// The Store is the single source of truth. Scenes read snapshots of it and move the
// story forward only through its transition methods.
package state

import "slices"

// ChapterKey identifies one stage of the story.
type ChapterKey string

const (
	ChapterStart      ChapterKey = "start"
	ChapterAttic      ChapterKey = "attic"
	ChapterCozyStreet ChapterKey = "cozyStreet"
	ChapterMarket     ChapterKey = "market"
	ChapterForest     ChapterKey = "forest"
	ChapterSquare     ChapterKey = "square"
	ChapterFinal      ChapterKey = "final"
	ChapterCollection ChapterKey = "collection"
	ChapterGratitude  ChapterKey = "gratitude"
)

var allChapters = []ChapterKey{
	ChapterStart,
	ChapterAttic,
	ChapterCozyStreet,
	ChapterMarket,
	ChapterForest,
	ChapterSquare,
	ChapterFinal,
	ChapterCollection,
	ChapterGratitude,
}

// AllChapters returns every chapter key in story order.
func AllChapters() []ChapterKey {
	return slices.Clone(allChapters)
}

// Valid reports whether c is one of the fixed chapter keys.
func (c ChapterKey) Valid() bool {
	return slices.Contains(allChapters, c)
}

// CrystalType identifies one of the four collectible crystals.
type CrystalType string

const (
	CrystalKindness CrystalType = "kindness"
	CrystalMemories CrystalType = "memories"
	CrystalCourage  CrystalType = "courage"
	CrystalUnity    CrystalType = "unity"
)

var allCrystals = []CrystalType{CrystalKindness, CrystalMemories, CrystalCourage, CrystalUnity}

// AllCrystals returns the crystal types in collection order.
func AllCrystals() []CrystalType {
	return slices.Clone(allCrystals)
}

// Valid reports whether c is one of the four crystal types.
func (c CrystalType) Valid() bool {
	return slices.Contains(allCrystals, c)
}

// ThemeColor is the cosmetic accent palette chosen on the start screen.
type ThemeColor string

const (
	ThemeBlue   ThemeColor = "blue"
	ThemePink   ThemeColor = "pink"
	ThemePurple ThemeColor = "purple"
	ThemeMint   ThemeColor = "mint"
)

var allThemes = []ThemeColor{ThemeBlue, ThemePink, ThemePurple, ThemeMint}

// AllThemes returns the palette in selector order.
func AllThemes() []ThemeColor {
	return slices.Clone(allThemes)
}

// Valid reports whether t is one of the four palette values.
func (t ThemeColor) Valid() bool {
	return slices.Contains(allThemes, t)
}

// Crystals is the fixed four-key collected map. Being a struct, it can never be
// partial.
type Crystals struct {
	Kindness bool `json:"kindness"`
	Memories bool `json:"memories"`
	Courage  bool `json:"courage"`
	Unity    bool `json:"unity"`
}

// Has reports whether crystal c has been collected. Unknown types report false.
func (c Crystals) Has(t CrystalType) bool {
	switch t {
	case CrystalKindness:
		return c.Kindness
	case CrystalMemories:
		return c.Memories
	case CrystalCourage:
		return c.Courage
	case CrystalUnity:
		return c.Unity
	}
	return false
}

// With returns a copy with crystal t marked collected.
func (c Crystals) With(t CrystalType) Crystals {
	switch t {
	case CrystalKindness:
		c.Kindness = true
	case CrystalMemories:
		c.Memories = true
	case CrystalCourage:
		c.Courage = true
	case CrystalUnity:
		c.Unity = true
	}
	return c
}

// Count returns how many crystals are collected.
func (c Crystals) Count() int {
	n := 0
	for _, t := range allCrystals {
		if c.Has(t) {
			n++
		}
	}
	return n
}

// All reports whether every crystal is collected.
func (c Crystals) All() bool {
	return c.Count() == len(allCrystals)
}

// GameState is the persisted story state. The JSON shape is the save record format.
type GameState struct {
	CurrentChapter    ChapterKey   `json:"currentChapter"`
	Crystals          Crystals     `json:"crystals"`
	CompletedChapters []ChapterKey `json:"completedChapters"`
	ThemeColor        ThemeColor   `json:"themeColor"`
	GameCompleted     bool         `json:"gameCompleted"`
}

// DefaultGameState returns the state of a fresh install.
func DefaultGameState() GameState {
	return GameState{
		CurrentChapter:    ChapterStart,
		Crystals:          Crystals{},
		CompletedChapters: []ChapterKey{},
		ThemeColor:        ThemeBlue,
		GameCompleted:     false,
	}
}

// Clone returns a deep copy.
func (s GameState) Clone() GameState {
	out := s
	out.CompletedChapters = slices.Clone(s.CompletedChapters)
	if out.CompletedChapters == nil {
		out.CompletedChapters = []ChapterKey{}
	}
	return out
}

// HasCompleted reports whether ch is in the completed list.
func (s GameState) HasCompleted(ch ChapterKey) bool {
	return slices.Contains(s.CompletedChapters, ch)
}
