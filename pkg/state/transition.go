package state

// The functions in this file are the pure halves of the transition API. Each takes
// the current state and returns the next one without touching its input; the Store
// applies the result as a single replacement.

func withChapter(s GameState, ch ChapterKey) GameState {
	next := s.Clone()
	if !ch.Valid() {
		ch = ChapterStart
	}
	next.CurrentChapter = ch
	return next
}

func withCrystal(s GameState, c CrystalType) GameState {
	next := s.Clone()
	next.Crystals = next.Crystals.With(c)
	return next
}

func withCompleted(s GameState, ch ChapterKey) GameState {
	if !ch.Valid() || s.HasCompleted(ch) {
		return s.Clone()
	}
	next := s.Clone()
	next.CompletedChapters = append(next.CompletedChapters, ch)
	return next
}

func withTheme(s GameState, t ThemeColor) GameState {
	next := s.Clone()
	if t.Valid() {
		next.ThemeColor = t
	}
	return next
}

func withGameCompleted(s GameState) GameState {
	next := s.Clone()
	next.GameCompleted = true
	return next
}

// sanitize repairs a decoded save so that every invariant holds again.
func sanitize(s GameState) GameState {
	out := DefaultGameState()
	if s.CurrentChapter.Valid() {
		out.CurrentChapter = s.CurrentChapter
	}
	out.Crystals = s.Crystals
	for _, ch := range s.CompletedChapters {
		out = withCompleted(out, ch)
	}
	if s.ThemeColor.Valid() {
		out.ThemeColor = s.ThemeColor
	}
	out.GameCompleted = s.GameCompleted
	return out
}
