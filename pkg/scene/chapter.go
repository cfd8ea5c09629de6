package scene

import (
	"time"

	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
)

// game is the mini-game of a crystal chapter.
type game interface {
	begin()
	handle(in Input)
	update(dt time.Duration)
	won() bool
	busy() bool
	board() *Board
	status() string
	text() []string
	notice() string
}

type phase int

const (
	phaseIntro phase = iota
	phaseGame
	phaseReveal
	phaseSuccess
)

// chapterScene runs intro, mini-game, crystal reveal and outro of one chapter.
type chapterScene struct {
	env     *Env
	chapter state.ChapterKey
	crystal state.CrystalType
	game    game
	phase   phase
	reveal  *minigame.Timeline
	menu    menu
}

func newChapterScene(env *Env, ch state.ChapterKey, g game) *chapterScene {
	crystal, _ := story.CrystalFor(ch)
	s := &chapterScene{env: env, chapter: ch, crystal: crystal, game: g}
	s.rebuild()
	return s
}

func (s *chapterScene) text() story.ChapterText {
	return s.env.Pack.Chapter(s.chapter)
}

func (s *chapterScene) rebuild() {
	switch s.phase {
	case phaseIntro:
		label := s.text().Play
		if label == "" {
			label = s.env.Pack.T("Play")
		}
		s.menu.set(option{label, func() {
			s.phase = phaseGame
			s.game.begin()
			s.rebuild()
		}})
	case phaseSuccess:
		label := s.text().Continue
		if label == "" {
			label = s.env.Pack.T("Continue")
		}
		s.menu.set(option{label, func() {
			s.env.Variant.Advance(s.env.Store, s.chapter)
		}})
	default:
		s.menu.set()
	}
}

func (s *chapterScene) Handle(in Input) {
	switch s.phase {
	case phaseIntro, phaseSuccess:
		s.menu.handle(in)
	case phaseGame:
		s.game.handle(in)
		s.checkWin()
	}
}

func (s *chapterScene) Update(dt time.Duration) {
	switch s.phase {
	case phaseGame:
		s.game.update(dt)
		s.checkWin()
	case phaseReveal:
		s.reveal.Update(dt)
	}
}

// checkWin starts the crystal reveal once the mini-game is won. The crystal is
// collected exactly once, when the reveal ends.
func (s *chapterScene) checkWin() {
	if s.phase != phaseGame || !s.game.won() {
		return
	}
	s.phase = phaseReveal
	s.rebuild()
	s.reveal = minigame.NewCrystalReveal(func() {
		if s.crystal != "" {
			s.env.Store.CollectCrystal(s.crystal)
		}
		s.phase = phaseSuccess
		s.rebuild()
	})
}

func (s *chapterScene) Busy() bool {
	return s.phase == phaseReveal || (s.phase == phaseGame && s.game.busy())
}

func (s *chapterScene) Frame() Frame {
	f := s.env.baseFrame(s.chapter, true)
	text := s.text()
	switch s.phase {
	case phaseIntro:
		f.Lines = s.env.lines(text.Intro)
	case phaseGame:
		f.Board = s.game.board()
		f.Text = append([]string{text.Hint}, s.game.text()...)
		f.Status = s.game.status()
		f.Overlay = s.game.notice()
	case phaseReveal:
		f.Board = s.game.board()
		f.Status = s.game.status()
		if s.reveal.Phase() >= 1 {
			f.Overlay = text.Found
		}
	case phaseSuccess:
		f.Text = []string{text.Found}
		f.Lines = s.env.lines(text.Outro)
	}
	s.menu.fill(&f)
	return f
}
