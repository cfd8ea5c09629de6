package scene

import (
	"time"

	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/state"
)

type finalPhase int

const (
	finalPlacing finalPhase = iota
	finalLighting
	finalCelebration
)

// finalScene places the crystals on the star and celebrates.
type finalScene struct {
	env      *Env
	phase    finalPhase
	lighting *minigame.Timeline
	menu     menu
}

func newFinalScene(env *Env) *finalScene {
	s := &finalScene{env: env}
	// 完了済みのゲームに戻ってきた場合はお祝いから始める
	if env.Store.Snapshot().GameCompleted {
		s.phase = finalCelebration
	}
	s.rebuild()
	return s
}

func (s *finalScene) rebuild() {
	env := s.env
	switch s.phase {
	case finalPlacing:
		label := env.Pack.Final.Place
		if label == "" {
			label = env.Pack.T("Place the Crystals")
		}
		s.menu.set(option{label, s.startLighting})
	case finalLighting:
		s.menu.set()
	case finalCelebration:
		items := []option{{env.Pack.T("View Collection"), func() {
			env.Store.GoToChapter(state.ChapterCollection)
		}}}
		if env.Variant.Gratitude {
			items = append(items, option{env.Pack.T("Open the Card"), func() {
				env.Store.GoToChapter(state.ChapterGratitude)
			}})
		}
		items = append(items, option{env.Pack.T("Play Again"), func() {
			env.Store.GoToChapter(state.ChapterStart)
		}})
		s.menu.set(items...)
	}
}

func (s *finalScene) startLighting() {
	s.phase = finalLighting
	s.rebuild()
	s.lighting = minigame.NewStarLighting(func() {
		s.phase = finalCelebration
		s.env.Store.CompleteChapter(state.ChapterFinal)
		s.env.Store.CompleteGame()
		s.rebuild()
	})
}

func (s *finalScene) Handle(in Input) { s.menu.handle(in) }

func (s *finalScene) Update(dt time.Duration) {
	if s.phase == finalLighting {
		s.lighting.Update(dt)
	}
}

func (s *finalScene) Busy() bool { return s.phase == finalLighting }

func (s *finalScene) Frame() Frame {
	f := s.env.baseFrame(state.ChapterFinal, true)
	text := s.env.Pack.Final
	switch s.phase {
	case finalPlacing:
		f.Lines = s.env.lines(text.Placing)
	case finalLighting:
		f.Overlay = text.Lighting
		if s.lighting.Phase() >= 1 {
			f.Overlay = text.Lit
		}
	case finalCelebration:
		f.Text = []string{text.Headline}
		f.Lines = s.env.lines(text.Celebration)
	}
	s.menu.fill(&f)
	return f
}
