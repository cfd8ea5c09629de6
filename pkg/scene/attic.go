package scene

import (
	"time"

	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
)

// atticScene plays the opening dialogue one line at a time.
type atticScene struct {
	env      *Env
	dialogue *minigame.Dialogue[story.Line]
	menu     menu
}

func newAtticScene(env *Env) *atticScene {
	s := &atticScene{
		env:      env,
		dialogue: minigame.NewDialogue(env.Pack.Chapter(state.ChapterAttic).Intro),
	}
	s.rebuild()
	return s
}

func (s *atticScene) rebuild() {
	if !s.dialogue.IsLast() {
		s.menu.set(option{s.env.Pack.T("Next"), func() {
			s.dialogue.Next()
			s.rebuild()
		}})
		return
	}
	label := s.env.Pack.Chapter(state.ChapterAttic).Continue
	if label == "" {
		label = s.env.Pack.T("Continue")
	}
	s.menu.set(option{label, func() {
		s.env.Variant.Advance(s.env.Store, state.ChapterAttic)
	}})
}

func (s *atticScene) Handle(in Input) { s.menu.handle(in) }

func (s *atticScene) Update(time.Duration) {}

func (s *atticScene) Frame() Frame {
	f := s.env.baseFrame(state.ChapterAttic, true)
	line := s.dialogue.Current()
	f.Lines = []Line{{Speaker: line.Speaker, Text: line.Text}}
	f.Status = s.env.Pack.T("%d / %d", s.dialogue.Index()+1, s.dialogue.Len())
	s.menu.fill(&f)
	return f
}
