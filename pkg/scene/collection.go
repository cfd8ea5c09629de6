package scene

import (
	"time"

	"github.com/zurustar/star-glow/pkg/state"
)

// collectionScene lists the crystals and their stories.
type collectionScene struct {
	env  *Env
	menu menu
}

func newCollectionScene(env *Env) *collectionScene {
	s := &collectionScene{env: env}
	s.menu.set(option{env.Pack.T("Back"), s.back})
	return s
}

func (s *collectionScene) back() {
	if s.env.Store.Snapshot().GameCompleted {
		s.env.Store.GoToChapter(state.ChapterFinal)
		return
	}
	s.env.Store.GoToChapter(state.ChapterStart)
}

func (s *collectionScene) Handle(in Input) {
	if in.Kind == InputBack {
		s.back()
		return
	}
	s.menu.handle(in)
}

func (s *collectionScene) Update(time.Duration) {}

func (s *collectionScene) Frame() Frame {
	f := s.env.baseFrame(state.ChapterCollection, false)
	pack := s.env.Pack
	if pack.Collection.Heading != "" {
		f.Title = pack.Collection.Heading
	}

	snap := s.env.Store.Snapshot()
	for _, c := range state.AllCrystals() {
		text := pack.Crystal(c)
		body := pack.Collection.Undiscovered
		if snap.Crystals.Has(c) {
			body = text.Story
		}
		f.Lines = append(f.Lines, Line{Speaker: text.Name, Text: body})
	}
	if snap.Crystals.All() {
		f.Text = []string{pack.Collection.Complete, pack.Collection.Summary, pack.Collection.Thanks}
	}
	f.Status = pack.T("Crystals: %d of %d", snap.Crystals.Count(), len(state.AllCrystals()))
	s.menu.fill(&f)
	return f
}
