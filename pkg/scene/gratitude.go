package scene

import (
	"strings"
	"time"

	"github.com/zurustar/star-glow/pkg/state"
)

// gratitudeScene shows the thank-you card.
type gratitudeScene struct {
	env    *Env
	menu   menu
	status string
}

func newGratitudeScene(env *Env) *gratitudeScene {
	s := &gratitudeScene{env: env}
	s.menu.set(
		option{env.Pack.T("Copy Card Text"), s.copyCard},
		option{env.Pack.T("Play Again"), func() {
			env.Store.GoToChapter(state.ChapterStart)
		}},
	)
	return s
}

// cardText is the card as plain text.
func (s *gratitudeScene) cardText() string {
	card := s.env.Pack.Card
	var b strings.Builder
	b.WriteString(card.Greeting)
	b.WriteString("\n\n")
	for _, l := range card.Lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(card.Closing)
	b.WriteString("\n")
	b.WriteString(card.Signature)
	return b.String()
}

func (s *gratitudeScene) copyCard() {
	if s.env.Clipboard == nil {
		s.status = s.env.Pack.T("Clipboard unavailable")
		return
	}
	if err := s.env.Clipboard.WriteAll(s.cardText()); err != nil {
		s.status = s.env.Pack.T("Clipboard unavailable")
		return
	}
	s.status = s.env.Pack.T("Card text copied")
}

func (s *gratitudeScene) Handle(in Input) { s.menu.handle(in) }

func (s *gratitudeScene) Update(time.Duration) {}

func (s *gratitudeScene) Frame() Frame {
	f := s.env.baseFrame(state.ChapterGratitude, false)
	card := s.env.Pack.Card
	if card.Heading != "" {
		f.Title = card.Heading
	}
	f.Text = append(f.Text, card.Greeting)
	f.Text = append(f.Text, card.Lines...)
	f.Text = append(f.Text, card.Closing, card.Signature)
	f.Status = s.status
	s.menu.fill(&f)
	return f
}
