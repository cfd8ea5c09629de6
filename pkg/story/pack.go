package story

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/leonelquinteros/gotext"
	"github.com/zurustar/star-glow/pkg/state"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPack is returned when a content pack cannot be decoded or lacks the
	// data a chapter needs.
	ErrInvalidPack = errors.New("invalid story pack")
	// ErrPackNotFound is returned when no pack is available.
	ErrPackNotFound = errors.New("story pack not found")
)

// Line is one dialogue line.
type Line struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
}

// Pair is one matching-game pair. Either word matches the other.
type Pair struct {
	Word  string `yaml:"word"`
	Match string `yaml:"match"`
}

// Item is a market stall item. X and Y place it on the stall in percent.
type Item struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Required bool    `yaml:"required"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
}

// ChapterText is the narrative of a chapter: intro dialogue, the mini-game prompt
// and the outro after the crystal is found.
type ChapterText struct {
	Label    string `yaml:"label"`
	Title    string `yaml:"title"`
	Intro    []Line `yaml:"intro"`
	Play     string `yaml:"play"`
	Hint     string `yaml:"hint"`
	Found    string `yaml:"found"`
	Outro    []Line `yaml:"outro"`
	Continue string `yaml:"continue"`
}

// CrystalText names and describes a crystal.
type CrystalText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Story       string `yaml:"story"`
}

// FinalText is the final scene script.
type FinalText struct {
	Placing     []Line `yaml:"placing"`
	Place       string `yaml:"place"`
	Lighting    string `yaml:"lighting"`
	Lit         string `yaml:"lit"`
	Headline    string `yaml:"headline"`
	Celebration []Line `yaml:"celebration"`
}

// CollectionText is the crystal collection page text.
type CollectionText struct {
	Heading      string `yaml:"heading"`
	Undiscovered string `yaml:"undiscovered"`
	Complete     string `yaml:"complete"`
	Summary      string `yaml:"summary"`
	Thanks       string `yaml:"thanks"`
}

// CardText is the gratitude card. Empty strings in Lines are paragraph breaks.
type CardText struct {
	Heading   string   `yaml:"heading"`
	Greeting  string   `yaml:"greeting"`
	Lines     []string `yaml:"lines"`
	Closing   string   `yaml:"closing"`
	Signature string   `yaml:"signature"`
}

// Pack is the content of one locale.
type Pack struct {
	Locale     string                            `yaml:"locale"`
	Title      string                            `yaml:"title"`
	Tagline    string                            `yaml:"tagline"`
	Chapters   map[state.ChapterKey]ChapterText  `yaml:"chapters"`
	Pairs      []Pair                            `yaml:"pairs"`
	Market     []Item                            `yaml:"market"`
	Crystals   map[state.CrystalType]CrystalText `yaml:"crystals"`
	Themes     map[state.ThemeColor]string       `yaml:"themes"`
	Final      FinalText                         `yaml:"final"`
	Collection CollectionText                    `yaml:"collection"`
	Card       CardText                          `yaml:"card"`

	// Source is where the pack was loaded from.
	Source string `yaml:"-"`

	ui *gotext.Po
}

// ParsePack decodes story.yaml and the optional gettext catalogue uiPO.
func ParsePack(storyYAML, uiPO []byte) (*Pack, error) {
	var p Pack
	dec := yaml.NewDecoder(bytes.NewReader(storyYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	p.ui = gotext.NewPo()
	if len(uiPO) > 0 {
		p.ui.Parse(uiPO)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every mini-game has data to play with.
func (p *Pack) Validate() error {
	if len(p.Chapter(state.ChapterAttic).Intro) == 0 {
		return fmt.Errorf("%w: attic has no dialogue lines", ErrInvalidPack)
	}
	if len(p.Pairs) == 0 {
		return fmt.Errorf("%w: no matching pairs", ErrInvalidPack)
	}
	for i, pair := range p.Pairs {
		if pair.Word == "" || pair.Match == "" {
			return fmt.Errorf("%w: pair %d is incomplete", ErrInvalidPack, i)
		}
	}
	if len(p.RequiredItems()) == 0 {
		return fmt.Errorf("%w: market has no required items", ErrInvalidPack)
	}
	seen := make(map[string]bool, len(p.Market))
	for _, item := range p.Market {
		if item.ID == "" || seen[item.ID] {
			return fmt.Errorf("%w: market item id %q is empty or duplicated", ErrInvalidPack, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// Chapter returns the text of ch. Missing chapters yield an empty ChapterText
// titled with the key.
func (p *Pack) Chapter(ch state.ChapterKey) ChapterText {
	if t, ok := p.Chapters[ch]; ok {
		return t
	}
	return ChapterText{Title: string(ch)}
}

// Crystal returns the text of crystal c, falling back to its key.
func (p *Pack) Crystal(c state.CrystalType) CrystalText {
	if t, ok := p.Crystals[c]; ok {
		return t
	}
	return CrystalText{Name: string(c)}
}

// Theme returns the display label of t.
func (p *Pack) Theme(t state.ThemeColor) string {
	if label, ok := p.Themes[t]; ok && label != "" {
		return label
	}
	return string(t)
}

// RequiredItems returns the market shopping list in pack order.
func (p *Pack) RequiredItems() []Item {
	var out []Item
	for _, item := range p.Market {
		if item.Required {
			out = append(out, item)
		}
	}
	return out
}

// T translates an interface string. Untranslated ids are returned as given, with
// args applied as fmt verbs.
func (p *Pack) T(msgid string, args ...any) string {
	if p.ui == nil {
		if len(args) == 0 {
			return msgid
		}
		return fmt.Sprintf(msgid, args...)
	}
	return p.ui.Get(msgid, args...)
}
