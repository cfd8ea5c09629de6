package scene

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/zurustar/star-glow/pkg/state"
)

// RenderText lays a frame out as plain text lines no wider than width cells.
// The headless and terminal front ends draw frames with it.
func RenderText(f Frame, width int) []string {
	width = max(width, 20)
	var out []string
	add := func(s string) {
		out = append(out, Wrap(s, width)...)
	}

	heading := f.Title
	if f.Label != "" {
		heading = f.Label + " · " + f.Title
	}
	add("== " + heading + " ==")
	if len(f.Progress) > 0 {
		add(progressText(f.Progress))
	}
	if len(f.Crystals) > 0 && f.Chapter != state.ChapterStart {
		add(crystalText(f.Crystals))
	}
	out = append(out, "")

	for _, l := range f.Lines {
		if l.Speaker != "" {
			add(l.Speaker + ": " + l.Text)
		} else {
			add(l.Text)
		}
	}
	for _, t := range f.Text {
		add(t)
	}
	if f.Board != nil {
		if len(f.Lines)+len(f.Text) > 0 {
			out = append(out, "")
		}
		for _, l := range boardText(f.Board) {
			add(l)
		}
	}
	if f.Overlay != "" {
		out = append(out, "")
		add("*** " + f.Overlay + " ***")
	}
	if f.Status != "" {
		out = append(out, "")
		add(f.Status)
	}
	if len(f.Options) > 0 {
		out = append(out, "")
		for i, o := range f.Options {
			mark := " "
			if i == f.Selected {
				mark = ">"
			}
			add(fmt.Sprintf("%s %d) %s", mark, i+1, o))
		}
	}
	return out
}

func progressText(steps []ProgressStep) string {
	var b strings.Builder
	for _, s := range steps {
		switch {
		case s.Current:
			b.WriteString("[>]")
		case s.Done:
			b.WriteString("[*]")
		default:
			b.WriteString("[ ]")
		}
	}
	return b.String()
}

func crystalText(slots []CrystalSlot) string {
	parts := make([]string, len(slots))
	for i, c := range slots {
		mark := "○"
		if c.Collected {
			mark = "◆"
		}
		parts[i] = mark + " " + c.Name
	}
	return strings.Join(parts, "  ")
}

func boardText(b *Board) []string {
	switch b.Kind {
	case BoardScatter:
		out := make([]string, len(b.Cells))
		for i, c := range b.Cells {
			mark := "[ ]"
			if c.Done {
				mark = "[x]"
			}
			cursor := " "
			if i == b.Cursor {
				cursor = ">"
			}
			out[i] = fmt.Sprintf("%s%s %d. %s", cursor, mark, i+1, c.Label)
		}
		return out
	case BoardLanes:
		out := make([]string, len(b.Cells))
		for i, c := range b.Cells {
			cursor := " "
			if i == b.Cursor {
				cursor = ">"
			}
			out[i] = fmt.Sprintf("%s%s | %s", cursor, c.Label, strings.Repeat("● ", c.Count))
		}
		return out
	}

	cols := max(b.Columns, 1)
	cellWidth := 3
	for _, c := range b.Cells {
		cellWidth = max(cellWidth, runewidth.StringWidth(c.Label))
	}
	var out []string
	var row strings.Builder
	for i, c := range b.Cells {
		label := c.Label
		switch {
		case c.Empty:
			label = ""
		case c.Hidden:
			label = "?"
		}
		open, shut := "[", "]"
		if c.Done {
			open, shut = "(", ")"
		}
		if i == b.Cursor {
			open, shut = ">", "<"
		}
		fmt.Fprintf(&row, "%2d%s%s%s ", i+1, open, runewidth.FillRight(label, cellWidth), shut)
		if (i+1)%cols == 0 || i == len(b.Cells)-1 {
			out = append(out, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	return out
}

// Wrap breaks s into lines of at most width cells at spaces. Words wider than a
// line are cut. Lines that already fit are kept as they are.
func Wrap(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if runewidth.StringWidth(para) <= width {
			out = append(out, para)
			continue
		}
		var line string
		for _, word := range strings.Fields(para) {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				cut := runewidth.Truncate(word, width, "")
				if cut == "" {
					_, size := utf8.DecodeRuneInString(word)
					cut = word[:size]
				}
				out = append(out, cut)
				word = word[len(cut):]
			}
			switch {
			case word == "":
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return out
}
