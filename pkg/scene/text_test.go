package scene

import (
	"slices"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/zurustar/star-glow/pkg/state"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "  1) Next", 20, []string{"  1) Next"}},
		{"breaks at spaces", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"long word is cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"wide runes", "星の光 星の光", 6, []string{"星の光", "星の光"}},
		{"newlines", "a\nb", 10, []string{"a", "b"}},
		{"empty", "", 10, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.in, tt.width)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			for _, l := range got {
				if runewidth.StringWidth(l) > tt.width {
					t.Errorf("line %q is wider than %d", l, tt.width)
				}
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	f := Frame{
		Chapter:  state.ChapterAttic,
		Label:    "Chapter 1",
		Title:    "The Attic",
		Lines:    []Line{{Speaker: "Grandma", Text: "Look up."}, {Text: "A hush."}},
		Text:     []string{"Dust."},
		Overlay:  "A crystal!",
		Status:   "Found 1 of 2",
		Options:  []string{"Next", "Back"},
		Selected: 1,
		Progress: []ProgressStep{{Done: true}, {Current: true}, {}},
		Crystals: []CrystalSlot{{Name: "Kindness", Collected: true}, {Name: "Memories"}},
	}
	lines := RenderText(f, 60)
	all := strings.Join(lines, "\n")

	if lines[0] != "== Chapter 1 · The Attic ==" {
		t.Errorf("heading = %q", lines[0])
	}
	for _, want := range []string{
		"[*][>][ ]",
		"◆ Kindness  ○ Memories",
		"Grandma: Look up.",
		"A hush.",
		"Dust.",
		"*** A crystal! ***",
		"Found 1 of 2",
		"  1) Next",
		"> 2) Back",
	} {
		if !strings.Contains(all, want) {
			t.Errorf("output does not contain %q:\n%s", want, all)
		}
	}
}

func TestRenderText_StartHidesCrystals(t *testing.T) {
	f := Frame{
		Chapter:  state.ChapterStart,
		Title:    "Star Glow",
		Crystals: []CrystalSlot{{Name: "Kindness"}},
	}
	all := strings.Join(RenderText(f, 60), "\n")
	if strings.Contains(all, "Kindness") {
		t.Errorf("start screen shows crystals:\n%s", all)
	}
	if !strings.HasPrefix(all, "== Star Glow ==") {
		t.Errorf("heading without a label:\n%s", all)
	}
}

func TestRenderText_Boards(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  []string
	}{
		{
			name: "scatter",
			board: Board{Kind: BoardScatter, Cursor: 1, Cells: []CellView{
				{Label: "gift", Done: true}, {Label: "bell"},
			}},
			want: []string{" [x] 1. gift", ">[ ] 2. bell"},
		},
		{
			name: "lanes",
			board: Board{Kind: BoardLanes, Cursor: -1, Cells: []CellView{
				{Label: "1", Count: 2}, {Label: "2"},
			}},
			want: []string{" 1 | ● ● ", " 2 | "},
		},
		{
			name: "grid",
			board: Board{Kind: BoardGrid, Columns: 2, Cursor: 0, Cells: []CellView{
				{Label: "Snow"}, {Label: "Star", Hidden: true}, {Label: "Light", Done: true}, {Empty: true},
			}},
			want: []string{" 1>Snow <  2[?    ]", " 3(Light)  4[     ]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boardText(&tt.board)
			if !slices.Equal(got, tt.want) {
				t.Errorf("boardText = %q, want %q", got, tt.want)
			}

			// 画面に出すときも列はそろったまま
			all := strings.Join(RenderText(Frame{Board: &tt.board}, 60), "\n")
			for _, w := range tt.want {
				if !strings.Contains(all, w) {
					t.Errorf("RenderText lost %q:\n%s", w, all)
				}
			}
		})
	}
}
