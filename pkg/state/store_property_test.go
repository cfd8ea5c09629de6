package state

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return parameters
}

// 任意の CollectCrystal 列について、4 キーの形が保たれ、二重収集は一回と同じ結果になる
func TestProperty_CollectCrystalIdempotent(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	crystals := AllCrystals()
	properties.Property("collecting is idempotent and keeps the fixed shape", prop.ForAll(
		func(indices []int) bool {
			once := newHydratedStore(t, NewMemoryStorage())
			twice := newHydratedStore(t, NewMemoryStorage())

			want := Crystals{}
			for _, i := range indices {
				c := crystals[i]
				once.CollectCrystal(c)
				twice.CollectCrystal(c)
				twice.CollectCrystal(c)
				want = want.With(c)
			}

			return once.Snapshot().Crystals == want && twice.Snapshot().Crystals == want
		},
		gen.SliceOf(gen.IntRange(0, len(crystals)-1)),
	))

	properties.TestingRun(t)
}

// 任意の CompleteChapter 列について、結果は入力の重複を除いた初出順になる
func TestProperty_CompletedChaptersDistinctInOrder(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	chapters := AllChapters()
	properties.Property("completed chapters are the distinct inputs in first-seen order", prop.ForAll(
		func(indices []int) bool {
			s := newHydratedStore(t, NewMemoryStorage())

			want := []ChapterKey{}
			seen := map[ChapterKey]bool{}
			for _, i := range indices {
				ch := chapters[i]
				s.CompleteChapter(ch)
				if !seen[ch] {
					seen[ch] = true
					want = append(want, ch)
				}
			}

			return reflect.DeepEqual(s.Snapshot().CompletedChapters, want)
		},
		gen.SliceOf(gen.IntRange(0, len(chapters)-1)),
	))

	properties.TestingRun(t)
}

// 保存して再読込すると currentChapter だけが start に戻り、元の章は savedProgress に残る
func TestProperty_PersistHydrateRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	chapters := AllChapters()
	crystals := AllCrystals()
	themes := AllThemes()

	properties.Property("persist then hydrate restores everything but the live chapter", prop.ForAll(
		func(chapterIdx int, crystalIdx []int, completedIdx []int, themeIdx int, completed bool) bool {
			storage := NewMemoryStorage()
			s := newHydratedStore(t, storage)

			for _, i := range crystalIdx {
				s.CollectCrystal(crystals[i])
			}
			for _, i := range completedIdx {
				s.CompleteChapter(chapters[i])
			}
			s.SetThemeColor(themes[themeIdx])
			if completed {
				s.CompleteGame()
			}
			ch := chapters[chapterIdx]
			s.GoToChapter(ch)

			before := s.Snapshot()

			reloaded := newHydratedStore(t, storage)
			after := reloaded.Snapshot()

			want := before.Clone()
			want.CurrentChapter = ChapterStart
			if !reflect.DeepEqual(after, want) {
				return false
			}

			saved, ok := reloaded.SavedProgress()
			if ch == ChapterStart {
				return !ok
			}
			return ok && saved == ch
		},
		gen.IntRange(0, len(chapters)-1),
		gen.SliceOf(gen.IntRange(0, len(crystals)-1)),
		gen.SliceOf(gen.IntRange(0, len(chapters)-1)),
		gen.IntRange(0, len(themes)-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// transition はどの順で呼ばれても ResetGame の後は既定値に戻り、
// ResetGame を含まない列では gameCompleted が true のまま維持される
func TestProperty_ResetAndCompleteGame(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	chapters := AllChapters()
	crystals := AllCrystals()
	themes := AllThemes()

	// op: 0=GoToChapter 1=CollectCrystal 2=CompleteChapter 3=SetThemeColor 4=ContinueGame
	apply := func(s *Store, op, arg int) {
		switch op {
		case 0:
			s.GoToChapter(chapters[arg%len(chapters)])
		case 1:
			s.CollectCrystal(crystals[arg%len(crystals)])
		case 2:
			s.CompleteChapter(chapters[arg%len(chapters)])
		case 3:
			s.SetThemeColor(themes[arg%len(themes)])
		case 4:
			s.ContinueGame()
		}
	}

	properties.Property("CompleteGame is monotonic without reset", prop.ForAll(
		func(ops []int, args []int) bool {
			s := newHydratedStore(t, NewMemoryStorage())
			s.CompleteGame()
			for i, op := range ops {
				arg := 0
				if i < len(args) {
					arg = args[i]
				}
				apply(s, op, arg)
				if !s.Snapshot().GameCompleted {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.Property("ResetGame always yields the default state", prop.ForAll(
		func(ops []int, args []int) bool {
			s := newHydratedStore(t, NewMemoryStorage())
			for i, op := range ops {
				arg := 0
				if i < len(args) {
					arg = args[i]
				}
				apply(s, op, arg)
			}
			s.ResetGame()
			_, hasSaved := s.SavedProgress()
			return reflect.DeepEqual(s.Snapshot(), DefaultGameState()) && !hasSaved && s.IsShowingStartScreen()
		},
		gen.SliceOf(gen.IntRange(0, 4)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
