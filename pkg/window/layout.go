package window

import (
	"github.com/zurustar/star-glow/pkg/scene"
)

// 論理画面サイズ（ウィンドウサイズに関わらず固定）
const (
	ScreenWidth  = 1024
	ScreenHeight = 768
)

const (
	margin        = 40.0
	headerHeight  = 110.0
	buttonWidth   = 360.0
	buttonHeight  = 44.0
	buttonGap     = 10.0
	cellGap       = 10.0
	scatterWidth  = 130.0
	scatterHeight = 56.0
)

// rect は画面上の矩形
type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) center() (float64, float64) {
	return r.x + r.w/2, r.y + r.h/2
}

// layout はフレームの各要素の配置
type layout struct {
	options []rect
	board   rect
	cells   []rect
	text    rect
}

// computeLayout はフレームから描画とクリック判定に使う配置を計算する
func computeLayout(f scene.Frame) layout {
	var l layout

	// ボタンは下端から積み上げる
	n := len(f.Options)
	top := ScreenHeight - margin - float64(n)*(buttonHeight+buttonGap) + buttonGap
	for i := range n {
		l.options = append(l.options, rect{
			x: (ScreenWidth - buttonWidth) / 2,
			y: top + float64(i)*(buttonHeight+buttonGap),
			w: buttonWidth,
			h: buttonHeight,
		})
	}
	bottom := ScreenHeight - margin
	if n > 0 {
		bottom = top - buttonGap*2
	}

	if f.Board == nil {
		l.text = rect{x: margin * 2, y: headerHeight, w: ScreenWidth - margin*4, h: bottom - headerHeight}
		return l
	}

	// 盤面は左、説明文は右
	l.board = rect{x: margin, y: headerHeight, w: ScreenWidth * 0.6, h: bottom - headerHeight}
	l.text = rect{x: l.board.x + l.board.w + margin, y: headerHeight, w: ScreenWidth - l.board.w - margin*3, h: l.board.h}
	l.cells = boardCells(f.Board, l.board)
	return l
}

func boardCells(b *scene.Board, area rect) []rect {
	n := len(b.Cells)
	if n == 0 {
		return nil
	}
	out := make([]rect, n)
	switch b.Kind {
	case scene.BoardScatter:
		for i, c := range b.Cells {
			x := area.x + area.w*c.X/100 - scatterWidth/2
			y := area.y + area.h*c.Y/100 - scatterHeight/2
			x = min(max(x, area.x), area.x+area.w-scatterWidth)
			y = min(max(y, area.y), area.y+area.h-scatterHeight)
			out[i] = rect{x: x, y: y, w: scatterWidth, h: scatterHeight}
		}
	case scene.BoardLanes:
		w := area.w / float64(n)
		for i := range n {
			out[i] = rect{x: area.x + float64(i)*w + cellGap/2, y: area.y, w: w - cellGap, h: area.h}
		}
	default:
		cols := max(b.Columns, 1)
		rows := (n + cols - 1) / cols
		size := min(area.w/float64(cols), area.h/float64(rows))
		offX := area.x + (area.w-size*float64(cols))/2
		offY := area.y + (area.h-size*float64(rows))/2
		for i := range n {
			r, c := i/cols, i%cols
			out[i] = rect{
				x: offX + float64(c)*size + cellGap/2,
				y: offY + float64(r)*size + cellGap/2,
				w: size - cellGap,
				h: size - cellGap,
			}
		}
	}
	return out
}

// hitTest はクリック位置に対応する入力を返す
func hitTest(f scene.Frame, l layout, x, y float64) (scene.Input, bool) {
	for i, r := range l.options {
		if r.contains(x, y) {
			return scene.Choose(i), true
		}
	}
	if f.Board == nil {
		return scene.Input{}, false
	}
	for i, r := range l.cells {
		if !r.contains(x, y) {
			continue
		}
		if f.Board.Kind == scene.BoardLanes {
			return scene.Tap(i), true
		}
		return scene.Cell(i), true
	}
	return scene.Input{}, false
}
