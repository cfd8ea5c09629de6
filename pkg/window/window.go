package window

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/zurustar/star-glow/pkg/logger"
	"github.com/zurustar/star-glow/pkg/scene"
	"github.com/zurustar/star-glow/pkg/state"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Director はウィンドウが操作するシーンの進行役
type Director interface {
	Frame() scene.Frame
	Handle(in scene.Input)
	Update(dt time.Duration)
	Busy() bool
}

// Mixer は毎フレーム更新する音声システム
type Mixer interface {
	Update()
	SetMuted(muted bool)
	IsMuted() bool
}

// fontSet は描画に使うフォント
type fontSet struct {
	title   text.Face
	body    text.Face
	bold    text.Face
	small   text.Face
	overlay text.Face
}

// フォントは最初の利用時に一度だけ読み込む
var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	return &fontSet{
		title:   &text.GoTextFace{Source: bold, Size: 34},
		body:    &text.GoTextFace{Source: regular, Size: 20},
		bold:    &text.GoTextFace{Source: bold, Size: 20},
		small:   &text.GoTextFace{Source: regular, Size: 15},
		overlay: &text.GoTextFace{Source: bold, Size: 42},
	}, nil
})

// fonts はフォントを返す。読み込みに失敗した場合はビットマップフォントで代用する
func fonts() *fontSet {
	fs, err := loadFonts()
	if err == nil {
		return fs
	}
	logger.GetLogger().Warn("Falling back to bitmap font", "error", err)
	face := text.NewGoXFace(basicfont.Face7x13)
	return &fontSet{title: face, body: face, bold: face, small: face, overlay: face}
}

// Game はEbitengineのゲームインターフェースを実装する
type Game struct {
	director  Director
	mixer     Mixer
	timeout   time.Duration // タイムアウト時間
	startTime time.Time     // 開始時刻
	quit      bool

	frame  scene.Frame
	layout layout
	fonts  *fontSet
}

// NewGame Gameを作成
func NewGame(director Director, mixer Mixer, timeout time.Duration) *Game {
	g := &Game{
		director:  director,
		mixer:     mixer,
		timeout:   timeout,
		startTime: time.Now(),
	}
	g.refresh()
	return g
}

func (g *Game) refresh() {
	g.frame = g.director.Frame()
	g.layout = computeLayout(g.frame)
}

// frameDuration は1フレームの経過時間
func frameDuration() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

// Update ゲームロジックの更新（Ebitengineが毎フレーム呼び出す）
func (g *Game) Update() error {
	// タイムアウトチェック
	if g.timeout > 0 && time.Since(g.startTime) >= g.timeout {
		return ebiten.Termination
	}

	for _, in := range g.readInput() {
		g.director.Handle(in)
		g.refresh()
	}
	if g.quit {
		return ebiten.Termination
	}

	g.director.Update(frameDuration())
	if g.mixer != nil {
		g.mixer.Update()
	}
	g.refresh()
	return nil
}

// ゲームで使うキー
var watchedKeys = []ebiten.Key{
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeySpace,
	ebiten.KeyEscape, ebiten.KeyBackspace,
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
	ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	ebiten.KeyD, ebiten.KeyF, ebiten.KeyJ, ebiten.KeyK,
}

// リズムゲームのレーンに対応するキー
var laneKeys = map[ebiten.Key]int{
	ebiten.KeyD: 0, ebiten.KeyF: 1, ebiten.KeyJ: 2, ebiten.KeyK: 3,
}

// 数字キー（1始まり）
var digitKeys = map[ebiten.Key]int{
	ebiten.KeyDigit1: 1, ebiten.KeyDigit2: 2, ebiten.KeyDigit3: 3,
	ebiten.KeyDigit4: 4, ebiten.KeyDigit5: 5, ebiten.KeyDigit6: 6,
	ebiten.KeyDigit7: 7, ebiten.KeyDigit8: 8, ebiten.KeyDigit9: 9,
}

// keyInput はキーをシーンへの入力に変換する
func keyInput(key ebiten.Key, f scene.Frame) (scene.Input, bool) {
	lanes := f.Board != nil && f.Board.Kind == scene.BoardLanes
	if lane, ok := laneKeys[key]; ok && lanes {
		return scene.Tap(lane), true
	}
	switch key {
	case ebiten.KeyUp:
		return scene.Key(scene.InputUp), true
	case ebiten.KeyDown:
		return scene.Key(scene.InputDown), true
	case ebiten.KeyLeft:
		return scene.Key(scene.InputLeft), true
	case ebiten.KeyRight:
		return scene.Key(scene.InputRight), true
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeySpace:
		return scene.Key(scene.InputConfirm), true
	case ebiten.KeyEscape, ebiten.KeyBackspace:
		return scene.Key(scene.InputBack), true
	}
	if d, ok := digitKeys[key]; ok {
		n := d - 1
		switch {
		case lanes:
			return scene.Tap(n), true
		case len(f.Options) > 0:
			return scene.Choose(n), true
		case f.Board != nil:
			return scene.Cell(n), true
		}
	}
	return scene.Input{}, false
}

// readInput はこのフレームで押されたキーとクリックを集める
func (g *Game) readInput() []scene.Input {
	var out []scene.Input
	for _, key := range watchedKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		// 開始画面でのEscは終了
		if key == ebiten.KeyEscape && g.frame.Chapter == state.ChapterStart {
			g.quit = true
			return out
		}
		if in, ok := keyInput(key, g.frame); ok {
			out = append(out, in)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) && g.mixer != nil {
		g.mixer.SetMuted(!g.mixer.IsMuted())
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if in, ok := hitTest(g.frame, g.layout, float64(x), float64(y)); ok {
			out = append(out, in)
		}
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		if in, ok := hitTest(g.frame, g.layout, float64(x), float64(y)); ok {
			out = append(out, in)
		}
	}
	return out
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (g *Game) Draw(screen *ebiten.Image) {
	if g.fonts == nil {
		g.fonts = fonts()
	}
	f := g.frame
	p := paletteFor(f.Theme, f.Dark)
	screen.Fill(p.background)

	g.drawHeader(screen, f, p)
	g.drawBody(screen, f, p)
	if f.Board != nil {
		g.drawBoard(screen, f.Board, p)
	}
	g.drawOptions(screen, f, p)
	if f.Overlay != "" {
		vector.FillRect(screen, 0, 0, ScreenWidth, ScreenHeight, p.overlay, false)
		drawText(screen, f.Overlay, g.fonts.overlay, ScreenWidth/2, ScreenHeight/2-30, color.White, text.AlignCenter)
	}
}

func (g *Game) drawHeader(screen *ebiten.Image, f scene.Frame, p palette) {
	if f.Label != "" {
		drawText(screen, f.Label, g.fonts.small, margin, 24, p.muted, text.AlignStart)
	}
	drawText(screen, f.Title, g.fonts.title, margin, 44, p.accent, text.AlignStart)

	// 進行状況（星の列）
	for i, step := range f.Progress {
		x := float32(ScreenWidth - margin - float64(len(f.Progress)-i)*28 + 14)
		switch {
		case step.Current:
			vector.FillCircle(screen, x, 34, 10, p.accent, true)
		case step.Done:
			vector.FillCircle(screen, x, 34, 8, p.done, true)
		default:
			vector.StrokeCircle(screen, x, 34, 8, 2, p.muted, true)
		}
	}

	// 集めたクリスタル
	if f.Chapter == state.ChapterStart {
		return
	}
	for i, c := range f.Crystals {
		x := float32(ScreenWidth - margin - float64(len(f.Crystals)-i)*28 + 14)
		if c.Collected {
			vector.FillCircle(screen, x, 74, 9, p.accent, true)
		} else {
			vector.StrokeCircle(screen, x, 74, 9, 2, p.muted, true)
		}
	}
}

func (g *Game) drawBody(screen *ebiten.Image, f scene.Frame, p palette) {
	area := g.layout.text
	y := area.y
	lineHeight := 28.0

	for _, l := range f.Lines {
		if l.Speaker != "" {
			drawText(screen, l.Speaker, g.fonts.bold, area.x, y, p.accent, text.AlignStart)
			y += lineHeight
		}
		for _, s := range wrapText(l.Text, g.fonts.body, area.w) {
			drawText(screen, s, g.fonts.body, area.x, y, p.text, text.AlignStart)
			y += lineHeight
		}
		y += lineHeight / 2
	}
	for _, t := range f.Text {
		for _, s := range wrapText(t, g.fonts.body, area.w) {
			drawText(screen, s, g.fonts.body, area.x, y, p.text, text.AlignStart)
			y += lineHeight
		}
	}
	if f.Status != "" {
		drawText(screen, f.Status, g.fonts.bold, area.x, area.y+area.h-lineHeight, p.muted, text.AlignStart)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image, b *scene.Board, p palette) {
	for i, c := range b.Cells {
		if i >= len(g.layout.cells) {
			break
		}
		r := g.layout.cells[i]
		x, y, w, h := float32(r.x), float32(r.y), float32(r.w), float32(r.h)
		cx, cy := r.center()

		switch {
		case b.Kind == scene.BoardLanes:
			vector.FillRect(screen, x, y, w, h, p.panel, false)
			for k := range c.Count {
				ly := float32(r.y + r.h - 70 - float64(k)*50)
				vector.FillCircle(screen, float32(cx), ly, 18, p.accent, true)
			}
			drawText(screen, c.Label, g.fonts.bold, cx, r.y+r.h-36, p.muted, text.AlignCenter)
		case c.Empty:
		case c.Hidden:
			vector.FillRect(screen, x, y, w, h, p.accent, false)
			drawText(screen, "?", g.fonts.title, cx, cy-20, p.accentText, text.AlignCenter)
		case c.Done:
			vector.FillRect(screen, x, y, w, h, p.done, false)
			drawText(screen, c.Label, g.fonts.bold, cx, cy-12, p.text, text.AlignCenter)
		default:
			vector.FillRect(screen, x, y, w, h, p.panel, false)
			vector.StrokeRect(screen, x, y, w, h, 1, p.muted, false)
			drawText(screen, c.Label, g.fonts.bold, cx, cy-12, p.text, text.AlignCenter)
		}

		if i == b.Cursor {
			vector.StrokeRect(screen, x-3, y-3, w+6, h+6, 3, p.accent, false)
		}
	}
}

func (g *Game) drawOptions(screen *ebiten.Image, f scene.Frame, p palette) {
	for i, label := range f.Options {
		r := g.layout.options[i]
		x, y, w, h := float32(r.x), float32(r.y), float32(r.w), float32(r.h)
		cx, cy := r.center()
		if i == f.Selected {
			vector.FillRect(screen, x, y, w, h, p.accent, false)
			drawText(screen, label, g.fonts.bold, cx, cy-12, p.accentText, text.AlignCenter)
			continue
		}
		vector.FillRect(screen, x, y, w, h, p.panel, false)
		vector.StrokeRect(screen, x, y, w, h, 2, p.accent, false)
		drawText(screen, label, g.fonts.bold, cx, cy-12, p.text, text.AlignCenter)
	}
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(dst, s, face, op)
}

// wrapText は幅に収まるように単語単位で折り返す
func wrapText(s string, face text.Face, width float64) []string {
	var out []string
	var line string
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && text.Advance(candidate, face) > width {
			out = append(out, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

// Layout 画面サイズを返す
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Run GUIモードでウィンドウを実行
func Run(director Director, mixer Mixer, timeout time.Duration, title string) error {
	game := NewGame(director, mixer, timeout)

	// ウィンドウ設定
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle(title)
	// リサイズ時はEbitengineがアスペクト比を保ったまま拡大縮小する
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// ゲームを実行
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("failed to run game: %w", err)
	}
	return nil
}
