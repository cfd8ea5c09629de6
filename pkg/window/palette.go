package window

import (
	"image/color"

	"github.com/zurustar/star-glow/pkg/state"
)

// palette は画面の配色
type palette struct {
	background color.RGBA
	panel      color.RGBA
	text       color.RGBA
	muted      color.RGBA
	accent     color.RGBA
	accentText color.RGBA
	done       color.RGBA
	overlay    color.RGBA
}

// テーマごとのアクセント色
var accents = map[state.ThemeColor]color.RGBA{
	state.ThemeBlue:   {0x3B, 0x82, 0xF6, 0xFF},
	state.ThemePink:   {0xEC, 0x48, 0x99, 0xFF},
	state.ThemePurple: {0x8B, 0x5C, 0xF6, 0xFF},
	state.ThemeMint:   {0x10, 0xB9, 0x81, 0xFF},
}

// paletteFor はテーマと表示モードから配色を決める
func paletteFor(theme state.ThemeColor, dark bool) palette {
	accent, ok := accents[theme]
	if !ok {
		accent = accents[state.ThemeBlue]
	}
	p := palette{
		background: color.RGBA{0xF5, 0xF7, 0xFB, 0xFF},
		panel:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		text:       color.RGBA{0x1F, 0x29, 0x37, 0xFF},
		muted:      color.RGBA{0x6B, 0x72, 0x80, 0xFF},
		accent:     accent,
		accentText: color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		done:       color.RGBA{0xFB, 0xBF, 0x24, 0xFF},
		overlay:    color.RGBA{0x0F, 0x17, 0x2A, 0xC0},
	}
	if dark {
		p.background = color.RGBA{0x0F, 0x17, 0x2A, 0xFF}
		p.panel = color.RGBA{0x1E, 0x29, 0x3B, 0xFF}
		p.text = color.RGBA{0xE2, 0xE8, 0xF0, 0xFF}
		p.muted = color.RGBA{0x94, 0xA3, 0xB8, 0xFF}
		p.overlay = color.RGBA{0x00, 0x00, 0x00, 0xC0}
	}
	return p
}
