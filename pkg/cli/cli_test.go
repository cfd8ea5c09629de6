package cli

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// 空の環境変数（テスト実行環境の LANG などに影響されないようにする）
var noEnv = map[string]string{}

func TestParseArgs_ValidArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Config
	}{
		{
			name:     "デフォルト設定",
			args:     []string{},
			expected: Config{LogLevel: "info"},
		},
		{
			name:     "ストーリーディレクトリ指定",
			args:     []string{"/path/to/stories"},
			expected: Config{StoryDir: "/path/to/stories", LogLevel: "info"},
		},
		{
			name:     "タイムアウト指定",
			args:     []string{"--timeout", "10"},
			expected: Config{Timeout: 10 * time.Second, LogLevel: "info"},
		},
		{
			name:     "タイムアウト指定（短縮形）",
			args:     []string{"-t", "5"},
			expected: Config{Timeout: 5 * time.Second, LogLevel: "info"},
		},
		{
			name:     "タイムアウト指定（=形式）",
			args:     []string{"--timeout=7", "stories"},
			expected: Config{StoryDir: "stories", Timeout: 7 * time.Second, LogLevel: "info"},
		},
		{
			name:     "ログレベル指定（短縮形）",
			args:     []string{"-l", "error"},
			expected: Config{LogLevel: "error"},
		},
		{
			name:     "ヘッドレスモード",
			args:     []string{"--headless"},
			expected: Config{LogLevel: "info", Headless: true},
		},
		{
			name:     "ターミナルUI",
			args:     []string{"--tui", "--locale", "ru"},
			expected: Config{LogLevel: "info", TUI: true, Locale: "ru"},
		},
		{
			name:     "ヘルプ表示（短縮形）",
			args:     []string{"-h"},
			expected: Config{LogLevel: "info", ShowHelp: true},
		},
		{
			name: "音声とセーブの指定",
			args: []string{"--music", "bg.mp3", "--gratitude-music", "card.wav", "--soundfont", "gm.sf2", "--mute", "--no-save", "--save-dir", "/tmp/sg"},
			expected: Config{
				LogLevel:           "info",
				MusicPath:          "bg.mp3",
				GratitudeMusicPath: "card.wav",
				SoundFontPath:      "gm.sf2",
				Mute:               true,
				NoSave:             true,
				SaveDir:            "/tmp/sg",
			},
		},
		{
			name: "位置引数の前後にブール型フラグ",
			args: []string{"--gratitude", "./stories", "--reset", "--timeout", "3"},
			expected: Config{
				StoryDir:  "./stories",
				Timeout:   3 * time.Second,
				LogLevel:  "info",
				Gratitude: true,
				Reset:     true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseArgsWithEnv(tt.args, noEnv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(*config, tt.expected) {
				t.Errorf("config = %+v\nwant     %+v", *config, tt.expected)
			}
		})
	}
}

func TestParseArgs_Environment(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		environ  map[string]string
		expected Config
	}{
		{
			name:     "HEADLESS=1",
			environ:  map[string]string{"HEADLESS": "1"},
			expected: Config{LogLevel: "info", Headless: true},
		},
		{
			name:     "TIMEOUT と LOG_LEVEL",
			environ:  map[string]string{"TIMEOUT": "20", "LOG_LEVEL": "DEBUG"},
			expected: Config{Timeout: 20 * time.Second, LogLevel: "debug"},
		},
		{
			name:     "フラグが環境変数より優先",
			args:     []string{"--timeout", "2", "-l", "warn"},
			environ:  map[string]string{"TIMEOUT": "20", "LOG_LEVEL": "debug"},
			expected: Config{Timeout: 2 * time.Second, LogLevel: "warn"},
		},
		{
			name:     "LANG からロケールを決定",
			environ:  map[string]string{"LANG": "ru_RU.UTF-8"},
			expected: Config{LogLevel: "info", Locale: "ru-RU"},
		},
		{
			name:     "STAR_GLOW_LOCALE は LANG より優先",
			environ:  map[string]string{"LANG": "ru_RU.UTF-8", "STAR_GLOW_LOCALE": "en"},
			expected: Config{LogLevel: "info", Locale: "en"},
		},
		{
			name:     "LANG=C は指定なし",
			environ:  map[string]string{"LANG": "C"},
			expected: Config{LogLevel: "info"},
		},
		{
			name: "パスとミュート",
			environ: map[string]string{
				"STAR_GLOW_SAVE_DIR":        "/saves",
				"STAR_GLOW_MUSIC":           "a.mp3",
				"STAR_GLOW_GRATITUDE_MUSIC": "b.mp3",
				"STAR_GLOW_SOUNDFONT":       "c.sf2",
				"STAR_GLOW_MUTE":            "true",
				"STAR_GLOW_TUI":             "1",
			},
			expected: Config{
				LogLevel:           "info",
				SaveDir:            "/saves",
				MusicPath:          "a.mp3",
				GratitudeMusicPath: "b.mp3",
				SoundFontPath:      "c.sf2",
				Mute:               true,
				TUI:                true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseArgsWithEnv(tt.args, tt.environ)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(*config, tt.expected) {
				t.Errorf("config = %+v\nwant     %+v", *config, tt.expected)
			}
		})
	}
}

func TestParseArgs_InvalidArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		environ map[string]string
	}{
		{
			name: "負のタイムアウト",
			args: []string{"--timeout", "-10"},
		},
		{
			name: "無効なログレベル",
			args: []string{"--log-level", "invalid"},
		},
		{
			name: "無効なログレベル（短縮形）",
			args: []string{"-l", "trace"},
		},
		{
			name: "未知のフラグ",
			args: []string{"--fullscreen"},
		},
		{
			name:    "数値でない TIMEOUT",
			environ: map[string]string{"TIMEOUT": "soon"},
		},
		{
			name:    "無効な LOG_LEVEL",
			environ: map[string]string{"LOG_LEVEL": "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.environ
			if environ == nil {
				environ = noEnv
			}
			_, err := ParseArgsWithEnv(tt.args, environ)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseArgs_ConflictingModes(t *testing.T) {
	_, err := ParseArgsWithEnv([]string{"--headless", "--tui"}, noEnv)
	if !errors.Is(err, ErrConflictingModes) {
		t.Errorf("err = %v, want ErrConflictingModes", err)
	}

	_, err = ParseArgsWithEnv([]string{"--tui"}, map[string]string{"HEADLESS": "1"})
	if !errors.Is(err, ErrConflictingModes) {
		t.Errorf("env headless + --tui: err = %v, want ErrConflictingModes", err)
	}
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"位置引数が先頭", []string{"dir", "-t", "5"}, []string{"-t", "5", "dir"}},
		{"ブール型フラグは値を取らない", []string{"--mute", "dir"}, []string{"--mute", "dir"}},
		{"=形式", []string{"dir", "--locale=ru"}, []string{"--locale=ru", "dir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reorderArgs(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reorderArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"C":           "",
		"POSIX":       "",
		"en_US.UTF-8": "en-US",
		"ru_RU":       "ru-RU",
		"de_DE@euro":  "de-DE",
		"ru":          "ru",
	}
	for in, want := range tests {
		if got := normalizeLocale(in); got != want {
			t.Errorf("normalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
