package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrConflictingModes は --headless と --tui が同時に指定された場合のエラー
var ErrConflictingModes = errors.New("--headless and --tui cannot be combined")

// Config はコマンドライン引数と環境変数から解析された設定を保持する
type Config struct {
	StoryDir           string        // 外部ストーリーパックのディレクトリ（省略時は埋め込みパック）
	Timeout            time.Duration // タイムアウト時間（0は無制限）
	LogLevel           string        // ログレベル（debug, info, warn, error）
	Headless           bool          // ヘッドレスモード（標準入出力で操作）
	TUI                bool          // ターミナルUIモード
	Locale             string        // ストーリーパックの言語（BCP 47）
	SaveDir            string        // セーブデータのディレクトリ（空ならユーザー設定ディレクトリ）
	NoSave             bool          // セーブデータを書き込まない
	MusicPath          string        // BGMファイル（mp3/wav）
	GratitudeMusicPath string        // 感謝カード用BGMファイル
	SoundFontPath      string        // 効果音用SoundFont（.sf2）
	Mute               bool          // 音声を出さない
	Gratitude          bool          // 最終章の後に感謝カードを表示する
	Reset              bool          // 起動時にセーブデータを初期化する
	ShowHelp           bool          // ヘルプ表示フラグ
}

// envConfig は環境変数から読み込む既定値
type envConfig struct {
	Timeout        int    `env:"TIMEOUT"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Headless       bool   `env:"HEADLESS"`
	TUI            bool   `env:"STAR_GLOW_TUI"`
	Locale         string `env:"STAR_GLOW_LOCALE"`
	Lang           string `env:"LANG"`
	SaveDir        string `env:"STAR_GLOW_SAVE_DIR"`
	Music          string `env:"STAR_GLOW_MUSIC"`
	GratitudeMusic string `env:"STAR_GLOW_GRATITUDE_MUSIC"`
	SoundFont      string `env:"STAR_GLOW_SOUNDFONT"`
	Mute           bool   `env:"STAR_GLOW_MUTE"`
}

// 値を取らないフラグ（reorderArgs で次の引数を消費しない）
var boolFlags = map[string]bool{
	"h":         true,
	"help":      true,
	"headless":  true,
	"tui":       true,
	"no-save":   true,
	"mute":      true,
	"gratitude": true,
	"reset":     true,
}

// ParseArgs コマンドライン引数とプロセスの環境変数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	return ParseArgsWithEnv(args, nil)
}

// ParseArgsWithEnv 環境変数を明示して解析する。environ が nil ならプロセスの環境変数を使う
// 環境変数は既定値として扱い、コマンドラインフラグが優先される
func ParseArgsWithEnv(args []string, environ map[string]string) (*Config, error) {
	var ec envConfig
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&ec, opts); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("star-glow", flag.ContinueOnError)

	config := &Config{}

	locale := ec.Locale
	if locale == "" {
		locale = normalizeLocale(ec.Lang)
	}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", ec.Timeout, "timeout in seconds")
	fs.IntVar(&timeoutSec, "t", ec.Timeout, "timeout in seconds (short)")
	fs.StringVar(&config.LogLevel, "log-level", strings.ToLower(ec.LogLevel), "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogLevel, "l", strings.ToLower(ec.LogLevel), "log level (short)")
	fs.BoolVar(&config.Headless, "headless", ec.Headless, "headless mode")
	fs.BoolVar(&config.TUI, "tui", ec.TUI, "terminal UI mode")
	fs.StringVar(&config.Locale, "locale", locale, "story language")
	fs.StringVar(&config.SaveDir, "save-dir", ec.SaveDir, "save directory")
	fs.BoolVar(&config.NoSave, "no-save", false, "do not write save data")
	fs.StringVar(&config.MusicPath, "music", ec.Music, "background music file")
	fs.StringVar(&config.GratitudeMusicPath, "gratitude-music", ec.GratitudeMusic, "gratitude card music file")
	fs.StringVar(&config.SoundFontPath, "soundfont", ec.SoundFont, "SoundFont for sound effects")
	fs.BoolVar(&config.Mute, "mute", ec.Mute, "disable audio")
	fs.BoolVar(&config.Gratitude, "gratitude", false, "show the gratitude card after the final chapter")
	fs.BoolVar(&config.Reset, "reset", false, "reset save data on startup")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (short)")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if config.Headless && config.TUI {
		return nil, ErrConflictingModes
	}

	// 位置引数（外部ストーリーパックのディレクトリ）
	if fs.NArg() > 0 {
		config.StoryDir = fs.Arg(0)
	}

	return config, nil
}

// normalizeLocale POSIX形式のロケール（ru_RU.UTF-8 など）をBCP 47形式に変換する
// C / POSIX は言語指定なしとして扱う
func normalizeLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// --name=value 形式、またはブール型フラグは次の引数を消費しない
			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") || boolFlags[name] {
				continue
			}
			// -t 5 のような場合は次の引数を値として扱う
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `star-glow - a New Year story in seven chapters

Usage:
  star-glow [options] [story-dir]

Arguments:
  story-dir    Directory with extra story packs (<locale>/story.yaml, <locale>/ui.po).
               Packs found there replace the built-in ones for the same locale.

Options:
  -t, --timeout <seconds>     Quit after the given number of seconds (default: no limit)
  -l, --log-level <level>     Log level: debug, info, warn, error (default: info)
  --headless                  Play on stdin/stdout without a window
  --tui                       Play in the terminal
  --locale <tag>              Story language, e.g. en, ru (default: from LANG)
  --save-dir <dir>            Where the save file lives (default: user config dir)
  --no-save                   Keep progress in memory only
  --music <file>              Background music (mp3 or wav)
  --gratitude-music <file>    Music for the gratitude card (mp3 or wav)
  --soundfont <file>          SoundFont (.sf2) used for sound effects
  --mute                      Disable all audio
  --gratitude                 Show the gratitude card after the final chapter
  --reset                     Start over, discarding saved progress
  -h, --help                  Show this help

Environment Variables:
  HEADLESS=1                  Enable headless mode
  TIMEOUT=<seconds>           Timeout in seconds
  LOG_LEVEL=<level>           Log level
  STAR_GLOW_TUI=1             Enable terminal UI mode
  STAR_GLOW_LOCALE=<tag>      Story language (falls back to LANG)
  STAR_GLOW_SAVE_DIR=<dir>    Save directory
  STAR_GLOW_MUSIC=<file>      Background music
  STAR_GLOW_GRATITUDE_MUSIC=<file>  Gratitude card music
  STAR_GLOW_SOUNDFONT=<file>  SoundFont for sound effects
  STAR_GLOW_MUTE=1            Disable all audio

Examples:
  star-glow                       Open the game window
  star-glow --tui --locale ru     Play in the terminal, in Russian
  star-glow --headless            Scripted play on stdin/stdout
  star-glow ./my-stories          Use story packs from a directory
  HEADLESS=1 star-glow --timeout 10
`)
}
