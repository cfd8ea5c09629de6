package app

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zurustar/star-glow/pkg/audio"
	"github.com/zurustar/star-glow/pkg/cli"
	"github.com/zurustar/star-glow/pkg/logger"
	"github.com/zurustar/star-glow/pkg/scene"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
	"github.com/zurustar/star-glow/pkg/terminal"
	"github.com/zurustar/star-glow/pkg/window"
)

// LogFileName はウィンドウ/ターミナルモードのログファイル名
const LogFileName = "star-glow.log"

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	embedFS fs.FS
	stdin   io.Reader
	stdout  io.Writer
	logFile *os.File
}

// New Applicationを作成
// embedFS は stories/<locale>/ と soundfonts/ を含むファイルシステム
func New(embedFS fs.FS) *Application {
	return &Application{
		embedFS: embedFS,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
}

// WithIO ヘッドレスモードの入出力を差し替える
func (app *Application) WithIO(stdin io.Reader, stdout io.Writer) *Application {
	app.stdin = stdin
	app.stdout = stdout
	return app
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer app.closeLog()

	app.log.Info("Application started", "mode", app.mode())

	// 3. ストーリーパックの読み込みと選択
	pack, err := app.loadPack()
	if err != nil {
		return fmt.Errorf("failed to load story: %w", err)
	}
	app.log.Info("Story pack selected", "locale", pack.Locale, "title", pack.Title, "source", pack.Source)

	// 4. セーブデータの読み込み
	store, err := app.openStore()
	if err != nil {
		return fmt.Errorf("failed to open save data: %w", err)
	}

	// 5. 音声の初期化
	sys := app.openAudio()
	opts := []scene.Option{
		scene.WithVariant(story.Variant{Gratitude: app.config.Gratitude}),
	}
	if sys != nil {
		defer sys.Shutdown()
		opts = append(opts, scene.WithMusic(sys.Background(), sys.Gratitude()), scene.WithEffects(sys))
	}

	director := scene.NewDirector(store, pack, opts...)
	defer director.Close()

	// 6. フロントエンドの実行
	if err := app.runFrontEnd(director, sys, pack.Title); err != nil {
		return err
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

func (app *Application) mode() string {
	switch {
	case app.config.Headless:
		return "headless"
	case app.config.TUI:
		return "tui"
	}
	return "window"
}

// initLogger ロガーを初期化
// ヘッドレスモードは標準出力をゲームが使うので標準エラーへ、
// ターミナルモードは画面を壊さないようにログファイルへ出力する
func (app *Application) initLogger() error {
	var w io.Writer = os.Stdout
	switch {
	case app.config.Headless:
		w = os.Stderr
	case app.config.TUI:
		f, err := app.openLogFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			w = io.Discard
		} else {
			app.logFile = f
			w = f
		}
	}
	if err := logger.InitLoggerTo(app.config.LogLevel, w); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// openLogFile セーブディレクトリ（--no-save なら一時ディレクトリ）にログファイルを開く
func (app *Application) openLogFile() (*os.File, error) {
	dir := os.TempDir()
	if !app.config.NoSave {
		d, err := app.saveDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
}

func (app *Application) saveDir() (string, error) {
	if app.config.SaveDir != "" {
		return app.config.SaveDir, nil
	}
	return state.DefaultSaveDir()
}

// loadPack 埋め込みパックと外部パックを読み込み、ロケールに合うものを選ぶ
func (app *Application) loadPack() (*story.Pack, error) {
	reg, err := story.NewRegistry(app.embedFS)
	if err != nil {
		return nil, err
	}

	// 外部パックの読み込み（指定されている場合）
	if app.config.StoryDir != "" {
		if err := reg.LoadExternal(app.config.StoryDir); err != nil {
			return nil, fmt.Errorf("failed to load external story: %w", err)
		}
	}

	app.log.Debug("Story packs available", "locales", reg.Locales())
	return reg.Select(app.config.Locale)
}

// openStore ストレージを選んでストアを復元する
func (app *Application) openStore() (*state.Store, error) {
	var storage state.Storage
	if app.config.NoSave {
		app.log.Info("Save data disabled, progress is kept in memory")
		storage = state.NewMemoryStorage()
	} else {
		dir, err := app.saveDir()
		if err != nil {
			return nil, err
		}
		app.log.Info("Save directory", "path", dir)
		storage = state.NewFileStorage(dir)
	}

	store := state.NewStore(storage)
	store.Hydrate()
	if app.config.Reset {
		app.log.Info("Resetting saved progress")
		store.ResetGame()
	}
	return store, nil
}

// openAudio 音声システムを作成する
// ヘッドレスモードでは音を出さないので nil を返す
func (app *Application) openAudio() *audio.System {
	if app.config.Headless {
		return nil
	}

	cfg := audio.Config{
		MusicPath:          app.config.MusicPath,
		GratitudeMusicPath: app.config.GratitudeMusicPath,
		Muted:              app.config.Mute,
	}
	if loc := findSoundFont(app.embedFS, app.config.SoundFontPath); loc != nil {
		data, err := loc.Read()
		if err != nil {
			app.log.Warn("Failed to read SoundFont", "path", loc.Path, "error", err)
		} else {
			app.log.Info("SoundFont found", "path", loc.Path, "embedded", loc.IsEmbedded)
			cfg.SoundFont = data
		}
	} else {
		app.log.Debug("No SoundFont found, notes are synthesized")
	}
	return audio.NewSystem(cfg)
}

// runFrontEnd 設定に応じたフロントエンドでゲームを実行
// mixer はヘッドレスモード以外では nil にならない
func (app *Application) runFrontEnd(director *scene.Director, mixer *audio.System, title string) error {
	switch {
	case app.config.Headless:
		return window.RunHeadless(director, app.config.Timeout, app.stdin, app.stdout)
	case app.config.TUI:
		return terminal.Run(director, mixer, app.config.Timeout)
	}
	return window.Run(director, mixer, app.config.Timeout, title)
}
