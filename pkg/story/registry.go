package story

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zurustar/star-glow/pkg/fileutil"
	"github.com/zurustar/star-glow/pkg/logger"
	"golang.org/x/text/language"
)

const (
	// EmbeddedRoot is the directory of the embedded file system packs live under.
	EmbeddedRoot = "stories"
	// StoryFile is the narrative file of a pack directory.
	StoryFile = "story.yaml"
	// UIFile is the gettext catalogue of a pack directory.
	UIFile = "ui.po"
	// DefaultLocale is used when no pack matches the requested language.
	DefaultLocale = "en"
)

// Registry はストーリーパックの管理を行う
// 埋め込みパックを読み込み、外部ディレクトリのパックで同じロケールを上書きできる
type Registry struct {
	packs map[string]*Pack // ロケールタグ（正規化済み）→ パック
	log   *slog.Logger
}

// NewRegistry 埋め込みファイルシステムの stories/<locale>/ からパックを読み込む
// 埋め込みパックが壊れている場合はビルドの不具合なのでエラーを返す
func NewRegistry(embedFS fs.FS) (*Registry, error) {
	r := &Registry{
		packs: make(map[string]*Pack),
		log:   logger.GetLogger(),
	}
	if embedFS == nil {
		return r, nil
	}

	if _, err := fs.Stat(embedFS, EmbeddedRoot); err != nil {
		// stories ディレクトリが存在しない場合は何もしない
		return r, nil
	}

	fsys, err := fileutil.NewEmbedFS(embedFS, EmbeddedRoot)
	if err != nil {
		return nil, err
	}
	if _, err := r.loadAll(fsys); err != nil {
		return nil, fmt.Errorf("failed to load embedded story packs: %w", err)
	}
	return r, nil
}

// LoadExternal 外部ディレクトリからパックを読み込む
// dir 自体がパック（story.yaml を含む）でも、ロケール別サブディレクトリの親でもよい
func (r *Registry) LoadExternal(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: story directory does not exist: %s", ErrPackNotFound, dir)
		}
		return fmt.Errorf("failed to access story directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("story path is not a directory: %s", dir)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	fsys := fileutil.NewRealFS(absPath)

	// 単一パックのディレクトリ
	if fsys.Exists(StoryFile) {
		pack, err := loadPack(fsys, ".", filepath.Base(absPath))
		if err != nil {
			return err
		}
		r.add(pack)
		return nil
	}

	n, err := r.loadAll(fsys)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no %s found under %s", ErrPackNotFound, StoryFile, absPath)
	}
	return nil
}

// loadAll はサブディレクトリごとにパックを読み込み、読み込んだ数を返す
func (r *Registry) loadAll(fsys fileutil.FileSystem) (int, error) {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		return 0, fmt.Errorf("failed to list story packs: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !fsys.Exists(entry.Name() + "/" + StoryFile) {
			continue
		}
		pack, err := loadPack(fsys, entry.Name(), entry.Name())
		if err != nil {
			return n, err
		}
		r.add(pack)
		n++
	}
	return n, nil
}

// loadPack は dir の story.yaml と ui.po を読み込む
// story.yaml に locale がなければ dirLocale を使う
func loadPack(fsys fileutil.FileSystem, dir, dirLocale string) (*Pack, error) {
	storyPath := dir + "/" + StoryFile
	data, err := fsys.ReadFile(storyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", storyPath, err)
	}

	var uiData []byte
	uiPath := dir + "/" + UIFile
	if fsys.Exists(uiPath) {
		uiData, err = fsys.ReadFile(uiPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", uiPath, err)
		}
	}

	pack, err := ParsePack(data, uiData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", storyPath, err)
	}
	if pack.Locale == "" {
		pack.Locale = dirLocale
	}
	tag, err := language.Parse(pack.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad locale %q: %v", ErrInvalidPack, storyPath, pack.Locale, err)
	}
	pack.Locale = tag.String()
	pack.Source = filepath.Join(fsys.BasePath(), dir)
	return pack, nil
}

func (r *Registry) add(p *Pack) {
	if old, ok := r.packs[p.Locale]; ok {
		r.log.Info("Story pack overridden", "locale", p.Locale, "old", old.Source, "new", p.Source)
	} else {
		r.log.Debug("Story pack loaded", "locale", p.Locale, "source", p.Source)
	}
	r.packs[p.Locale] = p
}

// Locales 利用可能なロケール一覧を返す（既定ロケールが先頭、残りは辞書順）
func (r *Registry) Locales() []string {
	locales := make([]string, 0, len(r.packs))
	for l := range r.packs {
		locales = append(locales, l)
	}
	slices.SortFunc(locales, func(a, b string) int {
		switch {
		case a == DefaultLocale:
			return -1
		case b == DefaultLocale:
			return 1
		}
		return strings.Compare(a, b)
	})
	return locales
}

// Select 要求された言語に最も近いパックを選ぶ
// 一致するものがなければ既定ロケール（なければ先頭）のパックを返す
func (r *Registry) Select(locale string) (*Pack, error) {
	locales := r.Locales()
	if len(locales) == 0 {
		return nil, ErrPackNotFound
	}

	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = language.Make(l)
	}
	matcher := language.NewMatcher(tags)

	if locale == "" {
		return r.packs[locales[0]], nil
	}
	desired, err := language.Parse(locale)
	if err != nil {
		r.log.Warn("Unrecognized locale, using default", "locale", locale, "error", err)
		return r.packs[locales[0]], nil
	}

	_, index, confidence := matcher.Match(desired)
	if confidence == language.No {
		r.log.Info("No story pack for locale, using default", "locale", locale, "default", locales[0])
		return r.packs[locales[0]], nil
	}
	return r.packs[locales[index]], nil
}
