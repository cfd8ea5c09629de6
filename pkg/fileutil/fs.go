package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileSystem は実ファイルシステムと埋め込みファイルシステムを統一的に扱うインターフェース
type FileSystem interface {
	// ReadFile はファイルの内容を読み込む（大文字小文字を無視）
	ReadFile(name string) ([]byte, error)
	// ReadDir はディレクトリの内容を読み込む
	ReadDir(name string) ([]fs.DirEntry, error)
	// Exists はファイルが存在するかどうかを返す（大文字小文字を無視）
	Exists(name string) bool
	// BasePath はベースパスを返す
	BasePath() string
	// IsEmbedded は埋め込みファイルシステムかどうかを返す
	IsEmbedded() bool
}

// dirFS は fs.FS の部分木を FileSystem として扱う
type dirFS struct {
	fsys     fs.FS
	basePath string
	embedded bool
}

// NewRealFS は実ディレクトリ basePath を根とする FileSystem を作成する
func NewRealFS(basePath string) FileSystem {
	return &dirFS{fsys: os.DirFS(basePath), basePath: basePath}
}

// NewEmbedFS は埋め込みファイルシステムの basePath 以下を根とする FileSystem を作成する
func NewEmbedFS(fsys fs.FS, basePath string) (FileSystem, error) {
	sub := fsys
	if basePath != "" && basePath != "." {
		var err error
		sub, err = fs.Sub(fsys, basePath)
		if err != nil {
			return nil, fmt.Errorf("invalid embedded base path %q: %w", basePath, err)
		}
	}
	return &dirFS{fsys: sub, basePath: basePath, embedded: true}, nil
}

func (d *dirFS) ReadFile(name string) ([]byte, error) {
	actual, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(d.fsys, actual)
}

func (d *dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(d.fsys, cleanName(name))
}

func (d *dirFS) Exists(name string) bool {
	_, err := d.resolve(name)
	return err == nil
}

func (d *dirFS) BasePath() string {
	return d.basePath
}

func (d *dirFS) IsEmbedded() bool {
	return d.embedded
}

// resolve は name を実際のパスに解決する
func (d *dirFS) resolve(name string) (string, error) {
	clean := cleanName(name)

	// まず直接アクセスを試みる
	if info, err := fs.Stat(d.fsys, clean); err == nil && !info.IsDir() {
		return clean, nil
	}

	// 大文字小文字を無視して検索
	return FindFileCaseInsensitiveFS(d.fsys, path.Dir(clean), path.Base(clean))
}

// cleanName は先頭の "/" や "\" を除去し、fs.FS 用のパスに正規化する
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}
