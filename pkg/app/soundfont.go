package app

import (
	"io/fs"
	"os"

	"github.com/zurustar/star-glow/pkg/fileutil"
	"github.com/zurustar/star-glow/pkg/logger"
)

// SoundFontLocation represents the location of a SoundFont file.
type SoundFontLocation struct {
	// Path is the path to the SoundFont file
	Path string
	// FileSystem is the FileSystem to use for loading (nil for external files)
	FileSystem fileutil.FileSystem
	// IsEmbedded indicates whether the SoundFont is embedded
	IsEmbedded bool
}

// DefaultSoundFontName is the default SoundFont filename to search for.
const DefaultSoundFontName = "GeneralUser-GS.sf2"

// soundFontDir is the embedded directory SoundFonts are bundled under.
const soundFontDir = "soundfonts"

// findSoundFont searches for a SoundFont file in the following order:
//  1. The file given with --soundfont
//  2. Embedded soundfonts directory
//  3. Current directory (external, case-insensitive)
//
// It returns nil when none is found; the rhythm notes are then synthesized.
func findSoundFont(embedFS fs.FS, explicitPath string) *SoundFontLocation {
	// 1. 明示的に指定されたファイル
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err == nil {
			return &SoundFontLocation{Path: explicitPath}
		}
		logger.GetLogger().Warn("SoundFont not found, searching defaults", "path", explicitPath)
	}

	// 2. 埋め込みの soundfonts ディレクトリ
	if embedFS != nil {
		if data, err := fs.ReadFile(embedFS, soundFontDir+"/"+DefaultSoundFontName); err == nil && len(data) > 0 {
			if fsys, err := fileutil.NewEmbedFS(embedFS, soundFontDir); err == nil {
				return &SoundFontLocation{
					Path:       DefaultSoundFontName, // FileSystemのベースパスが"soundfonts"なので、ファイル名だけ
					FileSystem: fsys,
					IsEmbedded: true,
				}
			}
		}
	}

	// 3. カレントディレクトリ
	if path, err := fileutil.FindFileCaseInsensitive(".", DefaultSoundFontName); err == nil {
		return &SoundFontLocation{Path: path}
	}

	return nil
}

// Read returns the contents of the SoundFont.
func (l *SoundFontLocation) Read() ([]byte, error) {
	if l.FileSystem != nil {
		return l.FileSystem.ReadFile(l.Path)
	}
	return os.ReadFile(l.Path)
}
