package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/zurustar/star-glow/pkg/fileutil"
)

// loopSource is a decoded music stream that knows its length in bytes.
type loopSource interface {
	io.ReadSeeker
	Length() int64
}

// readMusic reads a music file. The name is matched case-insensitively when the
// exact path does not exist.
func readMusic(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read music file: %w", err)
	}
	actual, ferr := fileutil.FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
	if ferr != nil {
		return nil, fmt.Errorf("%w: %s", ErrMusicNotFound, path)
	}
	data, err = os.ReadFile(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to read music file: %w", err)
	}
	return data, nil
}

// decodeMusic decodes mp3 or wav data, chosen by the file extension.
func decodeMusic(path string, data []byte) (loopSource, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(SampleRate, r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode mp3 %s: %w", path, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithSampleRate(SampleRate, r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode wav %s: %w", path, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// loadMusic reads and decodes a music file.
func loadMusic(path string) (loopSource, error) {
	data, err := readMusic(path)
	if err != nil {
		return nil, err
	}
	return decodeMusic(path, data)
}
