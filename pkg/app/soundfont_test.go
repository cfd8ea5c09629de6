package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestFindSoundFont_ExternalFile(t *testing.T) {
	// Create a temporary directory with a SoundFont file
	tmpDir := t.TempDir()
	sfPath := filepath.Join(tmpDir, DefaultSoundFontName)

	// Create a dummy SoundFont file
	if err := os.WriteFile(sfPath, []byte("RIFF....sfbk"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Change to temp directory for the test
	t.Chdir(tmpDir)

	t.Run("finds SoundFont in current directory", func(t *testing.T) {
		result := findSoundFont(fstest.MapFS{}, "")
		if result == nil {
			t.Fatal("Expected to find SoundFont in current directory")
		}
		if result.IsEmbedded {
			t.Error("Expected external file, got embedded")
		}
		if result.FileSystem != nil {
			t.Error("Expected nil FileSystem for external file")
		}
		if result.Path != DefaultSoundFontName {
			t.Errorf("Expected path %s, got %s", DefaultSoundFontName, result.Path)
		}
	})
}

func TestFindSoundFont_CaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "generaluser-gs.SF2"), []byte("RIFF"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	t.Chdir(tmpDir)

	result := findSoundFont(nil, "")
	if result == nil {
		t.Fatal("Expected to find SoundFont regardless of case")
	}
	if result.Path != "generaluser-gs.SF2" {
		t.Errorf("Expected the actual file name, got %s", result.Path)
	}
}

func TestFindSoundFont_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	sfPath := filepath.Join(tmpDir, "custom.sf2")
	if err := os.WriteFile(sfPath, []byte("RIFF-custom"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	embedded := fstest.MapFS{"soundfonts/" + DefaultSoundFontName: {Data: []byte("RIFF-embedded")}}
	result := findSoundFont(embedded, sfPath)
	if result == nil {
		t.Fatal("Expected to find the explicit SoundFont")
	}
	if result.Path != sfPath || result.IsEmbedded {
		t.Errorf("Expected %s (external), got %+v", sfPath, result)
	}

	data, err := result.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "RIFF-custom" {
		t.Errorf("Read = %q", data)
	}
}

func TestFindSoundFont_Embedded(t *testing.T) {
	t.Chdir(t.TempDir())
	embedded := fstest.MapFS{"soundfonts/" + DefaultSoundFontName: {Data: []byte("RIFF-embedded")}}

	t.Run("missing explicit path falls back to embedded", func(t *testing.T) {
		result := findSoundFont(embedded, "/nonexistent/custom.sf2")
		if result == nil {
			t.Fatal("Expected to find embedded SoundFont")
		}
		if !result.IsEmbedded || result.FileSystem == nil {
			t.Errorf("Expected embedded location, got %+v", result)
		}
		data, err := result.Read()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != "RIFF-embedded" {
			t.Errorf("Read = %q", data)
		}
	})
}

func TestFindSoundFont_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, DefaultSoundFontName), []byte("RIFF-current"), 0644)
	t.Chdir(tmpDir)

	t.Run("embedded has priority over current directory", func(t *testing.T) {
		embedded := fstest.MapFS{"soundfonts/" + DefaultSoundFontName: {Data: []byte("RIFF-embedded")}}
		result := findSoundFont(embedded, "")
		if result == nil || !result.IsEmbedded {
			t.Fatalf("Expected embedded SoundFont, got %+v", result)
		}
	})

	t.Run("empty embedded file is skipped", func(t *testing.T) {
		embedded := fstest.MapFS{"soundfonts/" + DefaultSoundFontName: {Data: nil}}
		result := findSoundFont(embedded, "")
		if result == nil || result.IsEmbedded {
			t.Fatalf("Expected current directory SoundFont, got %+v", result)
		}
	})
}

func TestFindSoundFont_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("returns nil when no SoundFont found", func(t *testing.T) {
		result := findSoundFont(fstest.MapFS{}, "/nonexistent/path.sf2")
		if result != nil {
			t.Error("Expected nil when no SoundFont found")
		}
	})
}
