package cartridge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"course.imscc", CourseCartridge},
		{"COURSE.IMSCC", CourseCartridge},
		{"export.zip", Archive},
		{"notes.txt", Unknown},
		{"noextension", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromReader(t *testing.T) {
	open := func(t *testing.T, path string) (*os.File, int64) {
		t.Helper()
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", path, err)
		}
		t.Cleanup(func() { f.Close() })
		info, err := f.Stat()
		if err != nil {
			t.Fatalf("Failed to stat %s: %v", path, err)
		}
		return f, info.Size()
	}

	t.Run("cartridge", func(t *testing.T) {
		f, size := open(t, createTestCartridge(t, testManifest, nil))
		got, err := DetectFromReader(f, size)
		if err != nil {
			t.Fatalf("DetectFromReader failed: %v", err)
		}
		if got != CourseCartridge {
			t.Errorf("got %v, want CourseCartridge", got)
		}
	})

	t.Run("plain zip", func(t *testing.T) {
		f, size := open(t, createTestCartridge(t, "", map[string][]byte{"readme.txt": []byte("hi")}))
		got, err := DetectFromReader(f, size)
		if err != nil {
			t.Fatalf("DetectFromReader failed: %v", err)
		}
		if got != Archive {
			t.Errorf("got %v, want Archive", got)
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.txt")
		if err := os.WriteFile(path, []byte("just text, no magic"), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		f, size := open(t, path)
		got, err := DetectFromReader(f, size)
		if err != nil {
			t.Fatalf("DetectFromReader failed: %v", err)
		}
		if got != Unknown {
			t.Errorf("got %v, want Unknown", got)
		}
	})

	t.Run("format strings", func(t *testing.T) {
		if Unknown.String() != "Unknown" || Archive.String() != "Archive" || CourseCartridge.String() != "CourseCartridge" {
			t.Error("unexpected Format string values")
		}
		if CourseCartridge.Extension() != ".imscc" {
			t.Errorf("CourseCartridge.Extension() = %q", CourseCartridge.Extension())
		}
	})
}
