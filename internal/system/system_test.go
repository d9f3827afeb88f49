package system

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"scene1.mp3", "scene2.MP3", "notes.txt", "scene3.wav"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, mod, mod)
	}

	got, err := FindLatest(dir, ".mp3")
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if filepath.Base(got) != "scene2.MP3" {
		t.Errorf("Expected scene2.MP3, got %s", got)
	}

	if _, err := FindLatest(dir, ".flac"); err == nil {
		t.Error("Expected error when nothing matches")
	}
}

func TestFindLatestNamed(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "480p15", "Scene1_Title.mp4")
	newer := filepath.Join(root, "1080p60", "Scene1_Title.mp4")
	for i, path := range []string{older, newer} {
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, mod, mod)
	}

	got, err := FindLatestNamed(root, "Scene1_Title.mp4")
	if err != nil {
		t.Fatalf("FindLatestNamed failed: %v", err)
	}
	if got != newer {
		t.Errorf("Expected %s, got %s", newer, got)
	}
	if _, err := FindLatestNamed(root, "Scene9.mp4"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n < 1 {
		t.Errorf("DefaultWorkers() = %d, want >= 1", n)
	}
}

func TestStats(t *testing.T) {
	s := NewStats("test")
	s.Scenes = 7

	if err := s.Track("Validation", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := s.Track("Narration", func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Track should return fn error, got %v", err)
	}

	var buf bytes.Buffer
	s.Write(&buf)
	out := buf.String()
	for _, want := range []string{"Build: test", "Scenes: 7", "Validation:", "Narration:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}

	logPath := filepath.Join(t.TempDir(), "benchmark.log")
	if err := s.AppendLog(logPath); err != nil {
		t.Fatalf("AppendLog failed: %v", err)
	}
	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "Scenes: 7") {
		t.Errorf("Unexpected log line: %s", data)
	}
}
