package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func writeTestFile(t *testing.T, path string, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}
}

func TestFindNewestMatch(t *testing.T) {
	tempDir := t.TempDir()
	now := time.Now()

	writeTestFile(t, filepath.Join(tempDir, "1 - My Video.mp4"), "old content", now.Add(-time.Hour))
	writeTestFile(t, filepath.Join(tempDir, "sub", "2 - My Video.mkv"), "newer and longer content", now)
	writeTestFile(t, filepath.Join(tempDir, "unrelated.mp4"), "x", now.Add(time.Hour))

	path, size, ok := FindNewestMatch(tempDir, []string{"My Video", "vid123"})
	if !ok {
		t.Fatal("Expected a match")
	}
	if filepath.Base(path) != "2 - My Video.mkv" {
		t.Errorf("Expected newest match, got %s", path)
	}
	if size != int64(len("newer and longer content")) {
		t.Errorf("Expected size %d, got %d", len("newer and longer content"), size)
	}
}

func TestFindNewestMatch_ByID(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, filepath.Join(tempDir, "clip [vid123].mp4"), "data", time.Now())

	path, _, ok := FindNewestMatch(tempDir, []string{"No Such Title", "vid123"})
	if !ok {
		t.Fatal("Expected a match by id")
	}
	if filepath.Base(path) != "clip [vid123].mp4" {
		t.Errorf("Unexpected match: %s", path)
	}
}

func TestFindNewestMatch_SkipsPartialFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, filepath.Join(tempDir, "My Video.mp4.part"), "partial", time.Now())

	if _, _, ok := FindNewestMatch(tempDir, []string{"My Video"}); ok {
		t.Error("Expected no match for partial files")
	}
}

func TestFindNewestMatch_NoMatch(t *testing.T) {
	tempDir := t.TempDir()

	if _, _, ok := FindNewestMatch(tempDir, []string{"anything"}); ok {
		t.Error("Expected no match in empty directory")
	}

	// Empty needles never match.
	writeTestFile(t, filepath.Join(tempDir, "file.mp4"), "x", time.Now())
	if _, _, ok := FindNewestMatch(tempDir, []string{"", ""}); ok {
		t.Error("Expected no match for empty needles")
	}
}

func TestFindVideoFiles(t *testing.T) {
	tempDir := t.TempDir()
	now := time.Now()

	writeTestFile(t, filepath.Join(tempDir, "a.mkv"), "x", now)
	writeTestFile(t, filepath.Join(tempDir, "nested", "b.MP4"), "x", now)
	writeTestFile(t, filepath.Join(tempDir, "notes.txt"), "x", now)

	files := FindVideoFiles(tempDir)
	if len(files) != 2 {
		t.Fatalf("Expected 2 video files, got %d: %v", len(files), files)
	}
}
