package platform

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Extensions of partial/helper files that must never be attributed to a
// finished download.
var skippedExtensions = []string{".part", ".ytdl", ".tmp"}

// videoExtensions recognized by folder scanning.
var videoExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the user's Downloads directory
func GetHomeDownloadsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads"), nil
}

// FindNewestMatch scans root recursively for the most recently modified file
// whose base name contains any of the given non-empty needles. It returns the
// path and size of the match, or ok=false when nothing matches or the scan
// fails. Two entries with similar titles finishing close together can be
// attributed to the wrong match; the newest-mtime tie-break is the documented
// policy.
func FindNewestMatch(root string, needles []string) (path string, size int64, ok bool) {
	var bestTime time.Time

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree, keep scanning the rest.
			return nil
		}
		if d.IsDir() || isSkippedFile(d.Name()) {
			return nil
		}
		if !nameContainsAny(d.Name(), needles) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !ok || info.ModTime().After(bestTime) {
			path = p
			size = info.Size()
			bestTime = info.ModTime()
			ok = true
		}
		return nil
	})
	if walkErr != nil {
		return "", 0, false
	}
	return path, size, ok
}

// FindVideoFiles walks folder recursively and returns paths of files with a
// known video extension.
func FindVideoFiles(folder string) []string {
	var matches []string
	filepath.WalkDir(folder, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		lower := strings.ToLower(d.Name())
		for _, ext := range videoExtensions {
			if strings.HasSuffix(lower, ext) {
				matches = append(matches, p)
				break
			}
		}
		return nil
	})
	return matches
}

func isSkippedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func nameContainsAny(name string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(name, n) {
			return true
		}
	}
	return false
}
