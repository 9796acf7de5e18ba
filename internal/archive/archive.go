// Package archive implements the flat-file membership check used to detect
// previously downloaded items. The file is written by the media session
// (one identifier per line); this package only reads it.
package archive

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the archive file created under the active download root.
const DefaultFileName = "downloaded_videos.txt"

// Archive wraps the path of a flat UTF-8 archive file.
type Archive struct {
	Path string
}

// New returns an Archive for the given file path.
func New(path string) Archive {
	return Archive{Path: path}
}

// ForDir returns the archive conventionally located under a download root.
func ForDir(dir string) Archive {
	return Archive{Path: filepath.Join(dir, DefaultFileName)}
}

// Contains reports whether id was recorded as downloaded. The check is
// substring containment over the whole file, so an id that is a substring of
// another can produce a false positive. Any failure (missing file, read
// error) and the empty id report false: a redundant download is preferred
// over a crash or a wrongly skipped one.
func (a Archive) Contains(id string) bool {
	if id == "" || a.Path == "" {
		return false
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), id)
}
