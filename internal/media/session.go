// Package media wraps the external extraction/download capability behind a
// typed interface. The job runner depends only on Session; the production
// implementation shells out to yt-dlp via github.com/lrstanley/go-ytdlp.
package media

import (
	"context"

	"github.com/vidfetch/vidfetch/internal/model"
)

// ProgressUpdate is one progress callback payload, already reduced to what
// the UI renders.
type ProgressUpdate struct {
	Percent  int  // 0..100, 0 when unknown
	Finished bool // terminal per-item callback
	Filename string
	Title    string
}

// ProgressFunc receives zero or more updates during a download.
type ProgressFunc func(ProgressUpdate)

// PostProcessKind enumerates the supported post-download transformations.
type PostProcessKind int

const (
	PostProcessNone PostProcessKind = iota
	PostProcessRemux
	PostProcessExtractAudio
	PostProcessSubtitles
)

// PostProcess is a typed post-processing directive.
type PostProcess struct {
	Kind      PostProcessKind
	Container string // remux target, e.g. "mkv"
	Codec     string // audio codec, e.g. "mp3"
	Quality   string // audio quality, e.g. "192"
	SubFormat string // subtitle format, e.g. "vtt"
	SubLang   string // subtitle language code
}

// RemuxToContainer requests a container change without re-encoding.
func RemuxToContainer(container string) PostProcess {
	return PostProcess{Kind: PostProcessRemux, Container: container}
}

// ExtractAudio requests audio-only extraction to a compressed codec.
func ExtractAudio(codec, quality string) PostProcess {
	return PostProcess{Kind: PostProcessExtractAudio, Codec: codec, Quality: quality}
}

// WriteSubtitles requests subtitle files instead of media.
func WriteSubtitles(format, lang string) PostProcess {
	return PostProcess{Kind: PostProcessSubtitles, SubFormat: format, SubLang: lang}
}

// FetchOptions configure a metadata fetch.
type FetchOptions struct {
	URL         string
	CookiesPath string
}

// FetchResult is the outcome of a metadata fetch.
type FetchResult struct {
	Title   string
	Entries []model.MediaEntry
}

// FormatOptions configure a format listing for one entry.
type FormatOptions struct {
	URL          string
	CookiesPath  string
	PlaylistItem int // 1-based, 0 for single items
}

// FormatChoice pairs a yt-dlp format selector with a display label.
type FormatChoice struct {
	Selector string
	Label    string
}

// DownloadOptions configure a single download attempt.
type DownloadOptions struct {
	URL                 string
	Format              string // selector expression, empty for default
	OutputTemplate      string // yt-dlp output template, relative to Dir
	Dir                 string
	CookiesPath         string
	ArchivePath         string // empty disables archive recording
	PlaylistItem        int    // 1-based, 0 for single items
	Retries             int
	FragmentRetries     int
	ConcurrentFragments int
	Referer             string
	PostProcess         PostProcess
	SkipDownload        bool
	IgnoreErrors        bool
	Progress            ProgressFunc
}

// Session is the capability surface the job runner consumes. Errors returned
// by Download are classified as NetworkError, ExtractorError or
// FilesystemError.
type Session interface {
	Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	Formats(ctx context.Context, opts FormatOptions) ([]FormatChoice, error)
	Download(ctx context.Context, opts DownloadOptions) error
}
