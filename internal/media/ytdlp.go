package media

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// Progress callback interval for yt-dlp.
const progressInterval = 500 * time.Millisecond

// Browser-like user agent, some extractors reject the default one.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// YTDLPSession implements Session on top of the yt-dlp CLI wrapper.
type YTDLPSession struct{}

// NewYTDLPSession returns the production media session.
func NewYTDLPSession() *YTDLPSession {
	return &YTDLPSession{}
}

// Fetch extracts flat metadata for a URL and returns the discovered entries.
func (s *YTDLPSession) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	dl := ytdlp.New().
		SkipDownload().
		FlatPlaylist().
		DumpSingleJSON().
		UserAgent(userAgent)
	if opts.CookiesPath != "" {
		dl = dl.Cookies(opts.CookiesPath)
	}

	result, err := dl.Run(ctx, opts.URL)
	if err != nil {
		return nil, classify(err)
	}
	return parseFetchResult([]byte(result.Stdout))
}

// Formats lists quality choices for one entry of a fetched URL.
func (s *YTDLPSession) Formats(ctx context.Context, opts FormatOptions) ([]FormatChoice, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		UserAgent(userAgent)
	if opts.CookiesPath != "" {
		dl = dl.Cookies(opts.CookiesPath)
	}
	if opts.PlaylistItem > 0 {
		dl = dl.PlaylistItems(strconv.Itoa(opts.PlaylistItem))
	}

	result, err := dl.Run(ctx, opts.URL)
	if err != nil {
		return nil, classify(err)
	}
	return parseFormatChoices([]byte(result.Stdout))
}

// Download performs one download attempt with the given typed options.
func (s *YTDLPSession) Download(ctx context.Context, opts DownloadOptions) error {
	dl := ytdlp.New().UserAgent(userAgent)

	template := opts.OutputTemplate
	if opts.Dir != "" {
		template = filepath.Join(opts.Dir, template)
	}
	if template != "" {
		dl = dl.Output(template)
	}
	if opts.Format != "" {
		dl = dl.Format(opts.Format)
	}
	if opts.CookiesPath != "" {
		dl = dl.Cookies(opts.CookiesPath)
	}
	if opts.ArchivePath != "" {
		dl = dl.DownloadArchive(opts.ArchivePath)
	}
	if opts.PlaylistItem > 0 {
		dl = dl.PlaylistItems(strconv.Itoa(opts.PlaylistItem))
	}
	if opts.Retries > 0 {
		dl = dl.Retries(strconv.Itoa(opts.Retries))
	}
	if opts.FragmentRetries > 0 {
		dl = dl.FragmentRetries(strconv.Itoa(opts.FragmentRetries))
	}
	if opts.ConcurrentFragments > 0 {
		dl = dl.ConcurrentFragments(opts.ConcurrentFragments)
	}
	if opts.Referer != "" {
		dl = dl.Referer(opts.Referer)
	}
	if opts.SkipDownload {
		dl = dl.SkipDownload()
	}
	if opts.IgnoreErrors {
		dl = dl.IgnoreErrors()
	}

	switch opts.PostProcess.Kind {
	case PostProcessRemux:
		dl = dl.RemuxVideo(opts.PostProcess.Container)
	case PostProcessExtractAudio:
		dl = dl.ExtractAudio().
			AudioFormat(opts.PostProcess.Codec).
			AudioQuality(opts.PostProcess.Quality)
	case PostProcessSubtitles:
		dl = dl.WriteSubs().
			WriteAutoSubs().
			SubLangs(opts.PostProcess.SubLang).
			SubFormat(opts.PostProcess.SubFormat).
			SkipDownload()
	}

	if opts.Progress != nil {
		progress := opts.Progress
		dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			progress(translateProgress(update))
		})
	}

	_, err := dl.Run(ctx, opts.URL)
	return classify(err)
}

// translateProgress reduces a yt-dlp progress payload to the fields the
// runner consumes. Malformed or unavailable totals yield percent 0.
func translateProgress(update ytdlp.ProgressUpdate) ProgressUpdate {
	var out ProgressUpdate
	if update.TotalBytes > 0 {
		percent := int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		out.Percent = percent
		out.Finished = update.DownloadedBytes >= update.TotalBytes
	}
	if update.Info != nil {
		if update.Info.Filename != nil {
			out.Filename = *update.Info.Filename
		}
		if update.Info.Title != nil {
			out.Title = *update.Info.Title
		}
	}
	return out
}
