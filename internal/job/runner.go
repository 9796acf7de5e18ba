package job

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/archive"
	"github.com/vidfetch/vidfetch/internal/history"
	"github.com/vidfetch/vidfetch/internal/media"
	"github.com/vidfetch/vidfetch/internal/model"
	"github.com/vidfetch/vidfetch/internal/platform"
)

// Retry policy: per-entry attempts are bounded, the media session gets its
// own internal retry hints on top.
const (
	MaxAttempts              = 5
	sessionRetries           = 10
	sessionFragmentRetries   = 10
	sessionConcurrentFragments = 3
)

// Fixed output policy per mode.
const (
	videoContainer      = "mkv"
	audioCodec          = "mp3"
	audioQuality        = "192"
	captionsFormat      = "vtt"
	captionsSubdir      = "captions"
	DefaultCaptionsLang = "en"
)

// Runner converts a DownloadRequest into sequential per-entry download
// attempts with durable history records, streaming progress through an
// Emitter. One Runner is shared by all jobs; it holds no per-job state.
type Runner struct {
	session media.Session
	store   *history.Store
}

// NewRunner wires the runner to its collaborators.
func NewRunner(session media.Session, store *history.Store) *Runner {
	return &Runner{session: session, store: store}
}

// Run processes the request. It returns an error only for whole-job fatal
// conditions (the bridge turns that into the terminal Error event);
// per-entry failures are absorbed into the Warning summary.
func (r *Runner) Run(ctx context.Context, req model.DownloadRequest, e *Emitter) error {
	if len(req.Entries) == 0 && req.Mode != model.ModeCaptions {
		return errors.New("no entries selected")
	}
	if err := platform.CreateDirectoryIfNotExists(req.DestDir); err != nil {
		return fmt.Errorf("cannot create download directory %s: %w", req.DestDir, err)
	}

	if req.Mode == model.ModeCaptions {
		return r.runCaptions(ctx, req, e)
	}
	return r.runEntries(ctx, req, e)
}

// runCaptions issues a single aggregate request for the whole job instead of
// one per entry.
func (r *Runner) runCaptions(ctx context.Context, req model.DownloadRequest, e *Emitter) error {
	lang := req.CaptionsLang
	if lang == "" {
		lang = DefaultCaptionsLang
	}
	targetDir := filepath.Join(req.DestDir, captionsSubdir)
	if err := platform.CreateDirectoryIfNotExists(targetDir); err != nil {
		return fmt.Errorf("cannot create captions directory %s: %w", targetDir, err)
	}

	e.ProgressText("Downloading captions...")
	err := r.session.Download(ctx, media.DownloadOptions{
		URL:            req.URL,
		OutputTemplate: "%(title)s.%(ext)s",
		Dir:            targetDir,
		CookiesPath:    req.CookiesPath,
		PostProcess:    media.WriteSubtitles(captionsFormat, lang),
		SkipDownload:   true,
		IgnoreErrors:   true,
	})
	if err != nil {
		log.WithFields(log.Fields{"url": req.URL, "lang": lang}).WithError(err).Error("captions download failed")
		return fmt.Errorf("failed to download captions: %w", err)
	}

	e.Finish(fmt.Sprintf("Captions downloaded to:\n%s", targetDir))
	return nil
}

// runEntries drives the sequential per-entry loop for video/audio jobs.
func (r *Runner) runEntries(ctx context.Context, req model.DownloadRequest, e *Emitter) error {
	arch := archive.ForDir(req.DestDir)
	total := len(req.Entries)
	success, failure := 0, 0

	for offset, entry := range req.Entries {
		title := platform.SanitizeFilename(entry.DisplayTitle())

		subdir := platform.SanitizeFilename(entry.PlaylistLabel())
		if subdir == "" {
			subdir = model.DefaultPlaylistLabel
		}
		targetDir := filepath.Join(req.DestDir, subdir)
		if err := platform.CreateDirectoryIfNotExists(targetDir); err != nil {
			return fmt.Errorf("cannot create destination directory %s: %w", targetDir, err)
		}

		// An already-archived id must not be recorded twice; the download
		// itself still proceeds.
		archivePath := arch.Path
		if entry.ID != "" && arch.Contains(entry.ID) {
			archivePath = ""
		}

		opts := media.DownloadOptions{
			URL:                 req.URL,
			Format:              req.Quality,
			OutputTemplate:      fmt.Sprintf("%%(playlist_index|NA)s - %s.%%(ext)s", title),
			Dir:                 targetDir,
			CookiesPath:         req.CookiesPath,
			ArchivePath:         archivePath,
			PlaylistItem:        entry.Index,
			Retries:             sessionRetries,
			FragmentRetries:     sessionFragmentRetries,
			ConcurrentFragments: sessionConcurrentFragments,
			Referer:             req.URL,
			PostProcess:         postProcessFor(req.Mode),
			Progress:            progressRelay(e),
		}

		status := model.RecordCompleted
		if r.downloadWithRetry(ctx, opts, title, offset+1, total, e) {
			success++
		} else {
			failure++
			status = model.RecordFailed
		}
		e.Counts(success, failure)

		r.writeRecord(req, entry, title, targetDir, status)
	}

	if failure == 0 {
		e.Finish(fmt.Sprintf("All %d items downloaded successfully.", success))
	} else {
		e.Warn(fmt.Sprintf("Downloaded %d items with %d error(s). Check logs.", success, failure))
	}
	return nil
}

// downloadWithRetry performs up to MaxAttempts attempts for one entry and
// reports whether it ultimately succeeded.
func (r *Runner) downloadWithRetry(ctx context.Context, opts media.DownloadOptions, title string, position, total int, e *Emitter) bool {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		e.ProgressValue(0)
		e.ProgressText(fmt.Sprintf("Starting: %s (%d/%d)", title, position, total))

		err := r.session.Download(ctx, opts)
		if err == nil {
			return true
		}

		log.WithFields(log.Fields{
			"title":   title,
			"attempt": attempt,
			"max":     MaxAttempts,
		}).WithError(err).Error("download attempt failed")
		e.ProgressText(fmt.Sprintf("Error: %s (attempt %d/%d)", title, attempt, MaxAttempts))
	}
	return false
}

// writeRecord persists the terminal outcome of one entry, attaching the
// discovered output file when there is one. Failures are logged and
// swallowed: the audit trail never aborts the loop.
func (r *Runner) writeRecord(req model.DownloadRequest, entry model.MediaEntry, safeTitle, targetDir string, status model.RecordStatus) {
	rec := model.Record{
		URL:          req.URL,
		Title:        entry.DisplayTitle(),
		Format:       string(req.Mode),
		Quality:      req.Quality,
		Status:       status,
		DownloadDate: time.Now().Format(model.RecordTimeLayout),
		DurationSec:  entry.DurationSec,
		Platform:     entry.Platform(),
	}

	// The session does not reliably report the final on-disk path,
	// especially after remux/extract renames the extension.
	if path, size, ok := platform.FindNewestMatch(targetDir, []string{safeTitle, entry.ID}); ok {
		rec.FilePath = path
		rec.FileSize = size
	}

	if err := r.store.Insert(rec); err != nil {
		log.WithFields(log.Fields{"title": rec.Title, "status": rec.Status}).WithError(err).Warn("failed to write history record")
	}
}

// progressRelay converts session progress callbacks into the UI event pair.
func progressRelay(e *Emitter) media.ProgressFunc {
	return func(update media.ProgressUpdate) {
		if update.Finished {
			name := update.Filename
			if name == "" {
				name = update.Title
			}
			e.ProgressText(fmt.Sprintf("Finished: %s", name))
			e.ProgressValue(100)
			return
		}
		e.ProgressText(fmt.Sprintf("Downloading: %d%%", update.Percent))
		e.ProgressValue(update.Percent)
	}
}

func postProcessFor(mode model.Mode) media.PostProcess {
	if mode == model.ModeAudio {
		return media.ExtractAudio(audioCodec, audioQuality)
	}
	return media.RemuxToContainer(videoContainer)
}
