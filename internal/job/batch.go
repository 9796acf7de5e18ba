package job

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/media"
	"github.com/vidfetch/vidfetch/internal/platform"
)

// Output template for batch downloads: flat, truncated title plus id.
const batchOutputTemplate = "%(title).60s [%(id)s].%(ext)s"

// ParseURLList extracts http(s) URLs from a line-oriented reader, preserving
// order and skipping blank or non-URL lines.
func ParseURLList(r io.Reader) []string {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			urls = append(urls, line)
		}
	}
	return urls
}

// RunBatch downloads each URL once, sequentially, into the destination root.
// Individual failures are logged and counted; only an unusable destination
// aborts the batch.
func (r *Runner) RunBatch(ctx context.Context, urls []string, destDir, cookiesPath string, e *Emitter) error {
	if err := platform.CreateDirectoryIfNotExists(destDir); err != nil {
		return fmt.Errorf("cannot create download directory %s: %w", destDir, err)
	}

	total := len(urls)
	ok, fail := 0, 0
	for i, url := range urls {
		display := url
		if len(display) > 60 {
			display = display[:60]
		}
		e.ProgressText(fmt.Sprintf("Batch: %d/%d - %s", i+1, total, display))

		err := r.session.Download(ctx, media.DownloadOptions{
			URL:            url,
			OutputTemplate: batchOutputTemplate,
			Dir:            destDir,
			CookiesPath:    cookiesPath,
		})
		if err != nil {
			fail++
			log.WithFields(log.Fields{"url": url}).WithError(err).Error("batch download failed")
			continue
		}
		ok++
	}

	msg := fmt.Sprintf("Batch complete. Downloaded: %d, Failed: %d", ok, fail)
	if fail > 0 {
		e.Warn(msg + "\nCheck log for details.")
	} else {
		e.Finish(msg)
	}
	return nil
}
