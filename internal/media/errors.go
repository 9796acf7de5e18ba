package media

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"strings"
)

// NetworkError marks a transient transport failure worth retrying.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ExtractorError marks a failure inside the extraction/download capability.
type ExtractorError struct {
	Err error
}

func (e *ExtractorError) Error() string { return "extractor error: " + e.Err.Error() }
func (e *ExtractorError) Unwrap() error { return e.Err }

// FilesystemError marks a local I/O failure around the download.
type FilesystemError struct {
	Err error
}

func (e *FilesystemError) Error() string { return "filesystem error: " + e.Err.Error() }
func (e *FilesystemError) Unwrap() error { return e.Err }

// classify wraps an attempt failure into one of the typed session errors so
// the retry loop can inspect it. Context cancellation passes through
// unwrapped.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &NetworkError{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &NetworkError{Err: err}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &FilesystemError{Err: err}
	}
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Err: err}
	}

	// yt-dlp reports network trouble as plain stderr text.
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"timed out", "timeout", "connection reset", "connection refused", "temporary failure in name resolution"} {
		if strings.Contains(msg, hint) {
			return &NetworkError{Err: err}
		}
	}

	return &ExtractorError{Err: err}
}
