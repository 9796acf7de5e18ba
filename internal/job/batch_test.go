package job

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vidfetch/vidfetch/internal/history"
	"github.com/vidfetch/vidfetch/internal/media"
)

func TestParseURLList(t *testing.T) {
	input := strings.Join([]string{
		"https://example.com/watch?v=one",
		"",
		"# a comment line",
		"  https://example.com/watch?v=two  ",
		"not a url",
		"http://example.com/watch?v=three",
	}, "\n")

	urls := ParseURLList(strings.NewReader(input))
	expected := []string{
		"https://example.com/watch?v=one",
		"https://example.com/watch?v=two",
		"http://example.com/watch?v=three",
	}
	if len(urls) != len(expected) {
		t.Fatalf("ParseURLList returned %d urls, expected %d", len(urls), len(expected))
	}
	for i, url := range urls {
		if url != expected[i] {
			t.Errorf("urls[%d] = %q, expected %q", i, url, expected[i])
		}
	}
}

func TestParseURLList_Empty(t *testing.T) {
	urls := ParseURLList(strings.NewReader("no links here\n\n"))
	if len(urls) != 0 {
		t.Errorf("Expected no urls, got %v", urls)
	}
}

func TestRunBatch_AllSucceed(t *testing.T) {
	destDir := t.TempDir()
	session := &fakeSession{}
	runner := NewRunner(session, history.NewStore(filepath.Join(t.TempDir(), "history.db")))

	urls := []string{
		"https://example.com/watch?v=one",
		"https://example.com/watch?v=two",
	}
	bridge := NewBridge()
	j := bridge.Submit("batch", func(e *Emitter) error {
		return runner.RunBatch(context.Background(), urls, destDir, "", e)
	})
	events := collectEvents(t, j)

	calls := session.calls()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 download calls, got %d", len(calls))
	}
	for i, opts := range calls {
		if opts.URL != urls[i] {
			t.Errorf("calls[%d].URL = %q, expected %q", i, opts.URL, urls[i])
		}
		if opts.Dir != destDir {
			t.Errorf("calls[%d].Dir = %q, expected %q", i, opts.Dir, destDir)
		}
		if opts.OutputTemplate != batchOutputTemplate {
			t.Errorf("calls[%d].OutputTemplate = %q, expected %q", i, opts.OutputTemplate, batchOutputTemplate)
		}
	}

	terminals := terminalEvents(events)
	if len(terminals) != 1 || terminals[0].Kind != EventFinished {
		t.Fatalf("Expected a single Finished event, got %v", events)
	}
	if terminals[0].Text != "Batch complete. Downloaded: 2, Failed: 0" {
		t.Errorf("Unexpected summary: %q", terminals[0].Text)
	}
}

func TestRunBatch_FailuresDoNotAbort(t *testing.T) {
	destDir := t.TempDir()
	session := &fakeSession{
		onDownload: func(opts media.DownloadOptions) error {
			if strings.Contains(opts.URL, "bad") {
				return errors.New("unavailable")
			}
			return nil
		},
	}
	runner := NewRunner(session, history.NewStore(filepath.Join(t.TempDir(), "history.db")))

	urls := []string{
		"https://example.com/watch?v=good1",
		"https://example.com/watch?v=bad",
		"https://example.com/watch?v=good2",
	}
	bridge := NewBridge()
	j := bridge.Submit("batch", func(e *Emitter) error {
		return runner.RunBatch(context.Background(), urls, destDir, "", e)
	})
	events := collectEvents(t, j)

	if got := len(session.calls()); got != 3 {
		t.Fatalf("Expected 3 download calls, got %d", got)
	}

	terminals := terminalEvents(events)
	if len(terminals) != 1 || terminals[0].Kind != EventWarning {
		t.Fatalf("Expected a single Warning event, got %v", events)
	}
	if !strings.Contains(terminals[0].Text, "Downloaded: 2, Failed: 1") {
		t.Errorf("Unexpected summary: %q", terminals[0].Text)
	}
}
