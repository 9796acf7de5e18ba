package history

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidfetch/vidfetch/internal/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.db"))
}

func sampleRecord(title string, status model.RecordStatus) model.Record {
	return model.Record{
		URL:          "https://example.com/watch?v=abc",
		Title:        title,
		Format:       "Video",
		Quality:      "best",
		Status:       status,
		DownloadDate: "2026-08-28 12:00:00",
		FileSize:     1024,
		DurationSec:  120,
		Platform:     "youtube",
		FilePath:     "/downloads/NA/1 - " + title + ".mkv",
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.EnsureSchema())
	require.NoError(t, store.EnsureSchema())
}

func TestInsertAndQuery(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Insert(sampleRecord("First", model.RecordCompleted)))
	require.NoError(t, store.Insert(sampleRecord("Second", model.RecordFailed)))

	records, err := store.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.NotZero(t, records[0].ID)
	assert.Equal(t, "youtube", records[0].Platform)
}

func TestQuery_MissingStore(t *testing.T) {
	store := tempStore(t)

	records, err := store.Query(Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestQuery_Filters(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Insert(sampleRecord("Cat Compilation", model.RecordCompleted)))
	require.NoError(t, store.Insert(sampleRecord("Dog Tricks", model.RecordFailed)))

	byTitle, err := store.Query(Filter{Title: "Cat"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Cat Compilation", byTitle[0].Title)

	byStatus, err := store.Query(Filter{Status: model.RecordFailed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Dog Tricks", byStatus[0].Title)

	byURL, err := store.Query(Filter{URL: "example.com"})
	require.NoError(t, err)
	assert.Len(t, byURL, 2)

	limited, err := store.Query(Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDelete(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Insert(sampleRecord("Keep", model.RecordCompleted)))
	require.NoError(t, store.Insert(sampleRecord("Drop", model.RecordCompleted)))

	records, err := store.Query(Filter{Title: "Drop"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, store.Delete([]int64{records[0].ID}))

	remaining, err := store.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Keep", remaining[0].Title)

	// Deleting nothing is a no-op.
	require.NoError(t, store.Delete(nil))
}

func TestClearAll(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Insert(sampleRecord("One", model.RecordCompleted)))
	require.NoError(t, store.Insert(sampleRecord("Two", model.RecordCompleted)))

	require.NoError(t, store.ClearAll())

	records, err := store.Query(Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClearAll_MissingStore(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.ClearAll())
}

func TestExportCSV(t *testing.T) {
	rec := sampleRecord("Exported", model.RecordCompleted)
	rec.ID = 7

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []model.Record{rec}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "download_date")
	assert.Contains(t, lines[1], "Exported")
	assert.Contains(t, lines[1], "Completed")
}
