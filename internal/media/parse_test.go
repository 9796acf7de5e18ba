package media

import (
	"errors"
	"testing"
)

const playlistJSON = `{
	"id": "PL123",
	"title": "Test Playlist",
	"extractor": "youtube:tab",
	"entries": [
		{"id": "vid1", "title": "First Video", "playlist": "Test Playlist", "duration": 61.5, "extractor": "youtube", "webpage_url": "https://youtube.com/watch?v=vid1"},
		{"id": "vid2", "title": "", "playlist": "Test Playlist", "extractor": "youtube"}
	]
}`

const singleJSON = `{
	"id": "solo1",
	"title": "Lone Clip",
	"duration": 30,
	"extractor": "vimeo",
	"webpage_url": "https://vimeo.com/solo1"
}`

func TestParseFetchResult_Playlist(t *testing.T) {
	result, err := parseFetchResult([]byte(playlistJSON))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Title != "Test Playlist" {
		t.Errorf("Expected title 'Test Playlist', got %q", result.Title)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(result.Entries))
	}

	first := result.Entries[0]
	if first.ID != "vid1" || first.Title != "First Video" {
		t.Errorf("Unexpected first entry: %+v", first)
	}
	if first.DurationSec != 61 {
		t.Errorf("Expected duration 61, got %d", first.DurationSec)
	}
	if first.Index != 1 || result.Entries[1].Index != 2 {
		t.Error("Entries should carry 1-based listing indexes")
	}
}

func TestParseFetchResult_SingleItem(t *testing.T) {
	result, err := parseFetchResult([]byte(singleJSON))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(result.Entries))
	}
	entry := result.Entries[0]
	if entry.ID != "solo1" || entry.Extractor != "vimeo" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
}

func TestParseFetchResult_Empty(t *testing.T) {
	_, err := parseFetchResult([]byte(`{"entries": []}`))
	if err == nil {
		t.Fatal("Expected error for empty entries")
	}

	var extractorErr *ExtractorError
	if !errors.As(err, &extractorErr) {
		t.Errorf("Expected ExtractorError, got %T", err)
	}
}

func TestParseFetchResult_Malformed(t *testing.T) {
	_, err := parseFetchResult([]byte(`not json`))
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestParseFormatChoices(t *testing.T) {
	data := `{"formats": [
		{"format_id": "1", "vcodec": "avc1", "height": 720},
		{"format_id": "2", "vcodec": "avc1", "height": 1080},
		{"format_id": "3", "vcodec": "none", "height": 0},
		{"format_id": "4", "vcodec": "vp9", "height": 720}
	]}`

	choices, err := parseFormatChoices([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(choices) != 3 {
		t.Fatalf("Expected 3 choices, got %d: %v", len(choices), choices)
	}
	if choices[0].Selector != "best" {
		t.Errorf("Expected 'best' first, got %q", choices[0].Selector)
	}
	if choices[1].Selector != "bestvideo[height<=1080]+bestaudio/best" {
		t.Errorf("Expected 1080p selector second, got %q", choices[1].Selector)
	}
	if choices[2].Label != "<= 720p (video+bestaudio)" {
		t.Errorf("Unexpected label: %q", choices[2].Label)
	}
}

func TestParseFormatChoices_NoHeights(t *testing.T) {
	choices, err := parseFormatChoices([]byte(`{"formats": [{"format_id": "a", "vcodec": "none"}]}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(choices) != 3 {
		t.Fatalf("Expected best/best/worst fallback, got %v", choices)
	}
	if choices[2].Selector != "worst" {
		t.Errorf("Expected 'worst' fallback, got %q", choices[2].Selector)
	}
}
