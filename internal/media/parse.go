package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/vidfetch/vidfetch/internal/model"
)

// infoJSON mirrors the subset of the yt-dlp info dict the app consumes.
type infoJSON struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Playlist   string     `json:"playlist"`
	Duration   float64    `json:"duration"`
	Extractor  string     `json:"extractor"`
	WebpageURL string     `json:"webpage_url"`
	Entries    []infoJSON `json:"entries"`
	Formats    []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID string `json:"format_id"`
	VCodec   string `json:"vcodec"`
	Height   int    `json:"height"`
}

// parseFetchResult converts a single-JSON dump into entries. Playlists and
// multi-entry post pages expand to their entries; a single media item yields
// one entry.
func parseFetchResult(data []byte) (*FetchResult, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &ExtractorError{Err: fmt.Errorf("decoding media info: %w", err)}
	}

	result := &FetchResult{Title: info.Title}
	if len(info.Entries) > 0 {
		for i, entry := range info.Entries {
			result.Entries = append(result.Entries, entryFromInfo(entry, i+1))
		}
	} else if info.ID != "" || info.Title != "" {
		result.Entries = append(result.Entries, entryFromInfo(info, 1))
	}

	if len(result.Entries) == 0 {
		return nil, &ExtractorError{Err: errors.New("no downloadable media found at the provided URL")}
	}
	return result, nil
}

func entryFromInfo(info infoJSON, index int) model.MediaEntry {
	return model.MediaEntry{
		ID:          info.ID,
		Title:       info.Title,
		Playlist:    info.Playlist,
		DurationSec: int64(info.Duration),
		Extractor:   info.Extractor,
		WebpageURL:  info.WebpageURL,
		Index:       index,
	}
}

// parseFormatChoices builds quality choices from an info dump, focusing on
// video heights. "best" always comes first; when no heights are present the
// list falls back to best/worst.
func parseFormatChoices(data []byte) ([]FormatChoice, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &ExtractorError{Err: fmt.Errorf("decoding format info: %w", err)}
	}
	formats := info.Formats
	if len(formats) == 0 && len(info.Entries) > 0 {
		formats = info.Entries[0].Formats
	}

	seen := make(map[int]bool)
	var heights []int
	for _, f := range formats {
		if f.VCodec != "" && f.VCodec != "none" && f.Height > 0 && !seen[f.Height] {
			seen[f.Height] = true
			heights = append(heights, f.Height)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	choices := []FormatChoice{{Selector: "best", Label: "best (auto)"}}
	for _, h := range heights {
		choices = append(choices, FormatChoice{
			Selector: fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best", h),
			Label:    fmt.Sprintf("<= %dp (video+bestaudio)", h),
		})
	}
	if len(choices) == 1 {
		choices = append(choices,
			FormatChoice{Selector: "best", Label: "best"},
			FormatChoice{Selector: "worst", Label: "worst"},
		)
	}
	return choices, nil
}
