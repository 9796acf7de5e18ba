package model

// Fallback values applied when the extractor returns incomplete metadata.
const (
	FallbackTitle        = "Unknown Title"
	DefaultPlaylistLabel = "NA"
	UnknownPlatform      = "Unknown"
)

// MediaEntry is one media item discovered during a metadata fetch, eligible
// for download. Entries live until the session ends or a new fetch replaces
// them.
type MediaEntry struct {
	ID          string // extractor id, may be empty
	Title       string // may be empty, see DisplayTitle
	Playlist    string // originating playlist/grouping label
	DurationSec int64  // 0 if unknown
	Extractor   string // platform label, e.g. "youtube"
	WebpageURL  string
	Index       int // 1-based position within the fetched listing
}

// DisplayTitle returns the entry title or a fallback when the extractor
// provided none.
func (e MediaEntry) DisplayTitle() string {
	if e.Title == "" {
		return FallbackTitle
	}
	return e.Title
}

// PlaylistLabel returns the grouping label or the "NA" sentinel.
func (e MediaEntry) PlaylistLabel() string {
	if e.Playlist == "" {
		return DefaultPlaylistLabel
	}
	return e.Playlist
}

// Platform returns the extractor label or "Unknown".
func (e MediaEntry) Platform() string {
	if e.Extractor == "" {
		return UnknownPlatform
	}
	return e.Extractor
}
