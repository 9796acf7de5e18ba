package model

// RecordStatus is the status column of a history record. Completed and Failed
// are the only values the runner writes; In Progress and Unknown may be
// observed in stores written by older versions.
type RecordStatus string

const (
	RecordCompleted  RecordStatus = "Completed"
	RecordFailed     RecordStatus = "Failed"
	RecordInProgress RecordStatus = "In Progress"
	RecordUnknown    RecordStatus = "Unknown"
)

// RecordTimeLayout is the timestamp format stored in the download_date column.
const RecordTimeLayout = "2006-01-02 15:04:05"

// Record is one durable row describing the outcome of a single download
// attempt. Records are inserted once at attempt completion and never updated
// in place.
type Record struct {
	ID           int64
	URL          string
	Title        string
	Format       string // "Video", "Audio" or "Captions"
	Quality      string
	Status       RecordStatus
	DownloadDate string // RecordTimeLayout
	FileSize     int64  // bytes, 0 if unknown
	DurationSec  int64  // seconds, 0 if unknown
	Platform     string
	FilePath     string // resolved output path, empty if unknown
}
