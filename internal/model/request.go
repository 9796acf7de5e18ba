package model

// Mode selects what a download job produces for each entry.
type Mode string

const (
	ModeVideo    Mode = "Video"
	ModeAudio    Mode = "Audio"
	ModeCaptions Mode = "Captions"
)

// DownloadRequest describes one invocation of the job runner. It is built by
// the presentation layer from the current selection and discarded after the
// job completes. The destination directory is carried here explicitly so the
// runner never consults ambient state.
type DownloadRequest struct {
	URL          string
	Entries      []MediaEntry // selected entries, in input order
	Mode         Mode
	Quality      string // format-selection expression or literal code
	DestDir      string // destination root directory
	CookiesPath  string // optional cookies.txt path
	CaptionsLang string // captions mode only, defaults to "en"
}
