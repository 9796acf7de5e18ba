// Package ui is the Fyne presentation layer. It stays thin: every durable
// behavior lives in the job, media, history and convert packages; the UI
// builds requests, pumps job events onto the interactive thread and renders
// them.
package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/config"
	"github.com/vidfetch/vidfetch/internal/convert"
	"github.com/vidfetch/vidfetch/internal/history"
	"github.com/vidfetch/vidfetch/internal/job"
	"github.com/vidfetch/vidfetch/internal/media"
	"github.com/vidfetch/vidfetch/internal/model"
	"github.com/vidfetch/vidfetch/internal/platform"
)

// Quality labels shown before a real format list is fetched, with their
// format-selection expressions.
var defaultQualityChoices = []media.FormatChoice{
	{Selector: "best", Label: "best (auto)"},
	{Selector: "bestvideo[height<=1080]+bestaudio/best", Label: "<= 1080p"},
	{Selector: "bestvideo[height<=720]+bestaudio/best", Label: "<= 720p"},
	{Selector: "bestvideo[height<=480]+bestaudio/best", Label: "<= 480p"},
	{Selector: "bestvideo[height<=360]+bestaudio/best", Label: "<= 360p"},
}

// RootUI is the main window: URL entry, fetched entry selection, mode and
// quality choice, and the progress surface for running jobs.
type RootUI struct {
	window  fyne.Window
	session media.Session
	runner  *job.Runner
	bridge  *job.Bridge
	store   *history.Store
	convSvc *convert.Service
	cfg     *config.Manager

	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	downloadBtn *widget.Button
	modeRadio   *widget.RadioGroup
	qualitySel  *widget.Select
	entryChecks *widget.CheckGroup
	folderLabel *widget.Label
	statusLabel *widget.Label
	countsLabel *widget.Label
	progressBar *widget.ProgressBar

	entries     []model.MediaEntry
	qualities   []media.FormatChoice
	destDir     string
	cookiesPath string
}

// NewRootUI creates and lays out the main window content.
func NewRootUI(window fyne.Window, session media.Session, runner *job.Runner, bridge *job.Bridge, store *history.Store, convSvc *convert.Service, cfg *config.Manager) *RootUI {
	ui := &RootUI{
		window:      window,
		session:     session,
		runner:      runner,
		bridge:      bridge,
		store:       store,
		convSvc:     convSvc,
		cfg:         cfg,
		destDir:     cfg.DownloadDir(),
		cookiesPath: cfg.Get().CookiesPath,
	}
	platform.CreateDirectoryIfNotExists(ui.destDir)

	ui.setupUI()
	return ui
}

func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a video or playlist URL")
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetch() }

	ui.fetchBtn = widget.NewButton("Fetch", ui.onFetch)
	ui.downloadBtn = widget.NewButton("Download", ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.modeRadio = widget.NewRadioGroup(
		[]string{string(model.ModeVideo), string(model.ModeAudio), string(model.ModeCaptions)}, nil)
	ui.modeRadio.Horizontal = true
	ui.modeRadio.SetSelected(string(model.ModeVideo))

	ui.qualities = defaultQualityChoices
	ui.qualitySel = widget.NewSelect(choiceLabels(ui.qualities), nil)
	ui.qualitySel.SetSelectedIndex(0)

	ui.entryChecks = widget.NewCheckGroup(nil, nil)

	ui.folderLabel = widget.NewLabel(ui.destDir)
	ui.folderLabel.Truncation = fyne.TextTruncateEllipsis
	ui.statusLabel = widget.NewLabel("Ready")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ui.countsLabel = widget.NewLabel("")
	ui.progressBar = widget.NewProgressBar()

	selectAllBtn := widget.NewButton("Select All", func() { ui.setAllChecks(true) })
	selectNoneBtn := widget.NewButton("Select None", func() { ui.setAllChecks(false) })
	formatsBtn := widget.NewButton("Refresh Formats", ui.onRefreshFormats)

	topPanel := container.NewBorder(nil, nil, nil, ui.fetchBtn, ui.urlEntry)
	optionsPanel := container.NewVBox(
		container.NewHBox(widget.NewLabel("Mode:"), ui.modeRadio),
		container.NewHBox(widget.NewLabel("Quality:"), ui.qualitySel, formatsBtn, selectAllBtn, selectNoneBtn),
		container.NewBorder(nil, nil, widget.NewButton("Choose Folder", ui.onChooseFolder), ui.downloadBtn, ui.folderLabel),
	)
	bottomPanel := container.NewVBox(ui.statusLabel, ui.progressBar, ui.countsLabel)

	content := container.NewBorder(
		container.NewVBox(topPanel, optionsPanel),
		bottomPanel,
		nil, nil,
		container.NewVScroll(ui.entryChecks),
	)

	ui.window.SetMainMenu(ui.buildMenu())
	ui.window.SetContent(content)
	ui.window.Resize(fyne.NewSize(760, 560))
}

func (ui *RootUI) buildMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Cookies...", ui.onLoadCookies),
		fyne.NewMenuItem("Batch From File...", ui.onBatchFromFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", ui.onShowPreferences),
	)
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("History...", ui.onShowHistory),
		fyne.NewMenuItem("Convert Files...", ui.onShowConverter),
		fyne.NewMenuItem("Scan Folder for Videos...", ui.onScanFolder),
	)
	return fyne.NewMainMenu(fileMenu, toolsMenu)
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

// onFetch resolves the URL and loads its entries on a background job.
func (ui *RootUI) onFetch() {
	raw := strings.TrimSpace(ui.urlEntry.Text)
	if raw == "" || validateURL(raw) != nil {
		dialog.ShowInformation("Fetch", "Enter a valid video or playlist URL first.", ui.window)
		return
	}

	ui.setBusy(true, "Fetching metadata...")
	j := ui.bridge.Submit("fetch", func(e *job.Emitter) error {
		ctx := context.Background()
		resolved := media.ResolveURL(ctx, raw)
		result, err := ui.session.Fetch(ctx, media.FetchOptions{URL: resolved, CookiesPath: ui.cookiesPath})
		if err != nil {
			return err
		}
		e.Data(result)
		e.Finish(fmt.Sprintf("Found %d item(s).", len(result.Entries)))
		return nil
	})
	go ui.pumpEvents(j, func(payload any) {
		if result, ok := payload.(*media.FetchResult); ok {
			ui.showEntries(result)
		}
	})
}

func (ui *RootUI) showEntries(result *media.FetchResult) {
	ui.entries = result.Entries
	labels := make([]string, len(result.Entries))
	for i, entry := range result.Entries {
		labels[i] = fmt.Sprintf("%d. %s", entry.Index, entry.DisplayTitle())
	}
	ui.entryChecks.Options = labels
	ui.entryChecks.SetSelected(labels)
	ui.entryChecks.Refresh()
}

func choiceLabels(choices []media.FormatChoice) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return labels
}

// qualitySelector maps the selected label back to its format expression.
func (ui *RootUI) qualitySelector() string {
	for _, c := range ui.qualities {
		if c.Label == ui.qualitySel.Selected {
			return c.Selector
		}
	}
	return "best"
}

// onRefreshFormats replaces the preset quality list with the formats yt-dlp
// actually reports for the first selected entry.
func (ui *RootUI) onRefreshFormats() {
	raw := strings.TrimSpace(ui.urlEntry.Text)
	if raw == "" {
		dialog.ShowInformation("Formats", "Fetch a URL first.", ui.window)
		return
	}
	item := 0
	if selected := ui.selectedEntries(); len(selected) > 0 && len(ui.entries) > 1 {
		item = selected[0].Index
	}

	ui.setBusy(true, "Listing formats...")
	j := ui.bridge.Submit("formats", func(e *job.Emitter) error {
		choices, err := ui.session.Formats(context.Background(), media.FormatOptions{
			URL:          raw,
			CookiesPath:  ui.cookiesPath,
			PlaylistItem: item,
		})
		if err != nil {
			return err
		}
		e.Data(choices)
		e.Finish(fmt.Sprintf("Found %d format(s).", len(choices)))
		return nil
	})
	go ui.pumpEvents(j, func(payload any) {
		if choices, ok := payload.([]media.FormatChoice); ok && len(choices) > 0 {
			ui.qualities = choices
			ui.qualitySel.Options = choiceLabels(choices)
			ui.qualitySel.SetSelectedIndex(0)
			ui.qualitySel.Refresh()
		}
	})
}

func (ui *RootUI) setAllChecks(on bool) {
	if on {
		ui.entryChecks.SetSelected(ui.entryChecks.Options)
	} else {
		ui.entryChecks.SetSelected(nil)
	}
}

func (ui *RootUI) selectedEntries() []model.MediaEntry {
	selected := make(map[string]bool, len(ui.entryChecks.Selected))
	for _, label := range ui.entryChecks.Selected {
		selected[label] = true
	}
	var out []model.MediaEntry
	for i, entry := range ui.entries {
		if i < len(ui.entryChecks.Options) && selected[ui.entryChecks.Options[i]] {
			out = append(out, entry)
		}
	}
	return out
}

// onDownload builds the request from the current selection and submits it.
func (ui *RootUI) onDownload() {
	raw := strings.TrimSpace(ui.urlEntry.Text)
	if raw == "" {
		dialog.ShowInformation("Download", "Fetch a URL first.", ui.window)
		return
	}

	req := model.DownloadRequest{
		URL:         raw,
		Entries:     ui.selectedEntries(),
		Mode:        model.Mode(ui.modeRadio.Selected),
		Quality:     ui.qualitySelector(),
		DestDir:     ui.destDir,
		CookiesPath: ui.cookiesPath,
	}
	if len(req.Entries) == 0 && req.Mode != model.ModeCaptions {
		dialog.ShowInformation("Download", "Select at least one item.", ui.window)
		return
	}

	ui.setBusy(true, "Starting download...")
	j := ui.bridge.Submit("download", func(e *job.Emitter) error {
		return ui.runner.Run(context.Background(), req, e)
	})
	go ui.pumpEvents(j, nil)
}

// pumpEvents drains one job's event stream, applying each event on the
// interactive thread. It runs on its own goroutine and exits when the
// stream closes after its single terminal event.
func (ui *RootUI) pumpEvents(j *job.Job, onData func(payload any)) {
	for ev := range j.Events {
		ev := ev
		fyne.Do(func() { ui.applyEvent(ev, onData) })
	}
}

func (ui *RootUI) applyEvent(ev job.Event, onData func(payload any)) {
	switch ev.Kind {
	case job.EventProgressText:
		ui.statusLabel.SetText(ev.Text)
	case job.EventProgressValue:
		ui.progressBar.SetValue(float64(ev.Value) / 100)
	case job.EventCounts:
		ui.countsLabel.SetText(fmt.Sprintf("Completed: %d   Failed: %d", ev.Success, ev.Failure))
	case job.EventData:
		if onData != nil {
			onData(ev.Payload)
		}
	case job.EventFinished:
		ui.setBusy(false, ev.Text)
		if ev.Text != "" {
			dialog.ShowInformation("Done", ev.Text, ui.window)
		}
	case job.EventWarning:
		ui.setBusy(false, ev.Text)
		dialog.ShowInformation("Completed with errors", ev.Text, ui.window)
	case job.EventError:
		ui.setBusy(false, ev.Text)
		dialog.ShowError(fmt.Errorf("%s", ev.Text), ui.window)
	}
}

func (ui *RootUI) setBusy(busy bool, status string) {
	if busy {
		ui.fetchBtn.Disable()
		ui.downloadBtn.Disable()
		ui.progressBar.SetValue(0)
	} else {
		ui.fetchBtn.Enable()
		ui.downloadBtn.Enable()
	}
	if status != "" {
		ui.statusLabel.SetText(firstLine(status))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (ui *RootUI) onChooseFolder() {
	dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil || list == nil {
			return
		}
		ui.destDir = list.Path()
		ui.folderLabel.SetText(ui.destDir)
		ui.persistPaths()
	}, ui.window)
}

func (ui *RootUI) onLoadCookies() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		ui.cookiesPath = reader.URI().Path()
		ui.statusLabel.SetText("Cookies loaded: " + ui.cookiesPath)
		ui.persistPaths()
	}, ui.window)
}

func (ui *RootUI) persistPaths() {
	s := ui.cfg.Get()
	s.DownloadDir = ui.destDir
	s.CookiesPath = ui.cookiesPath
	if err := ui.cfg.Update(s); err != nil {
		log.WithError(err).Warn("failed to persist settings")
	}
}

// onBatchFromFile reads a url list file and downloads each URL once.
func (ui *RootUI) onBatchFromFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		urls := job.ParseURLList(reader)
		if len(urls) == 0 {
			dialog.ShowInformation("Batch Download", "No http(s) URLs found in the file.", ui.window)
			return
		}

		destDir, cookiesPath := ui.destDir, ui.cookiesPath
		ui.setBusy(true, fmt.Sprintf("Batch downloading %d URL(s)...", len(urls)))
		j := ui.bridge.Submit("batch", func(e *job.Emitter) error {
			return ui.runner.RunBatch(context.Background(), urls, destDir, cookiesPath, e)
		})
		go ui.pumpEvents(j, nil)
	}, ui.window)
}

// onScanFolder lists video files under a chosen folder and offers to remux
// them to MP4.
func (ui *RootUI) onScanFolder() {
	dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil || list == nil {
			return
		}
		folder := list.Path()
		files := platform.FindVideoFiles(folder)
		if len(files) == 0 {
			dialog.ShowInformation("Scan Folder", "No video files found.", ui.window)
			return
		}
		showScanResults(ui, folder, files)
	}, ui.window)
}

func (ui *RootUI) onShowHistory() {
	ShowHistoryWindow(fyne.CurrentApp(), ui.store, ui)
}

func (ui *RootUI) onShowConverter() {
	ShowConvertDialog(ui)
}

func (ui *RootUI) onShowPreferences() {
	ShowPreferencesDialog(ui.window, ui.cfg)
}

// redownload reloads a history row's URL into the main window for a fresh
// fetch.
func (ui *RootUI) redownload(rec model.Record) {
	ui.urlEntry.SetText(rec.URL)
	ui.window.RequestFocus()
	ui.onFetch()
}
