package ui

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/history"
	"github.com/vidfetch/vidfetch/internal/model"
	"github.com/vidfetch/vidfetch/internal/platform"
)

// Per-query cap for the history window; the store orders newest first.
const historyQueryLimit = 500

var statusFilterChoices = []string{"All", string(model.RecordCompleted), string(model.RecordFailed)}

// historyWindow shows past downloads with filtering, deletion, CSV export
// and per-row actions.
type historyWindow struct {
	window  fyne.Window
	store   *history.Store
	root    *RootUI
	records []model.Record

	titleFilter  *widget.Entry
	statusFilter *widget.Select
	list         *widget.List
	selected     int
}

// ShowHistoryWindow opens the download history in its own window.
func ShowHistoryWindow(app fyne.App, store *history.Store, root *RootUI) {
	hw := &historyWindow{
		window:   app.NewWindow("Download History"),
		store:    store,
		root:     root,
		selected: -1,
	}
	hw.setupUI()
	hw.reload()
	hw.window.Resize(fyne.NewSize(820, 520))
	hw.window.Show()
}

func (hw *historyWindow) setupUI() {
	hw.titleFilter = widget.NewEntry()
	hw.titleFilter.SetPlaceHolder("Filter by title or URL")
	hw.titleFilter.OnSubmitted = func(string) { hw.reload() }

	hw.statusFilter = widget.NewSelect(statusFilterChoices, func(string) { hw.reload() })
	hw.statusFilter.SetSelectedIndex(0)

	searchBtn := widget.NewButton("Search", hw.reload)

	hw.list = widget.NewList(
		func() int { return len(hw.records) },
		func() fyne.CanvasObject {
			title := widget.NewLabel("title")
			title.TextStyle.Bold = true
			title.Truncation = fyne.TextTruncateEllipsis
			detail := widget.NewLabel("detail")
			detail.Truncation = fyne.TextTruncateEllipsis
			return container.NewVBox(title, detail)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(hw.records) {
				return
			}
			rec := hw.records[id]
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(rec.Title)
			box.Objects[1].(*widget.Label).SetText(formatRecordDetail(rec))
		},
	)
	hw.list.OnSelected = func(id widget.ListItemID) { hw.selected = id }
	hw.list.OnUnselected = func(widget.ListItemID) { hw.selected = -1 }

	actions := container.NewHBox(
		widget.NewButton("Re-download", hw.onRedownload),
		widget.NewButton("Open Location", hw.onOpenLocation),
		widget.NewButton("Delete", hw.onDeleteSelected),
		widget.NewButton("Clear All", hw.onClearAll),
		widget.NewButton("Export CSV", hw.onExportCSV),
	)

	top := container.NewBorder(nil, nil, nil, container.NewHBox(hw.statusFilter, searchBtn), hw.titleFilter)
	hw.window.SetContent(container.NewBorder(top, actions, nil, nil, hw.list))
}

func formatRecordDetail(rec model.Record) string {
	size := "-"
	if rec.FileSize > 0 {
		size = fmt.Sprintf("%.1f MB", float64(rec.FileSize)/(1024*1024))
	}
	return fmt.Sprintf("%s | %s | %s | %s | %s", rec.Status, rec.Format, rec.DownloadDate, size, rec.Platform)
}

func (hw *historyWindow) currentFilter() history.Filter {
	f := history.Filter{Title: hw.titleFilter.Text, Limit: historyQueryLimit}
	if hw.statusFilter.Selected != "" && hw.statusFilter.Selected != "All" {
		f.Status = model.RecordStatus(hw.statusFilter.Selected)
	}
	return f
}

func (hw *historyWindow) reload() {
	records, err := hw.store.Query(hw.currentFilter())
	if err != nil {
		log.WithError(err).Error("history query failed")
		dialog.ShowError(err, hw.window)
		return
	}
	// A title filter that matches nothing may still match on URL.
	if len(records) == 0 && hw.titleFilter.Text != "" {
		f := hw.currentFilter()
		f.URL, f.Title = f.Title, ""
		if byURL, err := hw.store.Query(f); err == nil {
			records = byURL
		}
	}
	hw.records = records
	hw.selected = -1
	hw.list.UnselectAll()
	hw.list.Refresh()
}

func (hw *historyWindow) selectedRecord() (model.Record, bool) {
	if hw.selected < 0 || hw.selected >= len(hw.records) {
		return model.Record{}, false
	}
	return hw.records[hw.selected], true
}

func (hw *historyWindow) onRedownload() {
	rec, ok := hw.selectedRecord()
	if !ok {
		dialog.ShowInformation("History", "Select a record first.", hw.window)
		return
	}
	hw.root.redownload(rec)
	hw.window.Close()
}

func (hw *historyWindow) onOpenLocation() {
	rec, ok := hw.selectedRecord()
	if !ok || rec.FilePath == "" {
		dialog.ShowInformation("History", "No file recorded for this entry.", hw.window)
		return
	}
	if err := platform.OpenFileInManager(rec.FilePath); err != nil {
		dialog.ShowError(err, hw.window)
	}
}

func (hw *historyWindow) onDeleteSelected() {
	rec, ok := hw.selectedRecord()
	if !ok {
		dialog.ShowInformation("History", "Select a record first.", hw.window)
		return
	}
	dialog.ShowConfirm("Delete Record", fmt.Sprintf("Delete the record for %q?", rec.Title), func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := hw.store.Delete([]int64{rec.ID}); err != nil {
			dialog.ShowError(err, hw.window)
			return
		}
		hw.reload()
	}, hw.window)
}

func (hw *historyWindow) onClearAll() {
	dialog.ShowConfirm("Clear History", "Delete every history record? This cannot be undone.", func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := hw.store.ClearAll(); err != nil {
			dialog.ShowError(err, hw.window)
			return
		}
		hw.reload()
	}, hw.window)
}

func (hw *historyWindow) onExportCSV() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		records, err := hw.store.Query(history.Filter{})
		if err != nil {
			dialog.ShowError(err, hw.window)
			return
		}
		if err := history.ExportCSV(writer, records); err != nil {
			os.Remove(writer.URI().Path())
			dialog.ShowError(err, hw.window)
			return
		}
		dialog.ShowInformation("Export", fmt.Sprintf("Exported %d record(s).", len(records)), hw.window)
	}, hw.window)
}
