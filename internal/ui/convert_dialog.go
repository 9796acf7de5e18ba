package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vidfetch/vidfetch/internal/convert"
	"github.com/vidfetch/vidfetch/internal/job"
	"github.com/vidfetch/vidfetch/internal/model"
)

var (
	convertFormats    = []string{"mp4", "mkv", "webm", "avi", "mov", "mp3", "m4a", "aac", "ogg", "wav"}
	convertVideoCodec = []string{"", "h264", "h265", "vp9", "copy"}
	convertAudioCodec = []string{"", "aac", "mp3", "copy"}
	convertPresets    = []string{"", "ultrafast", "fast", "medium", "slow", "veryslow"}
)

// ShowConvertDialog opens the advanced converter over the main window.
func ShowConvertDialog(ui *RootUI) {
	var inputs []string

	fileList := widget.NewLabel("No files selected")
	fileList.Wrapping = fyne.TextWrapWord

	formatSel := widget.NewSelect(convertFormats, nil)
	formatSel.SetSelectedIndex(0)
	videoCodecSel := widget.NewSelect(convertVideoCodec, nil)
	audioCodecSel := widget.NewSelect(convertAudioCodec, nil)
	presetSel := widget.NewSelect(convertPresets, nil)

	videoBitrate := widget.NewEntry()
	videoBitrate.SetPlaceHolder("e.g. 2500")
	audioBitrate := widget.NewEntry()
	audioBitrate.SetPlaceHolder("e.g. 192")
	resolution := widget.NewEntry()
	resolution.SetPlaceHolder("e.g. 1280:720")
	crf := widget.NewEntry()
	crf.SetPlaceHolder("e.g. 23")

	addBtn := widget.NewButton("Add File...", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			inputs = append(inputs, reader.URI().Path())
			fileList.SetText(fmt.Sprintf("%d file(s) selected", len(inputs)))
		}, ui.window)
	})
	clearBtn := widget.NewButton("Clear", func() {
		inputs = nil
		fileList.SetText("No files selected")
	})

	form := widget.NewForm(
		widget.NewFormItem("Output format", formatSel),
		widget.NewFormItem("Video codec", videoCodecSel),
		widget.NewFormItem("Video bitrate (k)", videoBitrate),
		widget.NewFormItem("Resolution", resolution),
		widget.NewFormItem("Audio codec", audioCodecSel),
		widget.NewFormItem("Audio bitrate (k)", audioBitrate),
		widget.NewFormItem("Preset", presetSel),
		widget.NewFormItem("CRF", crf),
	)

	content := container.NewVBox(
		container.NewHBox(addBtn, clearBtn),
		fileList,
		form,
	)

	d := dialog.NewCustomConfirm("Convert Files", "Convert", "Close", content, func(confirmed bool) {
		if !confirmed || len(inputs) == 0 {
			return
		}
		settings := convert.Settings{
			OutputFormat:  formatSel.Selected,
			VideoCodec:    videoCodecSel.Selected,
			VideoBitrateK: atoiOrZero(videoBitrate.Text),
			Resolution:    resolution.Text,
			AudioCodec:    audioCodecSel.Selected,
			AudioBitrateK: atoiOrZero(audioBitrate.Text),
			Preset:        presetSel.Selected,
			CRF:           atoiOrZero(crf.Text),
		}
		startConversion(ui, inputs, settings)
	}, ui.window)
	d.Resize(fyne.NewSize(460, 520))
	d.Show()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// startConversion submits a batch conversion job and relays its progress
// through the main window.
func startConversion(ui *RootUI, inputs []string, settings convert.Settings) {
	ui.setBusy(true, fmt.Sprintf("Converting %d file(s)...", len(inputs)))
	j := ui.bridge.Submit("convert", func(e *job.Emitter) error {
		tasks := ui.convSvc.ConvertBatch(context.Background(), inputs, settings, e)

		failed := 0
		for _, task := range tasks {
			if task.Status == model.TaskStatusError {
				failed++
			}
		}
		if failed > 0 {
			e.Warn(fmt.Sprintf("Converted %d file(s) with %d error(s).", len(tasks)-failed, failed))
		} else {
			e.Finish(fmt.Sprintf("Converted %d file(s).", len(tasks)))
		}
		return nil
	})
	go ui.pumpEvents(j, nil)
}

// showScanResults lists videos found under a folder and offers an MP4 remux
// for all of them.
func showScanResults(ui *RootUI, folder string, files []string) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	list := widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("file")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(names[id])
		},
	)

	content := container.NewBorder(
		widget.NewLabel(fmt.Sprintf("Found %d video file(s) under %s", len(files), folder)),
		nil, nil, nil,
		list,
	)
	d := dialog.NewCustomConfirm("Scan Results", "Remux All to MP4", "Close", content, func(confirmed bool) {
		if !confirmed {
			return
		}
		remuxAll(ui, files)
	}, ui.window)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

func remuxAll(ui *RootUI, files []string) {
	ui.setBusy(true, fmt.Sprintf("Remuxing %d file(s)...", len(files)))
	j := ui.bridge.Submit("remux", func(e *job.Emitter) error {
		ok, fail := 0, 0
		for i, input := range files {
			e.ProgressText(fmt.Sprintf("Remuxing %d/%d: %s", i+1, len(files), filepath.Base(input)))
			e.ProgressValue(i * 100 / len(files))
			if _, err := ui.convSvc.RemuxToMP4(context.Background(), input); err != nil {
				fail++
				continue
			}
			ok++
		}
		if fail > 0 {
			e.Warn(fmt.Sprintf("Remuxed %d file(s), %d failed.", ok, fail))
		} else {
			e.Finish(fmt.Sprintf("Remuxed %d file(s).", ok))
		}
		return nil
	})
	go ui.pumpEvents(j, nil)
}
