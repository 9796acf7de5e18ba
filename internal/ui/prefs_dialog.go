package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/config"
)

var (
	themeChoices    = []string{"light", "dark"}
	languageChoices = []string{"en", "es", "fr", "de", "ru"}
)

// ShowPreferencesDialog edits the persisted theme and language settings.
// The theme applies immediately; language takes effect on restart.
func ShowPreferencesDialog(window fyne.Window, cfg *config.Manager) {
	current := cfg.Get()

	themeSel := widget.NewSelect(themeChoices, nil)
	themeSel.SetSelected(current.Theme)
	languageSel := widget.NewSelect(languageChoices, nil)
	languageSel.SetSelected(current.Language)

	form := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSel),
		widget.NewFormItem("Language", languageSel),
	}

	dialog.ShowForm("Preferences", "Save", "Cancel", form, func(confirmed bool) {
		if !confirmed {
			return
		}
		s := cfg.Get()
		s.Theme = themeSel.Selected
		s.Language = languageSel.Selected
		if err := cfg.Update(s); err != nil {
			log.WithError(err).Warn("failed to save preferences")
			dialog.ShowError(err, window)
			return
		}
		ApplyTheme(fyne.CurrentApp(), s.Theme)
	}, window)
}

// ApplyTheme switches between the light and dark variants.
func ApplyTheme(app fyne.App, name string) {
	switch name {
	case "dark":
		app.Settings().SetTheme(theme.DarkTheme())
	default:
		app.Settings().SetTheme(theme.LightTheme())
	}
}
