// Package config persists user settings as a JSON file in the per-user
// config directory and resolves the application's data paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/platform"
)

const (
	appDirName       = "vidfetch"
	settingsFileName = "settings.json"
	historyFileName  = "download_history.db"
	logFileName      = "vidfetch.log"
	downloadsSubdir  = "VidFetch"
)

// Default values
const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)

// Settings is the persisted application configuration. Unknown keys in the
// file are ignored; missing keys fall back to defaults on load.
type Settings struct {
	Theme       string `json:"theme"`
	Language    string `json:"language"`
	DownloadDir string `json:"download_dir,omitempty"`
	CookiesPath string `json:"cookies_path,omitempty"`
	HistoryPath string `json:"history_path,omitempty"`
}

// Manager loads and saves Settings at a fixed file path.
type Manager struct {
	path     string
	settings Settings
}

// AppDataDir returns the per-user directory holding settings, the history
// database and the log file, creating it if needed.
func AppDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, appDirName)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("cannot create app data dir %s: %w", dir, err)
	}
	return dir, nil
}

// NewManager creates a manager persisting to the given file path.
func NewManager(path string) *Manager {
	return &Manager{path: path, settings: defaults()}
}

// NewDefaultManager creates a manager rooted in the app data directory.
func NewDefaultManager() (*Manager, error) {
	dir, err := AppDataDir()
	if err != nil {
		return nil, err
	}
	return NewManager(filepath.Join(dir, settingsFileName)), nil
}

func defaults() Settings {
	return Settings{Theme: DefaultTheme, Language: DefaultLanguage}
}

// Load reads the settings file. A missing or corrupt file yields defaults;
// only the read error for an existing unreadable file is reported.
func (m *Manager) Load() error {
	m.settings = defaults()

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read settings file %s: %w", m.path, err)
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.WithFields(log.Fields{"path": m.path}).WithError(err).Warn("settings file corrupt, using defaults")
		return nil
	}
	if loaded.Theme == "" {
		loaded.Theme = DefaultTheme
	}
	if loaded.Language == "" {
		loaded.Language = DefaultLanguage
	}
	m.settings = loaded
	return nil
}

// Save writes the current settings wholesale.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode settings: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write settings file %s: %w", m.path, err)
	}
	return nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	return m.settings
}

// Update replaces the settings and persists them.
func (m *Manager) Update(s Settings) error {
	m.settings = s
	return m.Save()
}

// DownloadDir returns the configured download directory, falling back to a
// subdirectory of the user's Downloads folder.
func (m *Manager) DownloadDir() string {
	if m.settings.DownloadDir != "" {
		return m.settings.DownloadDir
	}
	home, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return filepath.Join(os.TempDir(), downloadsSubdir)
	}
	return filepath.Join(home, downloadsSubdir)
}

// HistoryPath returns the configured history database path, falling back to
// the app data directory.
func (m *Manager) HistoryPath() string {
	if m.settings.HistoryPath != "" {
		return m.settings.HistoryPath
	}
	return filepath.Join(filepath.Dir(m.path), historyFileName)
}

// LogPath returns the log file path next to the settings file.
func (m *Manager) LogPath() string {
	return filepath.Join(filepath.Dir(m.path), logFileName)
}
