package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// OpenFileInManager opens the system file manager at the file's location,
// selecting it where the platform supports that.
func OpenFileInManager(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", "-R", absPath).Run()
	case "windows":
		return exec.Command("explorer", "/select,", absPath).Run()
	case "linux":
		return exec.Command("xdg-open", filepath.Dir(absPath)).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFileWithDefaultApp opens the file with the default system application.
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", absPath).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", absPath).Run()
	case "linux":
		return exec.Command("xdg-open", absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
