//go:build windows

package log

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// getDefaultDir places logs under %LOCALAPPDATA%\commonswall\logs, asking
// the shell for the folder so redirected profiles resolve correctly.
func getDefaultDir() (string, error) {
	base, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppData, windows.KF_FLAG_DEFAULT)
	if err != nil || base == "" {
		base = os.Getenv("LOCALAPPDATA")
	}
	if base == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", herr
		}
		base = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(base, "commonswall", "logs"), nil
}
