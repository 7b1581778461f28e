// Package login registers the executable to start when the user logs in.
package login

import (
	"fmt"
	"os"
	"path/filepath"
)

func executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// Set enables or disables start at login.
func Set(on bool) error {
	if on {
		return Enable()
	}
	return Disable()
}
