//go:build darwin

package desktop

import (
	"fmt"
	"os/exec"
	"strings"
)

func setWallpaper(path string) error {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %s`, appleString(path))
	return run("osascript", "-e", script)
}

func open(target string) error {
	_, err := startDetached("open", target)
	return err
}

func notify(title, msg string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleString(msg), appleString(title))
	return run("osascript", "-e", script)
}

func available() error {
	_, err := exec.LookPath("osascript")
	return err
}

func appleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
