// Package desktop wraps the OS calls the service consumes: applying a
// wallpaper, opening a URL or folder, and showing a notification.
package desktop

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var ErrUnsupported = errors.New("desktop: unsupported on this platform")

// System applies wallpapers on the running platform.
type System struct{}

func (System) SetWallpaper(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("wallpaper file: %w", err)
	}
	return setWallpaper(abs)
}

// OpenFolder opens dir in the file manager, creating it first.
func OpenFolder(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	return Open(abs)
}

// Open hands target (URL or path) to the default handler.
func Open(target string) error {
	return open(target)
}

// Notify shows a short message to the user.
func Notify(title, msg string) error {
	return notify(title, msg)
}

// Available reports whether SetWallpaper can work here, for diagnostics.
func Available() error {
	return available()
}

func run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w (%s)", name, err, out)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// startDetached launches a handler without blocking on it. The process is
// reaped in the background; its exit status arrives on the returned channel.
func startDetached(name string, args ...string) (<-chan error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}
