//go:build !windows && !darwin

package desktop

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

func setWallpaper(path string) error {
	if _, err := exec.LookPath("gsettings"); err == nil {
		uri := (&url.URL{Scheme: "file", Path: path}).String()
		var errs []error
		for _, key := range []string{"picture-uri", "picture-uri-dark"} {
			if err := run("gsettings", "set", "org.gnome.desktop.background", key, uri); err != nil {
				errs = append(errs, err)
			}
		}
		// picture-uri-dark only exists on GNOME 42+
		if len(errs) < 2 {
			return nil
		}
		return errors.Join(errs...)
	}
	if _, err := exec.LookPath("feh"); err == nil {
		return run("feh", "--bg-fill", path)
	}
	return fmt.Errorf("%w: neither gsettings nor feh found", ErrUnsupported)
}

func open(target string) error {
	_, err := startDetached("xdg-open", target)
	return err
}

func notify(title, msg string) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, strings.TrimSpace(msg))
		return nil
	}
	return run("notify-send", "--app-name=commonswall", title, msg)
}

func available() error {
	for _, tool := range []string{"gsettings", "feh"} {
		if _, err := exec.LookPath(tool); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: neither gsettings nor feh found", ErrUnsupported)
}
