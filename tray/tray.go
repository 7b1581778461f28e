// Package tray is the system tray surface: a menu, a hover text and
// notifications. Two implementations exist, one backed by the OS tray and a
// headless one for sessions without a desktop.
package tray

import (
	"context"
	"os"
	"strings"
)

// Tray is the capability set the host drives.
type Tray interface {
	// Run shows the menu and blocks until ctx is cancelled or the user quits.
	Run(ctx context.Context, m Menu) error
	SetTooltip(text string)
	Notify(title, msg string)
	// SetBusy swaps the change-wallpaper entry for a disabled progress entry.
	SetBusy(busy bool)
	SetAutostart(on bool)
}

type Labels struct {
	Title       string
	Change      string
	Downloading string
	Autostart   string
	Info        string
	ViewCommons string
	CopyLink    string
	OpenFolder  string
	Quit        string
}

// Menu wires menu entries to actions. Nil actions are ignored.
type Menu struct {
	Labels    Labels
	Autostart bool

	OnChange      func()
	OnAutostart   func(on bool) error
	OnInfo        func()
	OnViewCommons func()
	OnCopyLink    func()
	OnOpenFolder  func()
	OnQuit        func()
}

// New picks the OS tray unless headless is requested or no graphical
// session is available.
func New(headless bool) Tray {
	if headless || !HasDisplay() {
		return NewHeadless()
	}
	return NewSystray()
}

// Truncate shortens s to at most n runes for hover texts and dialogs.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func envSet(keys ...string) bool {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return true
		}
	}
	return false
}
