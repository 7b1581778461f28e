//go:build !windows && !darwin

package tray

// HasDisplay reports whether an X11 or Wayland session is reachable.
func HasDisplay() bool {
	return envSet("DISPLAY", "WAYLAND_DISPLAY")
}
