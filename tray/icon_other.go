//go:build !windows

package tray

func iconData() []byte { return iconPNG }
