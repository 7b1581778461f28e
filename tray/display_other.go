//go:build windows || darwin

package tray

func HasDisplay() bool { return true }
