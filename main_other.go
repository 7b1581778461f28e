//go:build !linux

package main

import "runtime"

// The macOS and Windows trays must own the main thread.
func init() {
	runtime.LockOSThread()
}
