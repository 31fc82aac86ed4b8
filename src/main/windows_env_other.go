//go:build !windows

package main

// enableDPIAwareness is a no-op outside Windows; X11 and Wayland report
// physical pixels to the capture tools already.
func enableDPIAwareness() {}
