//go:build windows

package main

import (
	"log"
	"syscall"
)

// enableDPIAwareness sets per-monitor DPI awareness so captured pixels map
// 1:1 to screen pixels on scaled displays. Without it Windows lies about
// coordinates and every measurement is off by the scale factor.
func enableDPIAwareness() {
	shcore := syscall.NewLazyDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: per-monitor DPI awareness set")
		} else {
			log.Printf("DPI: SetProcessDpiAwareness failed, error code: %d", ret)
		}
		return
	}

	user32 := syscall.NewLazyDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err == nil {
		ret, _, _ := setProcessDPIAware.Call()
		if ret != 0 {
			log.Printf("DPI: system DPI awareness set (fallback)")
		} else {
			log.Printf("DPI: SetProcessDPIAware failed")
		}
	} else {
		log.Printf("DPI: no DPI awareness API available")
	}
}
