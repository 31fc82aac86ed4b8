// Package clipboard wraps golang.design/x/clipboard for copying measurement
// results as plain text.
package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var writeMu sync.Mutex

// Init must be called once before Write; it fails when no clipboard backend
// is available (e.g. headless X without XFIXES).
func Init() error {
	return clipboard.Init()
}

// Write performs a mutex-guarded clipboard write to prevent corruption under
// parallel writes.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
