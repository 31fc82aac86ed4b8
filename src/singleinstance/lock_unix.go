//go:build unix

package singleinstance

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Lock is advisory per-user ownership of the resident role, held for the
// process lifetime. The TCP port alone is not enough: the port may appear
// free for a moment while the old resident restarts.
type Lock struct {
	f *os.File
}

// AcquireLock takes the per-user flock. Fails when another resident holds it.
func AcquireLock() (*Lock, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("pixel-measure-%d.lock", os.Getuid()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another instance holds %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the flock. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	_ = l.f.Close()
	l.f = nil
	return err
}
