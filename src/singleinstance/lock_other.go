//go:build !unix

package singleinstance

// Lock is a no-op on platforms without flock; the TCP port bind is the only
// ownership signal there.
type Lock struct{}

func AcquireLock() (*Lock, error) { return &Lock{}, nil }

func (l *Lock) Release() error { return nil }
