//go:build !windows

package instance

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// TryAcquire takes an exclusive flock on <Dir>/instance.lock. The kernel
// drops the lock when the process exits, so a crash never leaves it stale.
func TryAcquire(cfg Config) (primary bool, release func(), err error) {
	p, err := cfg.path("instance.lock")
	if err != nil {
		return false, nil, err
	}
	f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return false, nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, func() {}, nil
		}
		return false, nil, err
	}
	return true, func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
