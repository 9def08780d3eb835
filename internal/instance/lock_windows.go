//go:build windows

package instance

import (
	"errors"

	"golang.org/x/sys/windows"
)

// TryAcquire takes the named mutex Local\<AppID>. primary is false when
// another process already holds it.
func TryAcquire(cfg Config) (primary bool, release func(), err error) {
	name := "Local\\" + sanitizeName(cfg.AppID)
	ptr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return false, nil, err
	}
	h, err := windows.CreateMutex(nil, false, ptr)
	// CreateMutex reports ERROR_ALREADY_EXISTS through err even though the
	// handle is valid; that is the secondary case, not a failure.
	if err != nil && !errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		return false, nil, err
	}
	already := windows.GetLastError() == windows.ERROR_ALREADY_EXISTS || errors.Is(err, windows.ERROR_ALREADY_EXISTS)
	if already {
		_ = windows.CloseHandle(h)
		return false, func() {}, nil
	}

	return true, func() {
		_ = windows.CloseHandle(h)
	}, nil
}
