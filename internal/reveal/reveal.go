// Package reveal shows a file in the platform's file browser.
package reveal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotExist is returned when the path to reveal is gone.
var ErrNotExist = errors.New("file or folder no longer exists")

// PlatformReveal selects a file (or opens a folder) in the OS file browser.
type PlatformReveal interface {
	Reveal(path string) error
}

// New returns the implementation for the running OS.
func New() PlatformReveal {
	return platformReveal{}
}

// target cleans path and reports whether it is a directory.
func target(path string) (abs string, isDir bool, err error) {
	path = strings.Trim(strings.TrimSpace(path), "\"")
	if path == "" {
		return "", false, ErrNotExist
	}
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", false, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, ErrNotExist
		}
		return "", false, err
	}
	return abs, st.IsDir(), nil
}
