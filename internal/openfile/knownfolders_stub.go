//go:build !windows

package openfile

import "path/filepath"

type folderID int

const (
	folderDesktop folderID = iota
	folderDocuments
	folderDownloads
)

func knownFolder(_ folderID, home, fallback string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, fallback)
}
