//go:build !windows

package main

import "errors"

// Finder and desktop environments take associations from the app bundle or
// .desktop file written at install time.
var errAssociationUnsupported = errors.New("file association is only managed at runtime on Windows")

func (a *App) CheckFileAssociation() (FileAssociationStatus, error) {
	return FileAssociationStatus{Extensions: []string{}}, errAssociationUnsupported
}

func (a *App) SetFileAssociationEnabled(enable bool) error {
	return errAssociationUnsupported
}
