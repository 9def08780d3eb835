//go:build !windows && !darwin

package reveal

import (
	"net/url"
	"path/filepath"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/browser"
)

type platformReveal struct{}

// Reveal asks the desktop's file manager to select the file over D-Bus
// (Nautilus, Dolphin, Nemo and Thunar implement FileManager1) and falls
// back to opening the containing folder.
func (platformReveal) Reveal(path string) error {
	abs, isDir, err := target(path)
	if err != nil {
		return err
	}
	if isDir {
		return browser.OpenFile(abs)
	}
	if err := showItems(abs); err == nil {
		return nil
	}
	return browser.OpenFile(filepath.Dir(abs))
}

func showItems(abs string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	uri := (&url.URL{Scheme: "file", Path: abs}).String()
	obj := conn.Object("org.freedesktop.FileManager1", "/org/freedesktop/FileManager1")
	return obj.Call("org.freedesktop.FileManager1.ShowItems", 0, []string{uri}, "").Err
}
