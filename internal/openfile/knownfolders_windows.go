//go:build windows

package openfile

import (
	"errors"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows Known Folder IDs
// https://learn.microsoft.com/windows/win32/shell/knownfolderid
var (
	folderDesktop   = windows.GUID{Data1: 0xb4bfcc3a, Data2: 0xdb2c, Data3: 0x424c, Data4: [8]byte{0xb0, 0x29, 0x7f, 0xe9, 0x9a, 0x87, 0xc6, 0x41}}
	folderDocuments = windows.GUID{Data1: 0xfdd39ad0, Data2: 0x238f, Data3: 0x46af, Data4: [8]byte{0xad, 0xb4, 0x6c, 0x85, 0x48, 0x03, 0x69, 0xc7}}
	folderDownloads = windows.GUID{Data1: 0x374de290, Data2: 0x123f, Data3: 0x4565, Data4: [8]byte{0x91, 0x64, 0x39, 0xc4, 0x92, 0x5e, 0x46, 0x7b}}
)

// knownFolder asks the shell first so relocated folders (Documents moved to
// another drive, OneDrive redirection) are honoured.
func knownFolder(id windows.GUID, home, fallback string) string {
	if p, err := knownFolderPath(id); err == nil && p != "" {
		return p
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, fallback)
}

func knownFolderPath(id windows.GUID) (string, error) {
	shell32 := windows.NewLazySystemDLL("shell32.dll")
	proc := shell32.NewProc("SHGetKnownFolderPath")
	if err := shell32.Load(); err != nil {
		return "", err
	}
	if err := proc.Find(); err != nil {
		return "", err
	}

	var out *uint16
	hr, _, callErr := proc.Call(
		uintptr(unsafe.Pointer(&id)),
		uintptr(0),
		uintptr(0),
		uintptr(unsafe.Pointer(&out)),
	)
	if hr != 0 {
		if callErr != nil && callErr != windows.ERROR_SUCCESS {
			return "", callErr
		}
		return "", errors.New("SHGetKnownFolderPath failed")
	}
	if out == nil {
		return "", errors.New("SHGetKnownFolderPath returned empty")
	}
	path := windows.UTF16PtrToString(out)
	windows.CoTaskMemFree(unsafe.Pointer(out))
	return path, nil
}
