//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	progID            = "MarkdownViewer.Document"
	progIDKey         = `Software\Classes\` + progID
	progIDIconKey     = progIDKey + `\DefaultIcon`
	progIDShellKey    = progIDKey + `\shell`
	progIDOpenKey     = progIDShellKey + `\open`
	progIDCommandKey  = progIDOpenKey + `\command`
	progIDDisplayName = "Markdown document"
)

func openWithProgidsKey(ext string) string {
	return `Software\Classes\` + ext + `\OpenWithProgids`
}

func (a *App) CheckFileAssociation() (FileAssociationStatus, error) {
	status := FileAssociationStatus{Extensions: []string{}}

	k, err := registry.OpenKey(registry.CURRENT_USER, progIDCommandKey, registry.QUERY_VALUE)
	if err == registry.ErrNotExist {
		return status, nil
	}
	if err != nil {
		return status, err
	}
	command, _, err := k.GetStringValue("")
	_ = k.Close()
	if err != nil && err != registry.ErrNotExist {
		return status, err
	}
	status.Registered = true
	status.Command = command

	for _, ext := range a.cfg.Open.Extensions {
		linked, err := hasProgIDValue(ext)
		if err != nil {
			return status, err
		}
		if linked {
			status.Extensions = append(status.Extensions, ext)
		}
	}
	return status, nil
}

func (a *App) SetFileAssociationEnabled(enable bool) error {
	var err error
	if enable {
		err = addFileAssociation(a.cfg.Open.Extensions)
	} else {
		err = removeFileAssociation(a.cfg.Open.Extensions)
	}
	if err == nil {
		notifyAssociationChanged()
	}
	return err
}

func hasProgIDValue(ext string) (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, openWithProgidsKey(ext), registry.QUERY_VALUE)
	if err == registry.ErrNotExist {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = k.Close() }()
	_, _, err = k.GetValue(progID, nil)
	if err == registry.ErrNotExist {
		return false, nil
	}
	return err == nil, err
}

func addFileAssociation(extensions []string) error {
	exePath, err := os.Executable()
	if err != nil {
		return err
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return err
	}
	exePath = resolveStableExePath(exePath)

	// Quoted so paths with spaces survive; Explorer substitutes %1.
	command := fmt.Sprintf(`"%s" "%%1"`, exePath)
	iconValue := fmt.Sprintf(`"%s",0`, exePath)
	launchLogf("[assoc] register exe=%q extensions=%v", exePath, extensions)

	if err := ensureKeyStringValue(progIDKey, "", progIDDisplayName); err != nil {
		return err
	}
	if err := ensureKeyStringValue(progIDIconKey, "", iconValue); err != nil {
		return err
	}
	if err := ensureKeyStringValue(progIDCommandKey, "", command); err != nil {
		return err
	}
	for _, ext := range extensions {
		if err := ensureKeyStringValue(openWithProgidsKey(ext), progID, ""); err != nil {
			return fmt.Errorf("associate %s: %w", ext, err)
		}
	}
	return nil
}

func ensureKeyStringValue(subKey string, valueName string, value string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, subKey, registry.SET_VALUE|registry.CREATE_SUB_KEY)
	if err != nil {
		return err
	}
	defer func() { _ = k.Close() }()
	return k.SetStringValue(valueName, value)
}

// resolveStableExePath prefers the release binary next to a `wails dev`
// *-dev.exe, since Explorer may launch the association long after the dev
// session ends.
func resolveStableExePath(exePath string) string {
	base := strings.TrimSuffix(filepath.Base(exePath), filepath.Ext(exePath))
	if !strings.HasSuffix(strings.ToLower(base), "-dev") {
		return exePath
	}
	stable := filepath.Join(filepath.Dir(exePath), base[:len(base)-len("-dev")]+filepath.Ext(exePath))
	if st, err := os.Stat(stable); err == nil && !st.IsDir() {
		return stable
	}
	return exePath
}

func removeFileAssociation(extensions []string) error {
	for _, ext := range extensions {
		k, err := registry.OpenKey(registry.CURRENT_USER, openWithProgidsKey(ext), registry.SET_VALUE)
		if err == registry.ErrNotExist {
			continue
		}
		if err != nil {
			return err
		}
		err = k.DeleteValue(progID)
		_ = k.Close()
		if err != nil && err != registry.ErrNotExist {
			return fmt.Errorf("unassociate %s: %w", ext, err)
		}
	}

	// Children first; DeleteKey does not recurse.
	for _, key := range []string{progIDCommandKey, progIDOpenKey, progIDShellKey, progIDIconKey, progIDKey} {
		err := registry.DeleteKey(registry.CURRENT_USER, key)
		if err == nil || err == registry.ErrNotExist {
			continue
		}
		return err
	}
	launchLogf("[assoc] removed extensions=%v", extensions)
	return nil
}

// notifyAssociationChanged asks Explorer to refresh its icon and verb cache.
func notifyAssociationChanged() {
	const (
		shcneAssocChanged = 0x08000000
		shcnfIDList       = 0x0000
	)
	proc := windows.NewLazySystemDLL("shell32.dll").NewProc("SHChangeNotify")
	if err := proc.Find(); err != nil {
		return
	}
	_, _, _ = proc.Call(shcneAssocChanged, shcnfIDList, 0, 0)
}
