//go:build windows

package reveal

import "os/exec"

type platformReveal struct{}

func (platformReveal) Reveal(path string) error {
	abs, isDir, err := target(path)
	if err != nil {
		return err
	}
	if isDir {
		return exec.Command("explorer.exe", abs).Start()
	}
	return exec.Command("explorer.exe", "/select,"+abs).Start()
}
