package openfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound means a candidate did not name an existing file after the
// full search.
var ErrNotFound = errors.New("file not found")

// Resolver turns candidate strings into existing absolute paths.
type Resolver struct {
	// Getwd returns the process working directory.
	Getwd func() (string, error)
	// WellKnownDirs returns the fallback folders searched after the working
	// directory, in priority order.
	WellKnownDirs func() []string
}

// NewResolver returns a resolver bound to the real working directory and
// the user's desktop, documents, downloads and home folders.
func NewResolver() *Resolver {
	return &Resolver{
		Getwd:         os.Getwd,
		WellKnownDirs: WellKnownDirs,
	}
}

// Resolve resolves raw against the process working directory.
func (r *Resolver) Resolve(raw string) (ResolvedPath, error) {
	return r.ResolveIn(raw, "")
}

// ResolveIn resolves raw, treating workDir as the working directory when it
// is non-empty. The first step that finds an existing file wins:
// absolute path, canonical path relative to the working directory, then a
// join against each well-known folder (by file name alone when raw is an
// absolute path that no longer exists).
func (r *Resolver) ResolveIn(raw, workDir string) (ResolvedPath, error) {
	name := trimArg(raw)
	if name == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}

	if filepath.IsAbs(name) && isFile(name) {
		return ResolvedPath(filepath.Clean(name)), nil
	}

	if workDir == "" && r.Getwd != nil {
		if wd, err := r.Getwd(); err == nil {
			workDir = wd
		}
	}

	if workDir != "" && !filepath.IsAbs(name) {
		if canonical, err := filepath.EvalSymlinks(filepath.Join(workDir, name)); err == nil && isFile(canonical) {
			if abs, err := filepath.Abs(canonical); err == nil {
				return ResolvedPath(abs), nil
			}
		}
	}

	// A stale absolute path falls back to its file name.
	search := name
	if filepath.IsAbs(name) {
		search = filepath.Base(name)
	}

	dirs := make([]string, 0, 5)
	if workDir != "" {
		dirs = append(dirs, workDir)
	}
	if r.WellKnownDirs != nil {
		dirs = append(dirs, r.WellKnownDirs()...)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, search)
		if !isFile(p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		return ResolvedPath(abs), nil
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// WellKnownDirs returns desktop, documents, downloads and home, in that
// order, skipping any that cannot be determined.
func WellKnownDirs() []string {
	home, _ := os.UserHomeDir()
	var out []string
	for _, dir := range []string{
		knownFolder(folderDesktop, home, "Desktop"),
		knownFolder(folderDocuments, home, "Documents"),
		knownFolder(folderDownloads, home, "Downloads"),
		home,
	} {
		if dir != "" {
			out = append(out, dir)
		}
	}
	return out
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
