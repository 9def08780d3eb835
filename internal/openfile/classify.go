package openfile

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/samber/lo"
)

// DefaultExtensions are the document types the viewer accepts.
var DefaultExtensions = []string{".md", ".markdown", ".txt"}

// Classifier picks document candidates out of a process argument list.
type Classifier struct {
	extensions map[string]struct{}
	exeBase    string
	exeExt     string
	slashFlags bool
}

// NewClassifier builds a classifier for the given executable path.
// Extensions may be given with or without the leading dot; an empty list
// means DefaultExtensions.
func NewClassifier(exePath string, extensions []string) *Classifier {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	base := strings.ToLower(filepath.Base(exePath))
	if exePath == "" {
		base = ""
	}
	return &Classifier{
		extensions: lo.SliceToMap(NormalizeExtensions(extensions), func(ext string) (string, struct{}) {
			return ext, struct{}{}
		}),
		exeBase:    base,
		exeExt:     strings.ToLower(filepath.Ext(base)),
		slashFlags: runtime.GOOS == "windows",
	}
}

// NormalizeExtensions lowercases, dot-prefixes and de-duplicates extensions.
func NormalizeExtensions(extensions []string) []string {
	out := lo.FilterMap(extensions, func(ext string, _ int) (string, bool) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return "", false
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext, true
	})
	return lo.Uniq(out)
}

// Classify returns the single document candidate carried by args, where
// args[0] is the executable. Arguments are scanned from the end because the
// OS appends the file path last; the first argument that is neither a flag
// nor the executable itself decides the result.
func (c *Classifier) Classify(args []string) (Candidate, bool) {
	if len(args) <= 1 {
		return Candidate{}, false
	}
	for i := len(args) - 1; i >= 1; i-- {
		arg := trimArg(args[i])
		if arg == "" || c.IsFlag(arg) || c.NamesExecutable(arg) {
			continue
		}
		if !c.Accepts(arg) {
			return Candidate{}, false
		}
		return Candidate{Value: arg, Source: SourceCLIArgs}, true
	}
	return Candidate{}, false
}

// ClassifyAll applies the same rules to every argument. args must not
// include the executable; this is what a second launch hands over.
func (c *Classifier) ClassifyAll(args []string) []Candidate {
	var out []Candidate
	for _, raw := range args {
		arg := trimArg(raw)
		if arg == "" || c.IsFlag(arg) || c.NamesExecutable(arg) || !c.Accepts(arg) {
			continue
		}
		out = append(out, Candidate{Value: arg, Source: SourceSecondInstanceArgs})
	}
	return out
}

// Accepts reports whether path carries one of the configured extensions.
func (c *Classifier) Accepts(path string) bool {
	_, ok := c.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsFlag reports whether arg looks like a command-line switch. A leading
// slash only counts on Windows; elsewhere it starts an absolute path.
func (c *Classifier) IsFlag(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return true
	}
	return c.slashFlags && strings.HasPrefix(arg, "/")
}

// NamesExecutable reports whether arg refers to the application binary.
func (c *Classifier) NamesExecutable(arg string) bool {
	if c.exeBase == "" {
		return false
	}
	base := strings.ToLower(filepath.Base(arg))
	if base == c.exeBase {
		return true
	}
	return c.exeExt != "" && strings.ToLower(filepath.Ext(base)) == c.exeExt
}

func trimArg(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"")
}
