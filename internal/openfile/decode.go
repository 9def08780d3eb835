package openfile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DecodeError reports a channel payload that matched none of the known
// shapes.
type DecodeError struct {
	Payload string
}

func (e *DecodeError) Error() string {
	p := e.Payload
	if len(p) > 64 {
		p = p[:64] + "..."
	}
	return fmt.Sprintf("unrecognized file payload %q", p)
}

// Decoder extracts candidate path strings from platform payloads.
type Decoder struct {
	// Scheme is the application's own URL scheme (without "://"). Links of
	// the form <scheme>://open?path=... are accepted when it is set.
	Scheme string
}

// Decode returns the candidates carried by payload, in the order the shapes
// are tried: bare string, JSON list, JSON object with "paths", file:// URL
// (raw or in a "url"/"urls" field) and finally an app deep link. Callers
// take the first candidate that validates.
func (d Decoder) Decode(payload string) ([]string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, &DecodeError{Payload: payload}
	}

	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if p, ok := filePathFromURL(s); ok {
			s = p
		}
		if s != "" {
			out = append(out, s)
		}
	}

	// Raw text, or a JSON string literal carrying it.
	text := payload
	var quoted string
	if strings.HasPrefix(payload, `"`) && json.Unmarshal([]byte(payload), &quoted) == nil {
		text = strings.TrimSpace(quoted)
	}
	structured := strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{")

	if !structured && !hasScheme(text) {
		add(text)
	}

	var list []string
	listOK := strings.HasPrefix(text, "[") && json.Unmarshal([]byte(text), &list) == nil
	if listOK && len(list) > 0 {
		add(list[0])
	}

	var obj struct {
		Paths []string `json:"paths"`
		URL   string   `json:"url"`
		URLs  []string `json:"urls"`
	}
	objOK := strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &obj) == nil
	if objOK && len(obj.Paths) > 0 {
		add(obj.Paths[0])
	}

	// "[draft] notes.md" looks structured but is a plain file name.
	if structured && !listOK && !objOK {
		add(text)
	}

	var urls []string
	if !structured {
		urls = append(urls, text)
	}
	if objOK {
		if obj.URL != "" {
			urls = append(urls, obj.URL)
		}
		if len(obj.URLs) > 0 {
			urls = append(urls, obj.URLs[0])
		}
	}
	for _, u := range urls {
		if p, ok := filePathFromURL(u); ok {
			add(p)
		}
	}
	for _, u := range urls {
		if p, ok := d.pathFromDeepLink(u); ok {
			add(p)
		}
	}

	if len(out) == 0 {
		return nil, &DecodeError{Payload: payload}
	}
	return out, nil
}

// filePathFromURL percent-decodes a file:// URL into a local path.
func filePathFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len("file://") || !strings.EqualFold(raw[:len("file://")], "file://") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err == nil && u.Path != "" {
		p := u.Path
		if u.Host != "" && u.Host != "localhost" {
			// UNC: file://server/share/doc.md
			p = "//" + u.Host + p
		}
		return stripDriveSlash(p), true
	}
	rest, err := url.PathUnescape(raw[len("file://"):])
	if err != nil || rest == "" {
		return "", false
	}
	return stripDriveSlash(rest), true
}

// stripDriveSlash turns "/C:/x.md" into "C:/x.md".
func stripDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isASCIILetter(p[1]) {
		return p[1:]
	}
	return p
}

func (d Decoder) pathFromDeepLink(raw string) (string, bool) {
	if d.Scheme == "" {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Scheme, d.Scheme) {
		return "", false
	}
	q := u.Query()
	for _, key := range []string{"path", "file"} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			if p, ok := filePathFromURL(v); ok {
				return p, true
			}
			return v, true
		}
	}
	return "", false
}

// hasScheme reports whether s starts like a URL ("x://"). Windows drive
// letters ("C:\") do not count.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 1 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		if !isASCIILetter(c) && !(j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.')) {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
