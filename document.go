package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/mimetype"
)

// MaxImageSize caps images inlined into the preview as data URLs.
const MaxImageSize = 20 * 1024 * 1024

var errNotImage = errors.New("not an image file")

func cleanDocPath(path string) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "\"")
	if path == "" {
		return "", errors.New("empty path")
	}
	return filepath.Abs(path)
}

func readDocument(path string) (string, error) {
	abs, err := cleanDocPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(abs), err)
	}
	return string(data), nil
}

func writeDocument(path, content string) error {
	abs, err := cleanDocPath(path)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if st, err := os.Stat(abs); err == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(abs, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(abs), err)
	}
	return nil
}

// imageDataURL inlines a local image referenced by the document so the
// webview can show it without file:// access.
func imageDataURL(path string) (string, error) {
	abs, err := cleanDocPath(path)
	if err != nil {
		return "", err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", filepath.Base(abs), err)
	}
	if st.IsDir() {
		return "", errNotImage
	}
	if st.Size() > MaxImageSize {
		return "", fmt.Errorf("image too large: %s (%d bytes)", filepath.Base(abs), st.Size())
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("image %s: %w", filepath.Base(abs), err)
	}
	mime := mimetype.Detect(data)
	contentType := mime.String()
	if strings.EqualFold(filepath.Ext(abs), ".svg") && (mime.Is("text/plain") || mime.Is("text/xml")) {
		contentType = "image/svg+xml"
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s (%s)", errNotImage, filepath.Base(abs), contentType)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
