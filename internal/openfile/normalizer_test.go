package openfile

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileURL(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	if filepath.VolumeName(p) != "" {
		u.Path = "/" + u.Path
	}
	return u.String()
}

func TestDecodeShapes(t *testing.T) {
	d := Decoder{Scheme: "mdviewer"}

	cases := map[string]string{
		"bare":         `/docs/a b.md`,
		"json string":  `"/docs/a b.md"`,
		"list":         `["/docs/a b.md", "/docs/other.md"]`,
		"paths object": `{"paths": ["/docs/a b.md"]}`,
		"file url":     `file:///docs/a%20b.md`,
		"url object":   `{"url": "file:///docs/a%20b.md"}`,
		"urls object":  `{"urls": ["file:///docs/a%20b.md"]}`,
		"deep link":    `mdviewer://open?path=%2Fdocs%2Fa%20b.md`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := d.Decode(payload)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, "/docs/a b.md", got[0])
		})
	}
}

func TestDecodeWindowsFileURL(t *testing.T) {
	got, err := Decoder{}.Decode("file:///C:/Users/me/notes.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"C:/Users/me/notes.md"}, got)
}

func TestDecodeRejectsNoise(t *testing.T) {
	d := Decoder{Scheme: "mdviewer"}
	for _, payload := range []string{"", "   ", "{}", "[]", `{"x": 1}`, "https://example.com/a.md", "mdviewer://settings"} {
		_, err := d.Decode(payload)
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr), "payload %q", payload)
	}
}

func TestNormalizerDecodesAllShapesToSamePath(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "fixed doc.md")
	s, em, _ := newTestSubsystem(t, tempDir(t))

	list, _ := json.Marshal([]string{p})
	obj, _ := json.Marshal(map[string]any{"paths": []string{p}})
	urlObj, _ := json.Marshal(map[string]any{"url": fileURL(p)})

	payloads := []string{p, string(list), string(obj), fileURL(p), string(urlObj)}
	for _, payload := range payloads {
		got, ok := s.Normalizer.Handle(ChannelOpenFile, payload)
		require.True(t, ok, "payload %q", payload)
		assert.Equal(t, ResolvedPath(p), got)
	}

	pending, ok := s.Delivery.Query()
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), pending)
	assert.Equal(t, len(payloads), em.count(EventFileAssociation))
}

func TestNormalizerRejectsMissingFile(t *testing.T) {
	dir := tempDir(t)
	s, em, _ := newTestSubsystem(t, dir)

	_, ok := s.Normalizer.Handle(ChannelOpenFile, filepath.Join(dir, "ghost.md"))
	assert.False(t, ok)
	_, pending := s.Slot.Get()
	assert.False(t, pending)
	assert.Empty(t, em.snapshot())
}

func TestNormalizerValidation(t *testing.T) {
	dir := tempDir(t)
	writeFile(t, dir, "image.png")
	writeFile(t, dir, "--weird.md")
	s, _, _ := newTestSubsystem(t, dir)

	for _, payload := range []string{
		"--weird.md",
		filepath.Join(dir, "image.png"),
		"mdviewer",
		"not json {",
	} {
		_, ok := s.Normalizer.Handle(ChannelDrop, payload)
		assert.False(t, ok, "payload %q", payload)
	}
}

func TestNormalizerUnknownChannel(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "doc.md")
	s, _, _ := newTestSubsystem(t, dir)

	_, ok := s.Normalizer.Handle("drag-over", p)
	assert.False(t, ok)
}

func TestNormalizerFallsThroughCandidates(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "real.md")
	s, _, _ := newTestSubsystem(t, dir)

	// The "url" field is tried after the first path fails to resolve.
	payload, _ := json.Marshal(map[string]any{
		"paths": []string{filepath.Join(dir, "gone.md")},
		"url":   fileURL(p),
	})
	got, ok := s.Normalizer.Handle(ChannelDeepLink, string(payload))
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), got)
}

func TestNormalizerDuplicatePushIsHarmless(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "dup.md")
	s, em, _ := newTestSubsystem(t, dir)

	s.Normalizer.Handle(ChannelOpenFile, p)
	s.Normalizer.Handle(ChannelOpenURL, fileURL(p))

	got, ok := s.Delivery.Query()
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), got)
	for _, e := range em.snapshot() {
		assert.Equal(t, []any{p}, e.Data)
	}
}

func TestNormalizerAttachCallbackSource(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "early.md")
	s, em, _ := newTestSubsystem(t, dir)

	src := NewCallbackSource(ChannelOpenFile)
	src.Deliver(p) // before anyone listens, like a macOS launch event

	s.Normalizer.Attach(context.Background(), src)
	got, ok := s.Delivery.Query()
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), got)

	other := writeFile(t, dir, "late.md")
	src.Deliver(other)
	got, _ = s.Delivery.Query()
	assert.Equal(t, ResolvedPath(other), got)
	assert.Equal(t, 2, em.count(EventFileAssociation))
}

func TestCallbackSourceKeepsOrderDuringFlush(t *testing.T) {
	dir := tempDir(t)
	first := writeFile(t, dir, "first.md")
	second := writeFile(t, dir, "second.md")
	s, _, _ := newTestSubsystem(t, dir)

	src := NewCallbackSource(ChannelOpenFile)
	src.Deliver(first)

	var order []string
	src.Subscribe(context.Background(), func(channel, payload string) {
		if payload == first {
			// The OS reports the next file while the queued one is still
			// being handled.
			done := make(chan struct{})
			go func() {
				defer close(done)
				src.Deliver(second)
			}()
			<-done
		}
		s.Normalizer.Handle(channel, payload)
		order = append(order, payload)
	})

	assert.Equal(t, []string{first, second}, order)
	got, ok := s.Delivery.Query()
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(second), got)

	third := writeFile(t, dir, "third.md")
	src.Deliver(third)
	got, _ = s.Delivery.Query()
	assert.Equal(t, ResolvedPath(third), got)
}

func TestDecodeBracketedFileName(t *testing.T) {
	d := Decoder{Scheme: "mdviewer"}
	for _, payload := range []string{"[draft] notes.md", "{notes}.md", `"[draft] notes.md"`} {
		got, err := d.Decode(payload)
		require.NoError(t, err, "payload %q", payload)
		assert.Equal(t, []string{strings.Trim(payload, `"`)}, got)
	}
}

func TestNormalizerBracketedFileName(t *testing.T) {
	dir := tempDir(t)
	p := writeFile(t, dir, "[draft] notes.md")
	s, _, _ := newTestSubsystem(t, dir)

	got, ok := s.Normalizer.Handle(ChannelDrop, p)
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), got)

	got, ok = s.Normalizer.Handle(ChannelDrop, "[draft] notes.md")
	require.True(t, ok)
	assert.Equal(t, ResolvedPath(p), got)
}
