package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"mdviewer/internal/docwatch"
	"mdviewer/internal/instance"
	"mdviewer/internal/openfile"
	"mdviewer/internal/reveal"
)

const eventDocumentChanged = "document-changed"

// App struct
type App struct {
	ctx     context.Context
	cfg     Config
	cfgPath string

	bridge *wailsBridge
	open   *openfile.Subsystem
	ipc    *instance.Server
	docs   *docwatch.Watcher
	reveal reveal.PlatformReveal

	macFileOpen *openfile.CallbackSource
	macURLOpen  *openfile.CallbackSource
}

// NewApp creates a new App application struct. ipc may be nil when the
// hand-off listener could not be started.
func NewApp(cfg Config, cfgPath string, bridge *wailsBridge, open *openfile.Subsystem, ipc *instance.Server) *App {
	a := &App{
		cfg:         cfg,
		cfgPath:     cfgPath,
		bridge:      bridge,
		open:        open,
		ipc:         ipc,
		reveal:      reveal.New(),
		macFileOpen: openfile.NewCallbackSource(openfile.ChannelOpenFile),
		macURLOpen:  openfile.NewCallbackSource(openfile.ChannelOpenURL),
	}
	a.docs = docwatch.New(func(path string) {
		a.bridge.Emit(eventDocumentChanged, path)
	}, docwatch.DefaultDelay)
	return a
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.bridge.setContext(ctx)

	if a.ipc != nil {
		go func() {
			if err := a.ipc.Serve(a.handleLaunch); err != nil {
				launchLogf("[instance] serve: %v", err)
			}
		}()
	}

	a.open.Normalizer.Attach(ctx, dropSource{})
	a.open.Normalizer.Attach(ctx, a.macFileOpen)
	a.open.Normalizer.Attach(ctx, a.macURLOpen)
}

// domReady announces a launch-time document; the replays cover a frontend
// that registers its listener after this point.
func (a *App) domReady(ctx context.Context) {
	a.open.Delivery.Announce()
}

func (a *App) shutdown(ctx context.Context) {
	a.open.Close()
	a.docs.Close()
	if a.ipc != nil {
		_ = a.ipc.Close()
	}
}

// handleLaunch receives a second process's arguments.
func (a *App) handleLaunch(l instance.Launch) {
	launchLogf("[instance] launch args=%q cwd=%q", strings.Join(l.Args, " "), l.WorkingDirectory)
	a.open.HandleLaunch(l.Args, l.WorkingDirectory)
}

// QueryPendingFile returns the file the OS asked us to open, or null.
func (a *App) QueryPendingFile() *string {
	p, ok := a.open.Delivery.Query()
	if !ok {
		return nil
	}
	s := p.String()
	return &s
}

// ConsumePendingFile is called by the frontend once it has opened the
// pending file.
func (a *App) ConsumePendingFile() {
	a.open.Delivery.Consume()
}

// ReportFileSignal lets the frontend forward an open request it received
// itself (for example a link click). It reports whether a document was
// accepted.
func (a *App) ReportFileSignal(channel, payload string) bool {
	_, ok := a.open.Normalizer.Handle(channel, payload)
	return ok
}

func (a *App) ReadDocument(path string) (string, error) {
	return readDocument(path)
}

func (a *App) WriteDocument(path, content string) error {
	return writeDocument(path, content)
}

func (a *App) ImageDataURL(path string) (string, error) {
	return imageDataURL(path)
}

func (a *App) documentFilters() []runtime.FileFilter {
	patterns := lo.Map(a.cfg.Open.Extensions, func(ext string, _ int) string { return "*" + ext })
	return []runtime.FileFilter{
		{DisplayName: "Markdown", Pattern: strings.Join(patterns, ";")},
		{DisplayName: "All files", Pattern: "*.*"},
	}
}

func (a *App) PickOpenPath() (string, error) {
	if a.ctx == nil {
		return "", nil
	}
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Open document",
		Filters: a.documentFilters(),
	})
}

func (a *App) PickSavePath(name string) (string, error) {
	if a.ctx == nil {
		return "", nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "untitled.md"
	}
	return runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save document",
		DefaultFilename: filepath.Base(name),
		Filters:         a.documentFilters(),
	})
}

// RevealInFileBrowser shows path selected in the OS file manager.
func (a *App) RevealInFileBrowser(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	return a.reveal.Reveal(path)
}

func (a *App) GetCurrentDir() (string, error) {
	return os.Getwd()
}

func (a *App) GetVersion() string {
	return Version
}

func (a *App) GetAppInfo() AppInfo {
	return AppInfo{
		Name:       "Markdown Viewer",
		Version:    Version,
		Extensions: a.cfg.Open.Extensions,
		Scheme:     a.cfg.Open.DeepLinkScheme,
		ConfigPath: a.cfgPath,
		LogPath:    launchLogPath(),
	}
}

// WatchDocument reloads path in the UI whenever it changes on disk,
// replacing any previously watched document.
func (a *App) WatchDocument(path string) error {
	return a.docs.Watch(path)
}

func (a *App) UnwatchDocument() {
	a.docs.Unwatch()
}
