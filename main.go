package main

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"mdviewer/internal/instance"
	"mdviewer/internal/openfile"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logLevel := logger.INFO
	if isDevBuild() {
		logLevel = logger.DEBUG
	}
	initLaunchLog(logLevel)

	cfgPath := defaultConfigPath()
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		launchLog.Warning("[config] " + cfgPath + ": " + err.Error() + " (using defaults)")
	}

	exe, _ := os.Executable()
	cwd, _ := os.Getwd()
	// During `wails dev` a throwaway wailsbindings binary runs main to
	// generate bindings. It must not take the lock, or the real app started
	// right after it would see itself as a second instance and exit.
	skipSingleInstance := strings.Contains(strings.ToLower(filepath.Base(exe)), "wailsbindings")
	launchLogf("main exe=%q cwd=%q args=%q", exe, cwd, strings.Join(os.Args[1:], " "))

	instCfg := instance.Config{AppID: cfg.Instance.AppID}
	primary, release := true, func() {}
	if skipSingleInstance {
		launchLogf("[instance] skipped for %q", exe)
	} else {
		var lockErr error
		primary, release, lockErr = instance.TryAcquire(instCfg)
		if lockErr != nil {
			launchLogf("[instance] acquire: %v (continuing as primary)", lockErr)
			primary, release = true, func() {}
		}
	}
	if !primary {
		launchLogf("[instance] secondary, handing launch to the running instance")
		err := instance.Notify(instCfg, instance.Launch{Args: os.Args[1:], WorkingDirectory: cwd})
		if err != nil {
			launchLogf("[instance] notify: %v", err)
		}
		return
	}
	defer release()

	var ipc *instance.Server
	if !skipSingleInstance {
		ipc, err = instance.Listen(instCfg)
		if err != nil {
			launchLogf("[instance] listen: %v (hand-off disabled)", err)
		}
	}

	bridge := &wailsBridge{}
	sub := openfile.New(openfile.Options{
		ExePath:        exe,
		Extensions:     cfg.Open.Extensions,
		DeepLinkScheme: cfg.Open.DeepLinkScheme,
		ReplayDelays:   cfg.ReplayDelays(),
		Emitter:        bridge,
		Window:         bridge,
		Logger:         launchLog,
	})
	if p, ok := sub.Seed(os.Args); ok {
		launchLogf("[openfile] pending at launch %q", p)
	}

	app := NewApp(cfg, cfgPath, bridge, sub, ipc)

	err = wails.Run(&options.App{
		Title:  "Markdown Viewer",
		Width:  1100,
		Height: 780,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		DragAndDrop: &options.DragAndDrop{
			EnableFileDrop: true,
		},
		OnStartup:  app.startup,
		OnDomReady: app.domReady,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			// Finder delivers these before OnStartup; the sources hold them
			// until the normalizer subscribes.
			OnFileOpen: app.macFileOpen.Deliver,
			OnUrlOpen:  app.macURLOpen.Deliver,
		},
		Logger:             launchLog,
		LogLevel:           logLevel,
		LogLevelProduction: logger.ERROR,
	})

	if err != nil {
		launchLog.Error("wails run: " + err.Error())
		println("Error:", err.Error())
	}
}
