package main

import "os"

// Version is injected at build time:
//
//	wails build -ldflags "-X main.Version=v1.2.0"
//
// Local and dev builds report "dev".
var Version = "dev"

func isDevBuild() bool {
	return Version == "dev" || os.Getenv("WAILS_DEV") != ""
}
