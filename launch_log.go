package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// launchLog records how each launch was routed (primary or hand-off, and
// which file resolved). It lives in the temp dir so that a double-clicked
// file which never opened can be diagnosed without a debug build.
var launchLog logger.Logger = newLaunchLogger(logger.NewDefaultLogger(), logger.INFO)

func launchLogPath() string {
	return filepath.Join(os.TempDir(), "mdviewer-launch.log")
}

func initLaunchLog(level logger.LogLevel) {
	launchLog = newLaunchLogger(logger.NewFileLogger(launchLogPath()), level)
}

func launchLogf(format string, args ...any) {
	launchLog.Info(fmt.Sprintf(format, args...))
}

// launchLogger stamps each line with the time and drops lines below level.
// Wails applies LogLevel only to the lines it writes itself.
type launchLogger struct {
	out   logger.Logger
	level logger.LogLevel
	now   func() time.Time
}

func newLaunchLogger(out logger.Logger, level logger.LogLevel) *launchLogger {
	return &launchLogger{out: out, level: level, now: time.Now}
}

func (l *launchLogger) stamp(message string) string {
	return l.now().Format(time.RFC3339) + " " + message
}

func (l *launchLogger) Print(message string) {
	l.out.Print(l.stamp(message))
}

func (l *launchLogger) Trace(message string) {
	if l.level <= logger.TRACE {
		l.out.Trace(l.stamp(message))
	}
}

func (l *launchLogger) Debug(message string) {
	if l.level <= logger.DEBUG {
		l.out.Debug(l.stamp(message))
	}
}

func (l *launchLogger) Info(message string) {
	if l.level <= logger.INFO {
		l.out.Info(l.stamp(message))
	}
}

func (l *launchLogger) Warning(message string) {
	if l.level <= logger.WARNING {
		l.out.Warning(l.stamp(message))
	}
}

func (l *launchLogger) Error(message string) {
	if l.level <= logger.ERROR {
		l.out.Error(l.stamp(message))
	}
}

func (l *launchLogger) Fatal(message string) {
	l.out.Fatal(l.stamp(message))
}
