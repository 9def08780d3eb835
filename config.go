package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"mdviewer/internal/openfile"
)

const (
	defaultAppID          = "MarkdownViewer"
	defaultDeepLinkScheme = "mdviewer"
	defaultShortReplayMs  = 500
	defaultLongReplayMs   = 2000
)

// Config is read from config.toml in the user config directory.
type Config struct {
	Open     OpenConfig     `toml:"open"`
	Replay   ReplayConfig   `toml:"replay"`
	Instance InstanceConfig `toml:"instance"`
}

// OpenConfig controls which files and links the app accepts.
type OpenConfig struct {
	Extensions     []string `toml:"extensions"`
	DeepLinkScheme string   `toml:"deep_link_scheme"`
}

// ReplayConfig sets when the pending file is announced again for a UI that
// subscribed late.
type ReplayConfig struct {
	ShortDelayMs int `toml:"short_delay_ms"`
	LongDelayMs  int `toml:"long_delay_ms"`
}

// InstanceConfig names the single-instance identity.
type InstanceConfig struct {
	AppID string `toml:"app_id"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "markdown-viewer", "config.toml")
}

func defaultConfig() Config {
	return Config{
		Open: OpenConfig{
			Extensions:     append([]string(nil), openfile.DefaultExtensions...),
			DeepLinkScheme: defaultDeepLinkScheme,
		},
		Replay: ReplayConfig{
			ShortDelayMs: defaultShortReplayMs,
			LongDelayMs:  defaultLongReplayMs,
		},
		Instance: InstanceConfig{AppID: defaultAppID},
	}
}

// loadConfig reads path. A missing or unparsable file yields the defaults;
// a broken config file must never keep the app from opening a document.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var fileCfg Config
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, err
	}

	if exts := openfile.NormalizeExtensions(fileCfg.Open.Extensions); len(exts) > 0 {
		cfg.Open.Extensions = exts
	}
	if scheme := strings.TrimSuffix(strings.TrimSpace(fileCfg.Open.DeepLinkScheme), "://"); scheme != "" {
		cfg.Open.DeepLinkScheme = strings.ToLower(scheme)
	}
	if fileCfg.Replay.ShortDelayMs > 0 {
		cfg.Replay.ShortDelayMs = fileCfg.Replay.ShortDelayMs
	}
	if fileCfg.Replay.LongDelayMs > 0 {
		cfg.Replay.LongDelayMs = fileCfg.Replay.LongDelayMs
	}
	if cfg.Replay.LongDelayMs < cfg.Replay.ShortDelayMs {
		cfg.Replay.LongDelayMs = cfg.Replay.ShortDelayMs
	}
	if id := strings.TrimSpace(fileCfg.Instance.AppID); id != "" {
		cfg.Instance.AppID = id
	}
	return cfg, nil
}

// ReplayDelays returns the grace periods as durations.
func (c Config) ReplayDelays() []time.Duration {
	return []time.Duration{
		time.Duration(c.Replay.ShortDelayMs) * time.Millisecond,
		time.Duration(c.Replay.LongDelayMs) * time.Millisecond,
	}
}
