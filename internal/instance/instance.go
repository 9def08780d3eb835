// Package instance keeps the application single-instance. The first process
// takes a lock and listens on a loopback port; later processes find that
// port in instance.json and hand their launch over instead of starting a UI.
package instance

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config names the application and where its instance files live.
type Config struct {
	AppID string
	// Dir holds instance.json (and the lock file on Unix). Empty means
	// <UserCacheDir>/<AppID>.
	Dir string
}

type instanceInfo struct {
	Port  int    `json:"port"`
	Token string `json:"token"`
}

// Launch is what a second process hands to the running one.
type Launch struct {
	Token            string   `json:"token"`
	Args             []string `json:"args"`
	WorkingDirectory string   `json:"workingDirectory"`
}

func (c Config) dir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, sanitizeName(c.AppID)), nil
}

func (c Config) path(name string) (string, error) {
	dir, err := c.dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "app"
	}
	replacer := strings.NewReplacer("\\", "_", "/", "_", ":", "_", " ", "_")
	return replacer.Replace(s)
}

func writeInstanceInfo(cfg Config, info instanceInfo) error {
	p, err := cfg.path("instance.json")
	if err != nil {
		return err
	}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func readInstanceInfo(cfg Config) (instanceInfo, error) {
	p, err := cfg.path("instance.json")
	if err != nil {
		return instanceInfo{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return instanceInfo{}, err
	}
	var info instanceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return instanceInfo{}, err
	}
	if info.Port <= 0 {
		return instanceInfo{}, errors.New("invalid ipc port")
	}
	return info, nil
}
