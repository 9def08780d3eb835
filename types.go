package main

// AppInfo is what the About panel shows.
type AppInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Extensions []string `json:"extensions"`
	Scheme     string   `json:"scheme"`
	ConfigPath string   `json:"configPath"`
	LogPath    string   `json:"logPath"`
}

type FileAssociationStatus struct {
	Registered bool     `json:"registered"`
	Extensions []string `json:"extensions"`
	Command    string   `json:"command,omitempty"`
}
