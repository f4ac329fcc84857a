package config

import "time"

// Config holds runtime settings for the wardminutes client and its offline
// shell.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration

	// UseRemote turns the document store on. When false the client works
	// from the local cache only.
	UseRemote     bool
	RemoteTimeout time.Duration

	DatabasePath     string
	AutosaveInterval time.Duration
	UserName         string

	// LogFile is rotated by size. Empty means stderr.
	LogFile  string
	LogLevel string

	ShellAddr     string
	ShellUpstream string
	ShellManifest []string
	ShellFallback string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.UseRemote = true
	c.RemoteTimeout = 5 * time.Second
	c.DatabasePath = "wardminutes.db"
	c.AutosaveInterval = 60 * time.Second
	c.UserName = "clerk"
	c.LogFile = "wardminutes.log"
	c.LogLevel = "info"
	c.ShellAddr = "127.0.0.1:8080"
	c.ShellUpstream = "http://127.0.0.1:5173"
	c.ShellManifest = []string{"/", "/index.html", "/manifest.json", "/offline.html"}
	c.ShellFallback = "/offline.html"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
