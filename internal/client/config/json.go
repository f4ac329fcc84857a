package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/flagx"
	"github.com/dmitrijs2005/wardminutes/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero values mean "not set" and leave the Config untouched.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	UseRemote           *bool          `json:"use_remote"`
	RemoteTimeout       timex.Duration `json:"remote_timeout"`
	DatabasePath        string         `json:"database_path"`
	AutosaveInterval    timex.Duration `json:"autosave_interval"`
	UserName            string         `json:"user_name"`
	LogFile             string         `json:"log_file"`
	LogLevel            string         `json:"log_level"`
	ShellAddr           string         `json:"shell_addr"`
	ShellUpstream       string         `json:"shell_upstream"`
	ShellManifest       []string       `json:"shell_manifest"`
	ShellFallback       string         `json:"shell_fallback"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the JSON file named by -c/-config or
// $WARDMINUTES_CONFIG. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.UserName, jc.UserName)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.ShellAddr, jc.ShellAddr)
	setString(&cfg.ShellUpstream, jc.ShellUpstream)
	setString(&cfg.ShellFallback, jc.ShellFallback)
	if len(jc.ShellManifest) > 0 {
		cfg.ShellManifest = jc.ShellManifest
	}
	if jc.UseRemote != nil {
		cfg.UseRemote = *jc.UseRemote
	}

	durations := []struct {
		dst *time.Duration
		v   timex.Duration
	}{
		{&cfg.OnlineCheckInterval, jc.OnlineCheckInterval},
		{&cfg.RemoteTimeout, jc.RemoteTimeout},
		{&cfg.AutosaveInterval, jc.AutosaveInterval},
	}
	for _, d := range durations {
		if d.v.Duration > 0 {
			*d.dst = d.v.Duration
		}
	}
}
