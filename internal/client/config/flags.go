package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/flagx"
)

var knownFlags = []string{"-a", "-i", "-t", "-d", "-u", "-l", "-offline"}

// parseFlags populates Config fields from the command-line flags it knows
// about; other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote call timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.UserName, "u", cfg.UserName, "user name for the audit trail")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	offline := fs.Bool("offline", !cfg.UseRemote, "use the local cache only")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
	cfg.UseRemote = !*offline
}
