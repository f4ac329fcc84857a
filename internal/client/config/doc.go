// Package config loads runtime configuration for the wardminutes client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or $WARDMINUTES_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-t int      timeout of one remote call (seconds)
//	-d string   path of the local SQLite database
//	-u string   name stamped into the audit fields
//	-l string   log level (debug, info, warn, error)
//	-offline    work from the local cache only
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds. Fields left out keep their earlier value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "use_remote": true,
//	  "remote_timeout": "5s",
//	  "database_path": "wardminutes.db",
//	  "autosave_interval": "60s",
//	  "user_name": "clerk",
//	  "log_file": "wardminutes.log",
//	  "log_level": "info",
//	  "shell_addr": "127.0.0.1:8080",
//	  "shell_upstream": "http://127.0.0.1:5173",
//	  "shell_manifest": ["/", "/index.html"],
//	  "shell_fallback": "/offline.html"
//	}
package config
