// Package config loads runtime configuration for the Save Money CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   data directory
//	-k string   key backend: keyring or file
//	-t int      session TTL (hours)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the TTL, so values can be either
// strings like "720h" or integer nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.config/savemoney",
//	  "key_backend": "keyring",
//	  "session_ttl": "720h"
//	}
package config
