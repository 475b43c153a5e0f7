package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/savemoney-app/savemoney/internal/flagx"
	"github.com/savemoney-app/savemoney/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify durations either as strings like "720h"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	DataDir    string         `json:"data_dir"`
	KeyBackend string         `json:"key_backend"`
	SessionTTL timex.Duration `json:"session_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c/-config flags. If no file is given, nothing happens. Read or
// unmarshal errors panic; the caller may recover if desired.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.KeyBackend != "" {
		cfg.KeyBackend = jc.KeyBackend
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
}
