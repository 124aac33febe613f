package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/medguide/internal/flagx"
	"github.com/dmitrijs2005/medguide/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "30s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabasePath         string         `json:"database_path"`
	SecretPath           string         `json:"secret_path"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// when neither is present no JSON is loaded. Empty JSON fields leave the
// corresponding Config values untouched. Read or unmarshal errors panic;
// a config file that was explicitly pointed at must be usable.
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

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SecretPath != "" {
		cfg.SecretPath = jc.SecretPath
	}
	if jc.SessionCheckInterval.Duration != 0 {
		cfg.SessionCheckInterval = time.Duration(jc.SessionCheckInterval.Duration)
	}
}
