package engineconfig

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFromFile reads and parses a TOML engine config file at path. It
// returns a fully decoded *EngineConfig on success. Unknown TOML keys
// produce slog warnings, not errors, so that operators can add new fields
// without breaking older builds reading the same file.
func LoadFromFile(path string) (*EngineConfig, error) {
	var cfg EngineConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse engine config %s: %w", path, err)
	}

	warnUndecodedKeys(meta, path)

	return &cfg, nil
}

// LoadFromString parses TOML engine config from an in-memory string. It
// behaves identically to LoadFromFile except the source is a string rather
// than a file. The name parameter is used in log messages.
func LoadFromString(data, name string) (*EngineConfig, error) {
	var cfg EngineConfig
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse engine config %s: %w", name, err)
	}

	warnUndecodedKeys(meta, name)

	return &cfg, nil
}

func warnUndecodedKeys(meta toml.MetaData, source string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}

	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}

	slog.Warn("unknown engine config keys will be ignored",
		"source", source,
		"keys", strings.Join(keys, ", "),
	)
}
