package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "COURTSIDE_"
	envConfigFile = "COURTSIDE_CONFIG"
)

// listKeys are replaced wholesale rather than merged element-wise over defaults.
var listKeys = []string{"lag.columns", "rolling.stats", "rolling.windows", "rest.windows"} //nolint:gochecknoglobals // fixed key set

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) at path, or COURTSIDE_CONFIG when path is empty
//  3. env (prefix COURTSIDE_, "__" separates nested keys)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// COURTSIDE_LAG__FILL -> lag.fill, COURTSIDE_WORKERS -> workers.
	// Comma-separated values become lists.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	for _, key := range listKeys {
		if !k.Exists(key) {
			continue
		}
		switch key {
		case "lag.columns":
			cfg.Lag.Columns = k.Strings(key)
		case "rolling.stats":
			cfg.Rolling.Stats = k.Strings(key)
		case "rolling.windows":
			cfg.Rolling.Windows = k.Ints(key)
		case "rest.windows":
			cfg.Rest.Windows = k.Ints(key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
