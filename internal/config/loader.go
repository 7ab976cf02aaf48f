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

// Environment wiring.
const (
	envPrefix     = "MEDALS_"
	envConfigFile = "MEDALS_CONFIG"
	keyAPIURLs    = "api_urls"
)

// LoadOption adjusts a Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file string
}

// WithFile loads the given YAML file instead of the one named by MEDALS_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or MEDALS_CONFIG
//  3. env (prefix MEDALS_)
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	o := &loadOptions{file: os.Getenv(envConfigFile)}
	for _, opt := range opts {
		opt(o)
	}

	base := New()
	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	// MEDALS_FRIENDS_FILE -> friends_file. Underscores are kept to match the
	// flat koanf tags; MEDALS_API_URLS is split on commas.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == keyAPIURLs {
			urls := SplitList(value)
			if len(urls) == 0 {
				return "", nil
			}
			return key, urls
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Lists replace the defaults rather than merging element-wise.
	cfg := *base
	cfg.APIURLs = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if k.Exists(keyAPIURLs) {
		cfg.APIURLs = SplitList(strings.Join(cfg.APIURLs, ","))
	} else {
		cfg.APIURLs = base.APIURLs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SplitList splits a comma-separated list, trimming items and dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
