// Package config resolves tenderbase settings from (in ascending
// precedence) built-in defaults, a YAML config file, environment
// variables, and CLI flags. Every resolved value keeps its provenance so
// `tenderbase config` can show the user exactly where a setting came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tenderbase/tenderbase/internal/store"
)

type ValueSource string

const (
	SourceDefault ValueSource = "default"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
)

// ResolvedValue is a setting plus where it was set. From names the config
// file, environment variable, or flag that supplied the value.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLIDBPath  string
	CLICountry string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath      ResolvedValue `json:"db_path"`
	Country     ResolvedValue `json:"country"`
	SearchLimit ResolvedValue `json:"search_limit"`
}

type fileConfig struct {
	DBPath  string `yaml:"db_path"`
	Country string `yaml:"country"`
	Search  struct {
		MaxResults int `yaml:"max_results"`
	} `yaml:"search"`
}

const (
	defaultCountry     = "New Zealand"
	defaultSearchLimit = 20
)

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tenderbase", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath:  path,
		DBPath:      ResolvedValue{Value: store.DefaultDBPath, Source: SourceDefault, From: "built-in default"},
		Country:     ResolvedValue{Value: defaultCountry, Source: SourceDefault, From: "built-in default"},
		SearchLimit: ResolvedValue{Value: strconv.Itoa(defaultSearchLimit), Source: SourceDefault, From: "built-in default"},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.Country, cfg.Country, SourceConfig, path)
		if cfg.Search.MaxResults > 0 {
			apply(&out.SearchLimit, strconv.Itoa(cfg.Search.MaxResults), SourceConfig, path)
		}
	}

	applyEnv(&out.DBPath, "TENDERBASE_DB")
	applyEnv(&out.DBPath, "TENDERBASE_DB_PATH")
	applyEnv(&out.Country, "TENDERBASE_COUNTRY")
	applyEnv(&out.SearchLimit, "TENDERBASE_SEARCH_LIMIT")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.Country, opts.CLICountry, SourceCLI, "--country")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}

	return out, nil
}

// EffectiveSearchLimit parses the resolved search limit. Values that are
// not positive integers fall back to the built-in default.
func (r ResolvedConfig) EffectiveSearchLimit() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.SearchLimit.Value))
	if err != nil || n <= 0 {
		return defaultSearchLimit
	}
	return n
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
