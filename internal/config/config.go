// Package config loads decoder limits for the command-line tools from TOML.
//
//	max_depth = 512
//	max_container_len = 1048576
//	validate_utf8 = true
//	compression = "auto"
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/synadia-labs/cborvisit/internal/source"
	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// Config is the resolved configuration of a decode run.
type Config struct {
	Decode      cbor.DecOptions
	Compression source.Compression
}

type fileConfig struct {
	MaxDepth        int    `toml:"max_depth"`
	MaxContainerLen int64  `toml:"max_container_len"`
	ValidateUTF8    bool   `toml:"validate_utf8"`
	Compression     string `toml:"compression"`
}

// Default returns the library defaults with compression auto detection.
func Default() Config {
	return Config{Compression: source.CompressionAuto}
}

// Load reads path over Default. Keys absent from the file keep their
// defaults; unknown keys are rejected. An empty path yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("load config: unknown keys %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("max_depth") {
		cfg.Decode.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_container_len") {
		cfg.Decode.MaxContainerLen = raw.MaxContainerLen
	}
	if meta.IsDefined("validate_utf8") {
		cfg.Decode.SkipUTF8Validation = !raw.ValidateUTF8
	}
	if meta.IsDefined("compression") {
		c, err := source.ParseCompression(raw.Compression)
		if err != nil {
			return Config{}, fmt.Errorf("parse compression: %w", err)
		}
		cfg.Compression = c
	}
	return cfg, nil
}
