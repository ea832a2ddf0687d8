package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("config: unknown file format")

const campusFile = "campus.yaml"

// LoadCampus loads the campus runner configuration.
// Search order: customPath -> ~/.campus/configs/campus.yaml -> ./configs/campus.yaml -> embedded default.
// Values missing from a file keep their defaults.
func LoadCampus(customPath string) (CampusConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultCampusConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := decode(customPath, data)
		if err != nil {
			return DefaultCampusConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return DefaultCampusConfig(), fmt.Errorf("%s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(campusFile), filepath.Join("configs", campusFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decode(path, data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	cfg, err := decode(campusFile, defaultCampusYAML)
	if err != nil {
		return DefaultCampusConfig(), nil
	}
	return cfg, nil
}

// decode parses data on top of the hardcoded defaults, choosing the
// format from the file extension.
func decode(path string, data []byte) (CampusConfig, error) {
	cfg := DefaultCampusConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".campus", "configs", filename)
}
