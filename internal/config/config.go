// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Default settings for output rendering.
	Defaults struct {
		Format         string `yaml:"format"`
		SeverityLevels string `yaml:"severity_levels"`
		Verbose        bool   `yaml:"verbose"`
		NoColor        bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Extraction tuning.
	Extraction struct {
		// OCRAttemptCeiling caps the combinatorial noisy-OCR identifier
		// recovery. Untraced tuning constant; kept configurable.
		OCRAttemptCeiling int `yaml:"ocr_attempt_ceiling"`
	} `yaml:"extraction"`

	// Validation behavior.
	Validation struct {
		// FailFast stops field validation at the first finding instead of
		// collecting everything.
		FailFast bool `yaml:"fail_fast"`
		// ValidateStructure gates each batch on the required section labels.
		ValidateStructure bool `yaml:"validate_structure"`
		// ValidateCalendarDates additionally checks dd/mm/yyyy dates exist.
		ValidateCalendarDates bool `yaml:"validate_calendar_dates"`
	} `yaml:"validation"`

	// Correction tuning.
	Correction struct {
		// IndexMinNameLength is the minimum normalized-name length for
		// batch-index and knowledge-base lookups.
		IndexMinNameLength int `yaml:"index_min_name_length"`
		// FuzzyMinNameLength is the minimum normalized-name length for
		// substring-containment matching.
		FuzzyMinNameLength int `yaml:"fuzzy_min_name_length"`
	} `yaml:"correction"`

	// KnowledgeBase points at the persistent name/identifier store.
	KnowledgeBase struct {
		Path string `yaml:"path"`
	} `yaml:"knowledge_base"`
}

// Default tuning values. The numeric constants are inherited tuning with no
// principled derivation; they are kept configurable rather than justified.
const (
	DefaultOCRAttemptCeiling  = 45000
	DefaultIndexMinNameLength = 8
	DefaultFuzzyMinNameLength = 12
)

// LoadConfig loads configuration from the specified file path. An empty path
// returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	config.Defaults.Format = "text"
	config.Defaults.SeverityLevels = "all"
	config.Extraction.OCRAttemptCeiling = DefaultOCRAttemptCeiling
	config.Validation.ValidateStructure = true
	config.Validation.ValidateCalendarDates = true
	config.Correction.IndexMinNameLength = DefaultIndexMinNameLength
	config.Correction.FuzzyMinNameLength = DefaultFuzzyMinNameLength

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Booleans that default to true must survive being absent from the
	// file: YAML unmarshaling would otherwise reset them to false.
	defaultValidateStructure := config.Validation.ValidateStructure
	defaultValidateCalendar := config.Validation.ValidateCalendarDates

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if !containsField(data, "validation", "validate_structure") {
		config.Validation.ValidateStructure = defaultValidateStructure
	}
	if !containsField(data, "validation", "validate_calendar_dates") {
		config.Validation.ValidateCalendarDates = defaultValidateCalendar
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	for _, name := range []string{
		"config.yaml",
		"freight-scan.yaml",
		"freight-scan.yml",
		".freight-scan.yaml",
		".freight-scan.yml",
	} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, candidate := range []string{
		filepath.Join(xdgConfig, "freight-scan", "config.yaml"),
		filepath.Join(xdgConfig, "freight-scan", "config.yml"),
		filepath.Join(home, ".freight-scan.yaml"),
	} {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it returns
// a default configuration — callers should not crash on a bad config file.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// ValidateConfig checks the configuration for out-of-range values.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if config.Extraction.OCRAttemptCeiling <= 0 {
		return fmt.Errorf("extraction.ocr_attempt_ceiling must be positive, got %d",
			config.Extraction.OCRAttemptCeiling)
	}
	if config.Correction.IndexMinNameLength <= 0 {
		return fmt.Errorf("correction.index_min_name_length must be positive, got %d",
			config.Correction.IndexMinNameLength)
	}
	if config.Correction.FuzzyMinNameLength < config.Correction.IndexMinNameLength {
		return fmt.Errorf("correction.fuzzy_min_name_length (%d) must not be below index_min_name_length (%d)",
			config.Correction.FuzzyMinNameLength, config.Correction.IndexMinNameLength)
	}
	switch config.Defaults.Format {
	case "", "text", "json", "csv":
	default:
		return fmt.Errorf("unknown defaults.format %q", config.Defaults.Format)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// containsField checks if a nested field exists in the YAML data.
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}
