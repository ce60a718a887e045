// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") returned error: %v", err)
	}

	if cfg.Defaults.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Defaults.Format)
	}
	if cfg.Extraction.OCRAttemptCeiling != DefaultOCRAttemptCeiling {
		t.Errorf("OCRAttemptCeiling = %d, want %d", cfg.Extraction.OCRAttemptCeiling, DefaultOCRAttemptCeiling)
	}
	if cfg.Correction.IndexMinNameLength != DefaultIndexMinNameLength {
		t.Errorf("IndexMinNameLength = %d, want %d", cfg.Correction.IndexMinNameLength, DefaultIndexMinNameLength)
	}
	if cfg.Correction.FuzzyMinNameLength != DefaultFuzzyMinNameLength {
		t.Errorf("FuzzyMinNameLength = %d, want %d", cfg.Correction.FuzzyMinNameLength, DefaultFuzzyMinNameLength)
	}
	if !cfg.Validation.ValidateStructure || !cfg.Validation.ValidateCalendarDates {
		t.Error("validation gates should default to enabled")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
defaults:
  format: json
  verbose: true
extraction:
  ocr_attempt_ceiling: 1000
correction:
  index_min_name_length: 10
  fuzzy_min_name_length: 15
knowledge_base:
  path: /var/lib/freight-scan/kb.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.Defaults.Format != "json" || !cfg.Defaults.Verbose {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Extraction.OCRAttemptCeiling != 1000 {
		t.Errorf("OCRAttemptCeiling = %d, want 1000", cfg.Extraction.OCRAttemptCeiling)
	}
	if cfg.Correction.IndexMinNameLength != 10 || cfg.Correction.FuzzyMinNameLength != 15 {
		t.Errorf("correction = %+v", cfg.Correction)
	}
	if cfg.KnowledgeBase.Path != "/var/lib/freight-scan/kb.db" {
		t.Errorf("KnowledgeBase.Path = %q", cfg.KnowledgeBase.Path)
	}

	// Booleans defaulting to true survive being absent from the file.
	if !cfg.Validation.ValidateStructure || !cfg.Validation.ValidateCalendarDates {
		t.Error("absent validation gates were reset to false")
	}
}

func TestLoadConfigExplicitValidationOff(t *testing.T) {
	path := writeConfig(t, `
validation:
  validate_structure: false
  validate_calendar_dates: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Validation.ValidateStructure || cfg.Validation.ValidateCalendarDates {
		t.Error("explicit false values were not honored")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero ceiling", "extraction:\n  ocr_attempt_ceiling: 0\n"},
		{"negative index length", "correction:\n  index_min_name_length: -1\n"},
		{"fuzzy below index", "correction:\n  index_min_name_length: 10\n  fuzzy_min_name_length: 5\n"},
		{"unknown format", "defaults:\n  format: xml\n"},
		{"invalid yaml", "defaults: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig() accepted an invalid file")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file returned nil error")
	}
}

func TestLoadConfigOrDefaultFallsBack(t *testing.T) {
	cfg := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg == nil || cfg.Defaults.Format != "text" {
		t.Fatalf("LoadConfigOrDefault() = %+v, want defaults", cfg)
	}
}
