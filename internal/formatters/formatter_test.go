// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"testing"

	"freight-scan/internal/document"
	"freight-scan/internal/pipeline"
)

func TestParseSeverityLevels(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    map[document.Severity]bool
		wantErr bool
	}{
		{"all keyword", "all", map[document.Severity]bool{}, false},
		{"empty value", "", map[document.Severity]bool{}, false},
		{
			"subset",
			"critical,error",
			map[document.Severity]bool{document.SeverityCritical: true, document.SeverityError: true},
			false,
		},
		{
			"case and spacing tolerated",
			" Critical , WARNING ",
			map[document.Severity]bool{document.SeverityCritical: true, document.SeverityWarning: true},
			false,
		},
		{"unknown level", "critical,bogus", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverityLevels(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverityLevels(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSeverityLevels(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for sev := range tt.want {
				if !got[sev] {
					t.Errorf("level %s missing from %v", sev, got)
				}
			}
		})
	}
}

func TestShowSeverity(t *testing.T) {
	// An empty filter shows everything.
	opts := FormatterOptions{}
	if !opts.ShowSeverity(document.SeverityWarning) {
		t.Error("empty filter hid WARNING")
	}

	opts.SeverityLevels = map[document.Severity]bool{document.SeverityCritical: true}
	if !opts.ShowSeverity(document.SeverityCritical) {
		t.Error("filter hid CRITICAL")
	}
	if opts.ShowSeverity(document.SeverityError) {
		t.Error("filter showed ERROR")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeFormatter{name: "b"})
	r.Register(&fakeFormatter{name: "a"})

	if _, ok := r.Get("a"); !ok {
		t.Error("registered formatter not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("unregistered formatter found")
	}

	names := r.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("List() = %v, want sorted [a b]", names)
	}
}

type fakeFormatter struct{ name string }

func (f *fakeFormatter) Name() string          { return f.name }
func (f *fakeFormatter) Description() string   { return "fake" }
func (f *fakeFormatter) FileExtension() string { return ".fake" }
func (f *fakeFormatter) Format(batch *pipeline.Batch, options FormatterOptions) (string, error) {
	return "", nil
}
