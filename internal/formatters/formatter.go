// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"freight-scan/internal/document"
	"freight-scan/internal/pipeline"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	SeverityLevels map[document.Severity]bool // Which severities to display
	Verbose        bool                       // Whether to display detailed information
	NoColor        bool                       // Whether to disable colored output
}

// ShowSeverity reports whether findings of the given severity should be
// rendered. An empty filter means everything is shown.
func (o FormatterOptions) ShowSeverity(s document.Severity) bool {
	if len(o.SeverityLevels) == 0 {
		return true
	}
	return o.SeverityLevels[s]
}

// ParseSeverityLevels converts a comma-separated flag value ("critical,error"
// or "all") into a severity filter.
func ParseSeverityLevels(value string) (map[document.Severity]bool, error) {
	levels := make(map[document.Severity]bool)
	if value == "" || strings.EqualFold(value, "all") {
		return levels, nil
	}
	for _, part := range strings.Split(value, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "critical":
			levels[document.SeverityCritical] = true
		case "error":
			levels[document.SeverityError] = true
		case "warning":
			levels[document.SeverityWarning] = true
		default:
			return nil, fmt.Errorf("unknown severity level '%s' (expected critical, error, warning or all)", part)
		}
	}
	return levels, nil
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders one pipeline batch according to the formatter's output format
	Format(batch *pipeline.Batch, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders a batch in the named format using the default registry.
func Export(format string, batch *pipeline.Batch, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		availableFormats := List()
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(availableFormats, ", "))
	}
	return formatter.Format(batch, options)
}
