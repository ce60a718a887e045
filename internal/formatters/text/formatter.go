// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"freight-scan/internal/document"
	"freight-scan/internal/formatters"
	"freight-scan/internal/pipeline"
)

// Formatter implements human-readable console output
type Formatter struct{}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable console output with severity colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	errorColor    = color.New(color.FgRed)
	warningColor  = color.New(color.FgYellow)
	okColor       = color.New(color.FgGreen)
	headerColor   = color.New(color.FgCyan, color.Bold)
	dimColor      = color.New(color.Faint)
)

func severityColor(s document.Severity) *color.Color {
	switch s {
	case document.SeverityCritical:
		return criticalColor
	case document.SeverityError:
		return errorColor
	default:
		return warningColor
	}
}

func (f *Formatter) Format(batch *pipeline.Batch, options formatters.FormatterOptions) (string, error) {
	// color.NoColor is package-global in fatih/color; set it per call so the
	// flag and terminal detection both apply.
	color.NoColor = options.NoColor

	var b strings.Builder

	headerColor.Fprintf(&b, "=== Freight Document Scan ===\n")
	fmt.Fprintf(&b, "Run: %s\n\n", batch.Stats.RunID)

	for i := range batch.Results {
		result := &batch.Results[i]
		f.formatResult(&b, result, options)
	}

	f.formatSummary(&b, batch)
	return b.String(), nil
}

func (f *Formatter) formatResult(b *strings.Builder, result *pipeline.Result, options formatters.FormatterOptions) {
	docNum := result.Record.DocumentNumber
	if docNum == "" {
		docNum = "N/A"
	}

	shown := 0
	for _, e := range result.Errors {
		if options.ShowSeverity(e.Severity) {
			shown++
		}
	}
	if shown == 0 && len(result.Events) == 0 && !options.Verbose {
		return
	}

	headerColor.Fprintf(b, "Document %s", docNum)
	dimColor.Fprintf(b, " (page %d)\n", result.Record.SourceLine)

	if options.Verbose {
		fmt.Fprintf(b, "  Emitter:    %s  %s\n", result.Record.EmitterID, result.Record.EmitterName)
		fmt.Fprintf(b, "  Contractor: %s  %s\n", result.Record.ContractorID, result.Record.ContractorName)
		fmt.Fprintf(b, "  Recipient:  %s  %s\n", result.Record.RecipientID, result.Record.RecipientName)
		for _, c := range result.Corrections {
			okColor.Fprintf(b, "  corrected %s %s -> %s", document.RoleLabel(c.Role), c.Field, c.NewValue)
			dimColor.Fprintf(b, " [%s]\n", c.Source)
		}
	}

	for _, e := range result.Errors {
		if !options.ShowSeverity(e.Severity) {
			continue
		}
		severityColor(e.Severity).Fprintf(b, "  [%s]", e.Severity)
		fmt.Fprintf(b, " %s: %s", e.Field, e.Message)
		if e.Value != "" {
			dimColor.Fprintf(b, " (value: %q)", e.Value)
		}
		fmt.Fprintln(b)
	}

	for _, ev := range result.Events {
		warningColor.Fprintf(b, "  [AUDIT %s]", ev.Kind)
		fmt.Fprintf(b, " %s\n", ev.Message)
	}

	fmt.Fprintln(b)
}

func (f *Formatter) formatSummary(b *strings.Builder, batch *pipeline.Batch) {
	headerColor.Fprintf(b, "=== Summary ===\n")
	fmt.Fprintf(b, "Pages processed:    %d\n", batch.Stats.Pages)
	fmt.Fprintf(b, "Records extracted:  %d\n", batch.Stats.Records)
	fmt.Fprintf(b, "Records corrected:  %d\n", batch.Stats.CorrectedRecords)
	fmt.Fprintf(b, "Validation errors:  %d\n", batch.Stats.ValidationErrors)
	fmt.Fprintf(b, "Audit events:       %d\n", batch.Stats.AuditEvents)
	if batch.Stats.RecordsWithCritical > 0 {
		criticalColor.Fprintf(b, "Records with critical findings: %d\n", batch.Stats.RecordsWithCritical)
	} else {
		okColor.Fprintf(b, "No critical findings.\n")
	}
	fmt.Fprintf(b, "Duration: %s\n", batch.Stats.Duration.Round(time.Millisecond))
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
