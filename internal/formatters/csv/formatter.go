// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"freight-scan/internal/document"
	"freight-scan/internal/formatters"
	"freight-scan/internal/pipeline"
)

// Formatter implements CSV output formatting, one row per record.
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values, one row per extracted record"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

var header = []string{
	"document_number", "document_date", "transport_number", "transport_date",
	"emitter_id", "emitter_name", "contractor_id", "contractor_name",
	"recipient_id", "recipient_name", "pickup_place", "delivery_place",
	"receiver_name", "delivery_date", "source_line",
	"critical_findings", "error_findings", "warning_findings", "audit_events",
}

func (f *Formatter) Format(batch *pipeline.Batch, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range batch.Results {
		result := &batch.Results[i]
		rec := &result.Record

		counts := map[document.Severity]int{}
		for _, e := range result.Errors {
			if options.ShowSeverity(e.Severity) {
				counts[e.Severity]++
			}
		}

		row := []string{
			rec.DocumentNumber, rec.DocumentDate, rec.TransportNumber, rec.TransportDate,
			rec.EmitterID, rec.EmitterName, rec.ContractorID, rec.ContractorName,
			rec.RecipientID, rec.RecipientName, rec.PickupPlace, rec.DeliveryPlace,
			rec.ReceiverName, rec.DeliveryDate, strconv.Itoa(rec.SourceLine),
			strconv.Itoa(counts[document.SeverityCritical]),
			strconv.Itoa(counts[document.SeverityError]),
			strconv.Itoa(counts[document.SeverityWarning]),
			strconv.Itoa(len(result.Events)),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV output: %w", err)
	}
	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
