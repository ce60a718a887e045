// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"freight-scan/internal/document"
	"freight-scan/internal/formatters"
	"freight-scan/internal/pipeline"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

type jsonFinding struct {
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Value    string `json:"value,omitempty"`
}

type jsonCorrection struct {
	Role     string `json:"role"`
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
	Source   string `json:"source"`
}

type jsonAuditEvent struct {
	Kind    string `json:"kind"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type jsonResult struct {
	Record      document.Record  `json:"record"`
	Corrections []jsonCorrection `json:"corrections,omitempty"`
	Findings    []jsonFinding    `json:"findings,omitempty"`
	AuditEvents []jsonAuditEvent `json:"audit_events,omitempty"`
}

type jsonResponse struct {
	RunID   string       `json:"run_id"`
	Results []jsonResult `json:"results"`
	Stats   struct {
		Pages               int `json:"pages"`
		Records             int `json:"records"`
		CorrectedRecords    int `json:"corrected_records"`
		RecordsWithCritical int `json:"records_with_critical"`
		ValidationErrors    int `json:"validation_errors"`
		AuditEvents         int `json:"audit_events"`
	} `json:"stats"`
}

func (f *Formatter) Format(batch *pipeline.Batch, options formatters.FormatterOptions) (string, error) {
	response := jsonResponse{
		RunID:   batch.Stats.RunID,
		Results: make([]jsonResult, 0, len(batch.Results)),
	}
	response.Stats.Pages = batch.Stats.Pages
	response.Stats.Records = batch.Stats.Records
	response.Stats.CorrectedRecords = batch.Stats.CorrectedRecords
	response.Stats.RecordsWithCritical = batch.Stats.RecordsWithCritical
	response.Stats.ValidationErrors = batch.Stats.ValidationErrors
	response.Stats.AuditEvents = batch.Stats.AuditEvents

	for i := range batch.Results {
		result := &batch.Results[i]
		jr := jsonResult{Record: result.Record}
		for _, c := range result.Corrections {
			jr.Corrections = append(jr.Corrections, jsonCorrection{
				Role:     document.RoleLabel(c.Role),
				Field:    c.Field,
				NewValue: c.NewValue,
				Source:   c.Source,
			})
		}
		for _, e := range result.Errors {
			if !options.ShowSeverity(e.Severity) {
				continue
			}
			jr.Findings = append(jr.Findings, jsonFinding{
				Severity: string(e.Severity),
				Field:    e.Field,
				Message:  e.Message,
				Value:    e.Value,
			})
		}
		for _, ev := range result.Events {
			jr.AuditEvents = append(jr.AuditEvents, jsonAuditEvent{
				Kind:    string(ev.Kind),
				Role:    document.RoleLabel(ev.Role),
				Message: ev.Message,
			})
		}
		response.Results = append(response.Results, jr)
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(jsonData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
