// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"

	"freight-scan/internal/document"
	"freight-scan/internal/formatters"
	"freight-scan/internal/pipeline"
)

func sampleBatch() *pipeline.Batch {
	batch := &pipeline.Batch{
		Results: []pipeline.Result{
			{
				Record: document.Record{DocumentNumber: "12345", SourceLine: 1},
				Errors: []document.ValidationError{
					{Field: "receiver_name", Message: "receiver is empty", Severity: document.SeverityCritical},
				},
				Events: []document.AuditEvent{
					{Kind: document.AuditMissingName, DocumentNumber: "12345", Role: document.RoleRecipient, Message: "identifier has no name"},
				},
			},
			{Record: document.Record{DocumentNumber: "12346", SourceLine: 2}},
		},
	}
	batch.Stats.RunID = "test-run"
	batch.Stats.Pages = 2
	batch.Stats.Records = 2
	batch.Stats.ValidationErrors = 1
	batch.Stats.AuditEvents = 1
	batch.Stats.RecordsWithCritical = 1
	return batch
}

func TestFormatPlainOutput(t *testing.T) {
	out, err := NewFormatter().Format(sampleBatch(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"test-run",
		"Document 12345",
		"[CRITICAL]",
		"receiver is empty",
		"[AUDIT MISSING_NAME]",
		"Records with critical findings: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// The clean record produces no block of its own outside verbose mode.
	if strings.Contains(out, "Document 12346") {
		t.Errorf("clean record rendered without verbose:\n%s", out)
	}
}

func TestFormatVerboseShowsCleanRecords(t *testing.T) {
	out, err := NewFormatter().Format(sampleBatch(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Document 12346") {
		t.Errorf("verbose output missing clean record:\n%s", out)
	}
}

func TestFormatSeverityFilterHidesFindings(t *testing.T) {
	options := formatters.FormatterOptions{
		NoColor:        true,
		SeverityLevels: map[document.Severity]bool{document.SeverityWarning: true},
	}
	out, err := NewFormatter().Format(sampleBatch(), options)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "receiver is empty") {
		t.Errorf("filtered finding still rendered:\n%s", out)
	}
}
