// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"testing"

	"freight-scan/internal/document"
	"freight-scan/internal/interchange"
	"freight-scan/internal/pipeline"
)

func TestEmitInterchangeKeepsFlaggedRecords(t *testing.T) {
	clean := document.Record{
		DocumentNumber:  "12345",
		DocumentDate:    "01/02/2024",
		EmitterID:       "11222333000181",
		EmitterName:     "TRANSPORTADORA ACME LTDA",
		TransportNumber: "98765",
		TransportDate:   "01/02/2024",
		DeliveryDate:    "05/02/2024",
		ReceiverName:    "JOAO DA SILVA",
	}
	flagged := document.Record{
		DocumentNumber: "12346",
		DocumentDate:   "02/02/2024",
		EmitterName:    "TRANSPORTADORA ACME LTDA",
	}

	batch := &pipeline.Batch{
		Results: []pipeline.Result{
			{Record: clean},
			{
				Record: flagged,
				Errors: []document.ValidationError{{
					Field:    "emitter_id",
					Message:  "emitter identifier is empty",
					Severity: document.SeverityCritical,
				}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "interchange.txt")
	if err := emitInterchange(path, batch); err != nil {
		t.Fatal(err)
	}

	parsed, err := interchange.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The flagged record is emitted alongside the clean one so a human can
	// fix it in the generated file.
	if len(parsed.Shipments) != 2 {
		t.Fatalf("parsed %d shipments, want 2", len(parsed.Shipments))
	}
	if parsed.Shipments[0].DocumentNumber != "12345" || parsed.Shipments[1].DocumentNumber != "12346" {
		t.Errorf("shipments = %q, %q, want 12345 then 12346",
			parsed.Shipments[0].DocumentNumber, parsed.Shipments[1].DocumentNumber)
	}

	// Only the clean record carries delivery data, so exactly one CC line.
	if len(parsed.Deliveries) != 1 || parsed.Deliveries[0].TransportNumber != "98765" {
		t.Errorf("deliveries = %+v, want one for CT-e 98765", parsed.Deliveries)
	}
}
