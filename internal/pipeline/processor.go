// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs the full batch flow: structure gate, extraction,
// in-batch correction, field validation and audit. One page of text yields
// one record; one run yields one Batch.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"freight-scan/internal/audit"
	"freight-scan/internal/checksum"
	"freight-scan/internal/config"
	"freight-scan/internal/correct"
	"freight-scan/internal/document"
	"freight-scan/internal/extract"
	"freight-scan/internal/fields"
	"freight-scan/internal/knowledge"
	"freight-scan/internal/structure"
)

// Page is one unit of extraction input: the OCR text of a single document
// page plus its position in the source file.
type Page struct {
	Number int
	Text   string
}

// Result bundles everything the pipeline produced for one record.
type Result struct {
	Record      document.Record
	Corrections []correct.Correction
	Errors      []document.ValidationError
	Events      []document.AuditEvent
}

// HasCritical reports whether any validation finding is fatal for export.
func (r *Result) HasCritical() bool {
	for _, e := range r.Errors {
		if e.Severity == document.SeverityCritical {
			return true
		}
	}
	return false
}

// Stats summarizes one pipeline run.
type Stats struct {
	RunID               string
	Pages               int
	Records             int
	CorrectedRecords    int
	RecordsWithCritical int
	ValidationErrors    int
	AuditEvents         int
	Duration            time.Duration
}

// Batch is the complete output of one run.
type Batch struct {
	Results []Result
	Stats   Stats
}

// Processor wires the pipeline stages together. Build one per configuration;
// it is not safe for concurrent use because the correction engine keeps
// per-run counters.
type Processor struct {
	structure *structure.Validator
	extractor *extract.Extractor
	fields    *fields.Validator
	engine    *correct.Engine
	auditor   *audit.Auditor

	correctOpts       correct.Options
	validateStructure bool
}

// New builds a processor from configuration. kb may be nil when no knowledge
// base is configured.
func New(cfg *config.Config, kb knowledge.Base) *Processor {
	if cfg == nil {
		cfg, _ = config.LoadConfig("")
	}

	fieldValidator := fields.NewValidator()
	fieldValidator.FailFast = cfg.Validation.FailFast
	fieldValidator.ValidateCalendarDates = cfg.Validation.ValidateCalendarDates

	auditor := audit.NewAuditor()
	auditor.MinNameLength = cfg.Correction.IndexMinNameLength

	opts := correct.Options{
		IndexMinNameLength: cfg.Correction.IndexMinNameLength,
		FuzzyMinNameLength: cfg.Correction.FuzzyMinNameLength,
	}
	return &Processor{
		structure:         structure.NewValidator(),
		extractor:         extract.NewExtractor().WithAttemptCeiling(cfg.Extraction.OCRAttemptCeiling),
		fields:            fieldValidator,
		engine:            correct.NewEngine(opts, kb),
		auditor:           auditor,
		correctOpts:       opts,
		validateStructure: cfg.Validation.ValidateStructure,
	}
}

// Process runs the whole pipeline over a batch of pages. A layout-drift
// failure on any page aborts the entire batch before any extraction output
// is produced; every other problem is captured per record and the run
// continues.
func (p *Processor) Process(pages []Page) (*Batch, error) {
	start := time.Now()

	// Structure gate first. Extracting from a drifted layout would produce
	// silently wrong records, so the batch fails as a unit.
	if p.validateStructure {
		for _, page := range pages {
			if err := p.structure.Validate(page.Text); err != nil {
				return nil, fmt.Errorf("page %d: %w", page.Number, err)
			}
		}
	}

	records := make([]document.Record, 0, len(pages))
	for _, page := range pages {
		records = append(records, p.extractor.Record(page.Text, page.Number))
	}

	// The batch index must see the records as extracted, before any
	// correction touches them.
	index := correct.BuildIndex(p.correctOpts, records)

	batch := &Batch{
		Results: make([]Result, 0, len(records)),
		Stats: Stats{
			RunID: uuid.NewString(),
			Pages: len(pages),
		},
	}

	for i := range records {
		rec := &records[i]
		corrections := p.engine.Apply(index, rec)
		errs := p.fields.ValidateRecord(rec)
		events := p.auditor.Scan(rec)

		result := Result{
			Record:      *rec,
			Corrections: corrections,
			Errors:      errs,
			Events:      events,
		}
		if result.HasCritical() {
			batch.Stats.RecordsWithCritical++
		}
		batch.Stats.ValidationErrors += len(errs)
		batch.Stats.AuditEvents += len(events)
		batch.Results = append(batch.Results, result)
	}

	batch.Stats.Records = len(batch.Results)
	batch.Stats.CorrectedRecords = p.engine.CorrectedRecords
	batch.Stats.Duration = time.Since(start)
	return batch, nil
}

// Learn teaches the knowledge base every valid (name, company id) association
// found in the given records. Records failing the company-id checksum are
// skipped, not rejected.
func Learn(learner knowledge.Learner, opts correct.Options, records []document.Record) (int, error) {
	learned := 0
	for i := range records {
		rec := &records[i]
		for _, role := range document.Roles {
			id := document.DigitsOnly(rec.Identifier(role))
			name := document.NormalizeText(rec.Name(role))
			nameKey := document.NormalizeNameKey(name)
			if len(id) != document.CompanyIDLength || id == document.EmptyCompanyID {
				continue
			}
			if !checksum.ValidCompanyID(id) {
				continue
			}
			if len(nameKey) < opts.IndexMinNameLength {
				continue
			}
			if err := learner.Learn(role, nameKey, id, name); err != nil {
				return learned, fmt.Errorf("learning %s association: %w", document.RoleLabel(role), err)
			}
			learned++
		}
	}
	return learned, nil
}
