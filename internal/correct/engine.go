// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package correct fills missing identifier and name fields by inference:
// first from associations observed in the same batch, then from the
// persistent knowledge base. Corrections only ever fill blanks — a field
// that already holds a value is never overwritten — and any ambiguity yields
// no correction at all.
package correct

import (
	"sort"
	"strings"

	"freight-scan/internal/checksum"
	"freight-scan/internal/document"
	"freight-scan/internal/knowledge"
)

// Tuning constants for name-based inference. Short names collide too easily
// to be safe lookup keys.
const (
	DefaultIndexMinNameLength = 8
	DefaultFuzzyMinNameLength = 12
)

// Options carries the inference tuning values.
type Options struct {
	// IndexMinNameLength is the minimum normalized-name length for a name
	// to enter the batch index or be used as a lookup key.
	IndexMinNameLength int

	// FuzzyMinNameLength is the minimum normalized-name length for
	// substring-containment matching.
	FuzzyMinNameLength int
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		IndexMinNameLength: DefaultIndexMinNameLength,
		FuzzyMinNameLength: DefaultFuzzyMinNameLength,
	}
}

// BatchIndex maps, per identifier-field role, normalized names to the
// multiset of identifiers observed under them in one extraction run. It is
// an explicit value scoped to a single batch: build it, pass it through the
// engine, discard it.
type BatchIndex struct {
	byRole map[document.Role]map[string]map[string]int
}

// BuildIndex scans a batch and records every (role, normalized name) pair
// that carries a valid, non-placeholder company id.
func BuildIndex(opts Options, records []document.Record) *BatchIndex {
	idx := &BatchIndex{byRole: make(map[document.Role]map[string]map[string]int)}
	for _, role := range document.Roles {
		idx.byRole[role] = make(map[string]map[string]int)
	}

	for i := range records {
		rec := &records[i]
		for _, role := range document.Roles {
			id := document.DigitsOnly(rec.Identifier(role))
			nameKey := document.NormalizeNameKey(rec.Name(role))
			if len(id) != document.CompanyIDLength || id == document.EmptyCompanyID {
				continue
			}
			if !checksum.ValidCompanyID(id) {
				continue
			}
			if len(nameKey) < opts.IndexMinNameLength {
				continue
			}
			byName := idx.byRole[role]
			if byName[nameKey] == nil {
				byName[nameKey] = make(map[string]int)
			}
			byName[nameKey][id]++
		}
	}
	return idx
}

// lookupExact returns the identifier for an exact normalized-name match,
// but only when the batch observed exactly one distinct identifier for it.
func (idx *BatchIndex) lookupExact(role document.Role, nameKey string) (string, bool) {
	ids := idx.byRole[role][nameKey]
	if len(ids) != 1 {
		return "", false
	}
	for id := range ids {
		return id, true
	}
	return "", false
}

// lookupContains tries substring containment in either direction across all
// indexed names for the role, again demanding a single distinct identifier.
func (idx *BatchIndex) lookupContains(role document.Role, nameKey string) (string, bool) {
	candidates := make(map[string]bool)
	keys := make([]string, 0, len(idx.byRole[role]))
	for indexed := range idx.byRole[role] {
		keys = append(keys, indexed)
	}
	sort.Strings(keys)
	for _, indexed := range keys {
		shorter, longer := nameKey, indexed
		if len(shorter) > len(longer) {
			shorter, longer = longer, shorter
		}
		if strings.Contains(longer, shorter) {
			for id := range idx.byRole[role][indexed] {
				candidates[id] = true
			}
			if len(candidates) > 1 {
				return "", false
			}
		}
	}
	if len(candidates) != 1 {
		return "", false
	}
	for id := range candidates {
		return id, true
	}
	return "", false
}

// Correction describes one applied fill.
type Correction struct {
	Role     document.Role
	Field    string // "identifier" or "name"
	NewValue string
	Source   string // "batch-exact", "batch-contains", "knowledge-base"
}

// Engine applies corrections to records using a batch index plus the
// knowledge base.
type Engine struct {
	opts Options
	kb   knowledge.Base

	// CorrectedRecords counts records changed by Apply since construction.
	CorrectedRecords int
}

// NewEngine builds a correction engine. kb may be nil when no knowledge base
// is configured; batch-index inference still applies.
func NewEngine(opts Options, kb knowledge.Base) *Engine {
	if opts.IndexMinNameLength <= 0 {
		opts.IndexMinNameLength = DefaultIndexMinNameLength
	}
	if opts.FuzzyMinNameLength <= 0 {
		opts.FuzzyMinNameLength = DefaultFuzzyMinNameLength
	}
	return &Engine{opts: opts, kb: kb}
}

// inferIdentifier resolves a missing identifier from a present name:
// exact in-batch match, then substring containment for long names, then the
// knowledge base scoped by role. First hit wins; ambiguity yields nothing.
func (e *Engine) inferIdentifier(idx *BatchIndex, role document.Role, name string) (string, string) {
	nameKey := document.NormalizeNameKey(name)
	if len(nameKey) < e.opts.IndexMinNameLength {
		return "", ""
	}

	if id, ok := idx.lookupExact(role, nameKey); ok {
		return id, "batch-exact"
	}
	if len(nameKey) >= e.opts.FuzzyMinNameLength {
		if id, ok := idx.lookupContains(role, nameKey); ok {
			return id, "batch-contains"
		}
	}
	if e.kb != nil {
		if id, ok := e.kb.IdentifierByName(nameKey, role); ok {
			return id, "knowledge-base"
		}
	}
	return "", ""
}

// Apply mutates one record in place, filling missing identifiers from names
// and missing names from identifiers. It returns the corrections applied;
// an empty result means the record was left untouched. Fields that already
// hold values are never overwritten, so re-running Apply on a corrected
// batch is a no-op.
func (e *Engine) Apply(idx *BatchIndex, rec *document.Record) []Correction {
	var applied []Correction

	for _, role := range document.Roles {
		id := document.DigitsOnly(rec.Identifier(role))
		name := document.NormalizeText(rec.Name(role))

		if (id == "" || id == document.EmptyCompanyID) && len(name) >= e.opts.IndexMinNameLength {
			if inferred, source := e.inferIdentifier(idx, role, name); inferred != "" {
				rec.SetIdentifier(role, inferred)
				id = inferred
				applied = append(applied, Correction{
					Role:     role,
					Field:    "identifier",
					NewValue: inferred,
					Source:   source,
				})
			}
		}

		// A well-formed company id with no usable name: the knowledge base
		// is the only source for names.
		if len(id) == document.CompanyIDLength && len(name) < 2 && e.kb != nil {
			if kbName, ok := e.kb.NameByIdentifier(id); ok {
				rec.SetName(role, kbName)
				applied = append(applied, Correction{
					Role:     role,
					Field:    "name",
					NewValue: kbName,
					Source:   "knowledge-base",
				})
			}
		}
	}

	if len(applied) > 0 {
		e.CorrectedRecords++
	}
	return applied
}
