// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package structure gates a batch on the presence of the section labels the
// extraction pipeline depends on. A missing label means the upstream document
// template changed, and the whole batch is aborted before extraction.
package structure

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// requiredLabels maps each required section label to the pattern that
// detects it. Patterns are matched case-insensitively against the raw page
// text.
var requiredLabels = map[string]*regexp.Regexp{
	"EMITENTE":     regexp.MustCompile(`(?i)EMITENTE`),
	"DESTINATARIO": regexp.MustCompile(`(?i)DESTINAT[ÁA]RIO`),
	"CONTRATANTE":  regexp.MustCompile(`(?i)CONTRA(?:TA)?NTE`),
	"CTE":          regexp.MustCompile(`(?i)CT-?E|N[º°]\s*CT`),
	"CNPJ_CPF":     regexp.MustCompile(`(?i)CNPJ[/\s]?CPF|CPF[/\s]?CNPJ|DOCUMENTO`),
}

// LayoutDriftError is raised when required section labels are absent from a
// page. It is fatal for the whole batch and names every missing label.
type LayoutDriftError struct {
	MissingLabels []string
}

func (e *LayoutDriftError) Error() string {
	return fmt.Sprintf(
		"document layout drift: required labels not found: %s (upstream template may have changed)",
		strings.Join(e.MissingLabels, ", "))
}

// Validator checks raw page text against the required-label set. The match
// map is rebuilt on every call.
type Validator struct {
	found   map[string]bool
	missing []string
}

// NewValidator returns a layout validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that every required label matches the page text. On
// failure it returns a *LayoutDriftError naming all missing labels.
func (v *Validator) Validate(pageText string) error {
	v.check(pageText)
	if len(v.missing) > 0 {
		return &LayoutDriftError{MissingLabels: append([]string(nil), v.missing...)}
	}
	return nil
}

// Check is the non-failing variant: it returns the per-label match map for
// diagnostics.
func (v *Validator) Check(pageText string) map[string]bool {
	v.check(pageText)
	found := make(map[string]bool, len(v.found))
	for label, ok := range v.found {
		found[label] = ok
	}
	return found
}

func (v *Validator) check(pageText string) {
	v.found = make(map[string]bool, len(requiredLabels))
	v.missing = v.missing[:0]
	for label, pattern := range requiredLabels {
		ok := pattern.MatchString(pageText)
		v.found[label] = ok
		if !ok {
			v.missing = append(v.missing, label)
		}
	}
	sort.Strings(v.missing)
}

// Report renders the last validation as a human-readable summary.
func (v *Validator) Report() string {
	if len(v.found) == 0 {
		return "no structure validation performed yet"
	}

	labels := make([]string, 0, len(v.found))
	for label := range v.found {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString("=== Document Structure Validation ===\n")
	for _, label := range labels {
		status := "FOUND"
		if !v.found[label] {
			status = "MISSING"
		}
		fmt.Fprintf(&b, "  %-15s: %s\n", label, status)
	}
	if len(v.missing) > 0 {
		b.WriteString("\nMissing labels indicate a possible upstream layout change.\n")
	} else {
		b.WriteString("\nAll required labels found.\n")
	}
	return b.String()
}
