// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package audit re-scans corrected records and emits one structured event
// per issue the correction engine could not resolve. Audit is strictly
// read-only: it never mutates, drops or blocks a record — the events exist
// so a human can fix the emitted file in place.
package audit

import (
	"fmt"
	"unicode/utf8"

	"freight-scan/internal/checksum"
	"freight-scan/internal/document"
)

// MinSearchableNameLength mirrors the correction engine's index threshold: a
// blank identifier whose name is shorter than this could never have been
// resolved by inference.
const MinSearchableNameLength = 8

// Auditor scans records for unresolved issues.
type Auditor struct {
	// MinNameLength below which a name cannot be used to search for a
	// missing identifier.
	MinNameLength int
}

// NewAuditor returns an auditor with default thresholds.
func NewAuditor() *Auditor {
	return &Auditor{MinNameLength: MinSearchableNameLength}
}

// Scan returns the audit events for one record.
func (a *Auditor) Scan(rec *document.Record) []document.AuditEvent {
	var events []document.AuditEvent
	docNum := rec.DocumentNumber
	if docNum == "" {
		docNum = "N/A"
	}

	// Personal id where a company id is required: contractor and recipient
	// first, the emitter handled with its stricter rules below.
	for _, role := range []document.Role{document.RoleContractor, document.RoleRecipient} {
		id := document.DigitsOnly(rec.Identifier(role))
		if len(id) == document.PersonalIDLength && checksum.ValidPersonalID(id) {
			events = append(events, document.AuditEvent{
				Kind:           document.AuditPersonalIDForCompany,
				DocumentNumber: docNum,
				Role:           role,
				Message: fmt.Sprintf("%s identifier is a personal id (%s) where a company id is required; "+
					"the record was kept — replace it with a valid company id", document.RoleLabel(role), id),
			})
		}
	}

	// Identifier present but the name is still blank after correction.
	for _, role := range document.Roles {
		id := document.DigitsOnly(rec.Identifier(role))
		name := document.NormalizeText(rec.Name(role))
		if id != "" && utf8.RuneCountInString(name) < 2 {
			events = append(events, document.AuditEvent{
				Kind:           document.AuditMissingName,
				DocumentNumber: docNum,
				Role:           role,
				Message: fmt.Sprintf("identifier %s (%s) has no name and none was found in the knowledge base; "+
					"fill the name manually", id, document.RoleLabel(role)),
			})
		}

		// Identifier blank and the name too short to ever search on.
		if document.IsAbsentIdentifier(id) && utf8.RuneCountInString(document.NormalizeNameKey(name)) < a.MinNameLength {
			events = append(events, document.AuditEvent{
				Kind:           document.AuditMissingIdentifier,
				DocumentNumber: docNum,
				Role:           role,
				Message: fmt.Sprintf("%s identifier is blank and the name %q is too short to search on",
					document.RoleLabel(role), name),
			})
		}
	}

	// Emitter-specific findings.
	emitterID := document.DigitsOnly(rec.EmitterID)
	if emitterID != "" {
		switch {
		case len(emitterID) == document.PersonalIDLength && checksum.ValidPersonalID(emitterID):
			events = append(events, document.AuditEvent{
				Kind:           document.AuditEmitterPersonalID,
				DocumentNumber: docNum,
				Role:           document.RoleEmitter,
				Message: fmt.Sprintf("emitter identifier is a personal id (%s); replace it with a valid company id",
					emitterID),
			})
		case len(emitterID) != document.CompanyIDLength:
			events = append(events, document.AuditEvent{
				Kind:           document.AuditEmitterBadLength,
				DocumentNumber: docNum,
				Role:           document.RoleEmitter,
				Message: fmt.Sprintf("emitter identifier has wrong length (%d digits: %s)",
					len(emitterID), emitterID),
			})
		case !checksum.ValidCompanyID(emitterID):
			events = append(events, document.AuditEvent{
				Kind:           document.AuditEmitterBadChecksum,
				DocumentNumber: docNum,
				Role:           document.RoleEmitter,
				Message: fmt.Sprintf("emitter company id %s fails Module 11 validation", emitterID),
			})
		}
	}

	return events
}
