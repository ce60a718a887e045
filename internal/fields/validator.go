// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fields validates every extracted field of a record against format
// and checksum rules. Validation is non-destructive: findings are collected
// and attached to the record, which always continues through the pipeline so
// a human can fix it in place.
package fields

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"freight-scan/internal/checksum"
	"freight-scan/internal/document"
)

// Field size limits.
const (
	DocumentNumberMinDigits  = 4
	DocumentNumberMaxDigits  = 6
	TransportNumberMinDigits = 1
	TransportNumberMaxDigits = 9
	NameMinLength            = 3
	ReceiverMinLength        = 3
)

var (
	datePattern            = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	documentNumberPattern  = regexp.MustCompile(fmt.Sprintf(`^\d{%d,%d}$`, DocumentNumberMinDigits, DocumentNumberMaxDigits))
	transportNumberPattern = regexp.MustCompile(fmt.Sprintf(`^\d{%d,%d}$`, TransportNumberMinDigits, TransportNumberMaxDigits))
)

// Validator checks extracted records. With FailFast set it stops at the
// first finding; the default collects everything.
type Validator struct {
	FailFast bool

	// ValidateCalendarDates additionally checks that a well-formed date
	// exists in the calendar.
	ValidateCalendarDates bool
}

// NewValidator returns a validator with the default collect-all behavior.
func NewValidator() *Validator {
	return &Validator{ValidateCalendarDates: true}
}

// ValidateRecord returns the ordered list of findings for one record. An
// empty result means every field passed.
func (v *Validator) ValidateRecord(rec *document.Record) []document.ValidationError {
	var errs []document.ValidationError

	add := func(e *document.ValidationError) bool {
		if e == nil {
			return false
		}
		errs = append(errs, *e)
		return v.FailFast
	}
	addAll := func(more []document.ValidationError) bool {
		errs = append(errs, more...)
		return v.FailFast && len(more) > 0
	}

	if add(v.checkDocumentNumber(rec.DocumentNumber)) {
		return errs
	}
	if add(v.checkDate(rec.DocumentDate, "document_date")) {
		return errs
	}
	if add(v.checkTransportNumber(rec.TransportNumber)) {
		return errs
	}
	if add(v.checkDate(rec.TransportDate, "transport_document_date")) {
		return errs
	}
	if addAll(v.checkIdentifiers(rec)) {
		return errs
	}
	if addAll(v.checkNames(rec)) {
		return errs
	}
	add(v.checkReceiver(rec.ReceiverName))

	return errs
}

func (v *Validator) checkDocumentNumber(raw string) *document.ValidationError {
	num := document.NormalizeText(raw)
	if num == "" {
		return &document.ValidationError{
			Field:    "document_number",
			Message:  "document number is empty",
			Severity: document.SeverityCritical,
		}
	}
	if !documentNumberPattern.MatchString(num) {
		return &document.ValidationError{
			Field: "document_number",
			Message: fmt.Sprintf("invalid document number %q (expected %d-%d digits)",
				num, DocumentNumberMinDigits, DocumentNumberMaxDigits),
			Value:    num,
			Severity: document.SeverityCritical,
		}
	}
	return nil
}

func (v *Validator) checkTransportNumber(raw string) *document.ValidationError {
	num := document.NormalizeText(raw)
	if num == "" {
		return &document.ValidationError{
			Field:    "transport_document_number",
			Message:  "transport document number is empty",
			Severity: document.SeverityCritical,
		}
	}
	if !transportNumberPattern.MatchString(num) {
		return &document.ValidationError{
			Field: "transport_document_number",
			Message: fmt.Sprintf("invalid transport document number %q (expected %d-%d digits)",
				num, TransportNumberMinDigits, TransportNumberMaxDigits),
			Value:    num,
			Severity: document.SeverityCritical,
		}
	}
	return nil
}

// checkDate validates a dd/mm/yyyy field. A format failure is CRITICAL; a
// well-formed date that does not exist in the calendar is an ERROR.
func (v *Validator) checkDate(raw, field string) *document.ValidationError {
	date := document.NormalizeText(raw)
	if date == "" {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("%s is empty", field),
			Severity: document.SeverityCritical,
		}
	}
	if !datePattern.MatchString(date) {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("invalid date format %q (expected dd/mm/yyyy)", date),
			Value:    date,
			Severity: document.SeverityCritical,
		}
	}
	if v.ValidateCalendarDates {
		if _, err := time.Parse("2/1/2006", date); err != nil {
			return &document.ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("date %q does not exist in the calendar", date),
				Value:    date,
				Severity: document.SeverityError,
			}
		}
	}
	return nil
}

func (v *Validator) checkIdentifiers(rec *document.Record) []document.ValidationError {
	var errs []document.ValidationError

	if e := v.checkEmitterIdentifier(rec.EmitterID); e != nil {
		errs = append(errs, *e)
		if v.FailFast {
			return errs
		}
	}

	for _, role := range []document.Role{document.RoleContractor, document.RoleRecipient} {
		if e := v.checkPartyIdentifier(rec.Identifier(role), role); e != nil {
			errs = append(errs, *e)
			if v.FailFast {
				break
			}
		}
	}
	return errs
}

// checkEmitterIdentifier enforces the company-id-only rule for the emitter
// field. A checksum-valid personal id here is itself a CRITICAL finding, not
// an acceptable alternative.
func (v *Validator) checkEmitterIdentifier(raw string) *document.ValidationError {
	const field = "emitter_id"
	id := document.DigitsOnly(raw)

	if id == "" {
		return &document.ValidationError{
			Field:    field,
			Message:  "emitter identifier is empty",
			Severity: document.SeverityCritical,
		}
	}
	if len(id) == document.PersonalIDLength && checksum.ValidPersonalID(id) {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("emitter identifier is a personal id (%s), not a company id", id),
			Value:    id,
			Severity: document.SeverityCritical,
		}
	}
	if len(id) != document.CompanyIDLength {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("emitter identifier has invalid length: %d digits (expected 14)", len(id)),
			Value:    id,
			Severity: document.SeverityCritical,
		}
	}
	if !checksum.ValidCompanyID(id) {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("emitter company id %s fails Module 11 validation", id),
			Value:    id,
			Severity: document.SeverityCritical,
		}
	}
	return nil
}

// checkPartyIdentifier validates contractor/recipient identifiers, which may
// be an 11-digit personal id or a 14-digit company id.
func (v *Validator) checkPartyIdentifier(raw string, role document.Role) *document.ValidationError {
	field := string(role) + "_id"
	label := document.RoleLabel(role)
	id := document.DigitsOnly(raw)

	if id == "" {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("%s identifier is empty", label),
			Severity: document.SeverityCritical,
		}
	}
	switch len(id) {
	case document.PersonalIDLength:
		if !checksum.ValidPersonalID(id) {
			return &document.ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("%s personal id %s fails Module 11 validation", label, id),
				Value:    id,
				Severity: document.SeverityCritical,
			}
		}
	case document.CompanyIDLength:
		if !checksum.ValidCompanyID(id) {
			return &document.ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("%s company id %s fails Module 11 validation", label, id),
				Value:    id,
				Severity: document.SeverityCritical,
			}
		}
	default:
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("%s identifier has invalid length: %d digits (expected 11 or 14)", label, len(id)),
			Value:    id,
			Severity: document.SeverityCritical,
		}
	}
	return nil
}

func (v *Validator) checkNames(rec *document.Record) []document.ValidationError {
	var errs []document.ValidationError
	for _, role := range []document.Role{document.RoleEmitter, document.RoleContractor, document.RoleRecipient} {
		if e := v.checkName(rec.Name(role), role); e != nil {
			errs = append(errs, *e)
			if v.FailFast {
				break
			}
		}
	}
	return errs
}

func (v *Validator) checkName(raw string, role document.Role) *document.ValidationError {
	field := string(role) + "_name"
	label := document.RoleLabel(role)
	name := document.NormalizeText(raw)

	if name == "" {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("%s name is empty", label),
			Severity: document.SeverityError,
		}
	}
	if utf8.RuneCountInString(name) < NameMinLength {
		return &document.ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("%s name too short: %q (minimum %d characters)", label, name, NameMinLength),
			Value:    name,
			Severity: document.SeverityError,
		}
	}
	return nil
}

func (v *Validator) checkReceiver(raw string) *document.ValidationError {
	receiver := document.NormalizeText(raw)
	if receiver == "" {
		return &document.ValidationError{
			Field:    "receiver_name",
			Message:  "receiver is empty (required by the regulator)",
			Severity: document.SeverityCritical,
		}
	}
	if utf8.RuneCountInString(receiver) < ReceiverMinLength {
		return &document.ValidationError{
			Field:    "receiver_name",
			Message:  fmt.Sprintf("receiver too short: %q (minimum %d characters)", receiver, ReceiverMinLength),
			Value:    receiver,
			Severity: document.SeverityError,
		}
	}
	return nil
}

// Report renders a per-record summary of findings grouped by severity.
func Report(documentNumber string, errs []document.ValidationError) string {
	if documentNumber == "" {
		documentNumber = "N/A"
	}
	if len(errs) == 0 {
		return fmt.Sprintf("NF %s: all fields valid", documentNumber)
	}

	bySeverity := map[document.Severity][]document.ValidationError{}
	for _, e := range errs {
		bySeverity[e.Severity] = append(bySeverity[e.Severity], e)
	}

	out := fmt.Sprintf("NF %s: %d finding(s)", documentNumber, len(errs))
	for _, sev := range []document.Severity{document.SeverityCritical, document.SeverityError, document.SeverityWarning} {
		group := bySeverity[sev]
		if len(group) == 0 {
			continue
		}
		out += fmt.Sprintf("\n  %s (%d):", sev, len(group))
		for _, e := range group {
			out += "\n    - " + e.Message
		}
	}
	return out
}
