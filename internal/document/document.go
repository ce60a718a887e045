// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier lengths for the two national registry identifier families.
const (
	PersonalIDLength = 11
	CompanyIDLength  = 14
)

// EmptyCompanyID is the all-zero placeholder some upstream documents carry in
// identifier columns. It is treated as an absent value everywhere.
const EmptyCompanyID = "00000000000000"

// Severity classifies a validation finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityError    Severity = "ERROR"
	SeverityWarning  Severity = "WARNING"
)

// Role identifies which party of the shipment an identifier/name pair
// belongs to.
type Role string

const (
	RoleEmitter    Role = "emitter"
	RoleContractor Role = "contractor"
	RoleRecipient  Role = "recipient"
)

// Record is one extracted shipment record. Identifier fields hold digit-only
// strings; an empty string or the all-zero placeholder means the value is
// absent. A Record is created once by extraction, read by validation, filled
// in (never overwritten) by correction, and read-only for audit.
type Record struct {
	DocumentNumber  string `json:"document_number"`  // invoice (NF) number
	DocumentDate    string `json:"document_date"`    // dd/mm/yyyy
	TransportNumber string `json:"transport_number"` // transport document (CT-e) number
	TransportDate   string `json:"transport_date"`   // dd/mm/yyyy

	EmitterID      string `json:"emitter_id"`
	EmitterName    string `json:"emitter_name"`
	ContractorID   string `json:"contractor_id"`
	ContractorName string `json:"contractor_name"`
	RecipientID    string `json:"recipient_id"`
	RecipientName  string `json:"recipient_name"`

	PickupPlace   string `json:"pickup_place"`
	DeliveryPlace string `json:"delivery_place"`

	ReceiverName string `json:"receiver_name"`
	DeliveryDate string `json:"delivery_date"`

	SourceLine int `json:"source_line"`
}

// Identifier returns the identifier field for a role.
func (r *Record) Identifier(role Role) string {
	switch role {
	case RoleEmitter:
		return r.EmitterID
	case RoleContractor:
		return r.ContractorID
	case RoleRecipient:
		return r.RecipientID
	}
	return ""
}

// Name returns the name field for a role.
func (r *Record) Name(role Role) string {
	switch role {
	case RoleEmitter:
		return r.EmitterName
	case RoleContractor:
		return r.ContractorName
	case RoleRecipient:
		return r.RecipientName
	}
	return ""
}

// SetIdentifier writes the identifier field for a role.
func (r *Record) SetIdentifier(role Role, id string) {
	switch role {
	case RoleEmitter:
		r.EmitterID = id
	case RoleContractor:
		r.ContractorID = id
	case RoleRecipient:
		r.RecipientID = id
	}
}

// SetName writes the name field for a role.
func (r *Record) SetName(role Role, name string) {
	switch role {
	case RoleEmitter:
		r.EmitterName = name
	case RoleContractor:
		r.ContractorName = name
	case RoleRecipient:
		r.RecipientName = name
	}
}

// Roles lists the identifier-bearing parties in correction priority order.
var Roles = []Role{RoleRecipient, RoleContractor, RoleEmitter}

// RoleLabel returns the human-facing label used in messages.
func RoleLabel(role Role) string {
	switch role {
	case RoleEmitter:
		return "Emitter"
	case RoleContractor:
		return "Contractor"
	case RoleRecipient:
		return "Recipient"
	}
	return string(role)
}

// ValidationError is a field-scoped finding. It is attached to its record and
// never causes the record to be dropped.
type ValidationError struct {
	Field    string
	Message  string
	Value    string
	Severity Severity
}

func (e ValidationError) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// AuditEventKind tags an unresolved issue found after correction.
type AuditEventKind string

const (
	AuditPersonalIDForCompany AuditEventKind = "PERSONAL_ID_FOR_COMPANY"
	AuditEmitterPersonalID    AuditEventKind = "EMITTER_PERSONAL_ID"
	AuditEmitterBadLength     AuditEventKind = "EMITTER_BAD_LENGTH"
	AuditEmitterBadChecksum   AuditEventKind = "EMITTER_BAD_CHECKSUM"
	AuditMissingName          AuditEventKind = "MISSING_NAME"
	AuditMissingIdentifier    AuditEventKind = "MISSING_IDENTIFIER"
)

// AuditEvent is an advisory "needs human attention" signal. It never blocks
// serialization.
type AuditEvent struct {
	Kind           AuditEventKind
	DocumentNumber string
	Role           Role
	Message        string
}

func (e AuditEvent) String() string {
	return fmt.Sprintf("[%s] NF %s: %s", e.Kind, e.DocumentNumber, e.Message)
}

// nullLikeValues are strings an upstream extractor may emit for absent data.
var nullLikeValues = map[string]bool{
	"NONE": true,
	"NULL": true,
	"N/A":  true,
	"NA":   true,
	"NAN":  true,
}

// NormalizeText trims a raw field value and maps null-like placeholders to
// the empty string.
func NormalizeText(value string) string {
	text := strings.TrimSpace(value)
	if nullLikeValues[strings.ToUpper(text)] {
		return ""
	}
	return text
}

// DigitsOnly strips everything except ASCII digits from a document field,
// after null-like normalization.
func DigitsOnly(value string) string {
	text := NormalizeText(value)
	var b strings.Builder
	b.Grow(len(text))
	for _, ch := range text {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

var (
	nonAlnumRun    = regexp.MustCompile(`[^A-Z0-9]+`)
	diacriticStrip = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeNameKey reduces a company/person name to a comparison key:
// diacritics removed, upper-cased, non-alphanumeric runs collapsed to single
// spaces, trimmed. "AÇÕES & CIA." becomes "ACOES CIA".
func NormalizeNameKey(value string) string {
	text := NormalizeText(value)
	if text == "" {
		return ""
	}
	stripped, _, err := transform.String(diacriticStrip, strings.ToUpper(text))
	if err != nil {
		stripped = strings.ToUpper(text)
	}
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(stripped, " "))
}

// IsAbsentIdentifier reports whether an identifier field holds no usable
// value (empty or the all-zero placeholder).
func IsAbsentIdentifier(id string) bool {
	digits := DigitsOnly(id)
	if digits == "" {
		return true
	}
	return strings.Count(digits, "0") == len(digits)
}
