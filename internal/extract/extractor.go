// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract pulls candidate field values out of raw page text captured
// from scanned freight documents. Input is noisy OCR output, so every field
// has a prioritized chain of strategies: the first structurally and
// semantically admissible candidate wins, and ambiguous input yields no
// result rather than a guess.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"freight-scan/internal/checksum"
	"freight-scan/internal/document"
)

// DefaultOCRAttemptCeiling bounds the combinatorial noisy-OCR recovery. The
// value is a tuning constant, configurable through the extractor.
const DefaultOCRAttemptCeiling = 45000

// Extractor extracts identifier, name, number and date fields from raw text.
type Extractor struct {
	ocrAttemptCeiling int
}

// NewExtractor returns an extractor with default tuning.
func NewExtractor() *Extractor {
	return &Extractor{ocrAttemptCeiling: DefaultOCRAttemptCeiling}
}

// WithAttemptCeiling overrides the noisy-OCR attempt ceiling.
func (e *Extractor) WithAttemptCeiling(n int) *Extractor {
	if n > 0 {
		e.ocrAttemptCeiling = n
	}
	return e
}

// Strategy 1: identifier immediately after the document label. The trailing
// group stops the match at the first non-identifier character so a following
// phone number is never absorbed.
var (
	labeledPersonalID = regexp.MustCompile(`(?i)CNPJ/CPF:\s*(\d{3}\.\d{3}\.\d{3}-\d{2})(?:\s|$|[^\d])`)
	labeledCompanyID  = regexp.MustCompile(`(?i)CNPJ/CPF:\s*(\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})(?:\s|$|[^\d])`)
	labeledLooseID    = regexp.MustCompile(`(?i)CNPJ/CPF:\s*([\d./-]+?)(?:\s|$|[^\d./-])`)
)

// Strategy 2: formatted identifier shapes anywhere in the text.
var formattedIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`),  // company id
	regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}`),        // company id missing check digits
	regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`),        // personal id
	regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}\.\d{4}-\d{2}`), // dotted company id variant
}

// Strategy 3: per-line searches. Raw digit runs are only taken when labeled
// and not abutting a phone label.
var (
	linePersonalID    = regexp.MustCompile(`(\d{3}\.\d{3}\.\d{3}-\d{2})`)
	lineCompanyID     = regexp.MustCompile(`(\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})`)
	lineRawPersonalID = regexp.MustCompile(`(?i)(?:CNPJ/CPF|CPF)[:\s]*(\d{11})(?:\s|$|[^\d]|FONE|TELEFONE)`)
	lineRawCompanyID  = regexp.MustCompile(`(?i)(?:CNPJ/CPF|CNPJ)[:\s]*(\d{14})(?:\s|$|[^\d]|FONE|TELEFONE)`)
)

// Strategies 4 and 5: bare digit runs with context gating.
var (
	nonDigitRun       = regexp.MustCompile(`[^\d\s]`)
	documentContext   = regexp.MustCompile(`(?i)CNPJ/CPF|CNPJ|CPF`)
	phoneContext      = regexp.MustCompile(`(?i)FONE|TELEFONE`)
	barePersonalID    = regexp.MustCompile(`(?:^|\s)(\d{11})(?:\s|$)`)
	labeledContextTag = regexp.MustCompile(`(?is)(?:CNPJ|EMITENTE|DESTINAT[ÁA]RIO|CONTRANTE).*?(\d{14})(?:\s|$|[^\d]|FONE|TELEFONE)`)
)

// Identifier extracts a national registry identifier (11-digit personal id or
// 14-digit company id) from text, returning a digit-only string or "" when no
// admissible candidate is found. Strategies run in strict priority order.
func (e *Extractor) Identifier(text string) string {
	if text == "" {
		return ""
	}

	// Strategy 1: labeled, strictly formatted. A formatted personal id wins
	// over a company id when both shapes sit right after the label.
	if m := labeledPersonalID.FindStringSubmatch(text); m != nil {
		id := document.DigitsOnly(m[1])
		if len(id) == document.PersonalIDLength && checksum.ValidPersonalID(id) {
			return id
		}
	}
	if m := labeledCompanyID.FindStringSubmatch(text); m != nil {
		id := document.DigitsOnly(m[1])
		if len(id) == document.CompanyIDLength {
			return id
		}
	}
	if m := labeledLooseID.FindStringSubmatch(text); m != nil {
		id := document.DigitsOnly(m[1])
		switch len(id) {
		case document.PersonalIDLength:
			if checksum.ValidPersonalID(id) {
				return id
			}
		case document.CompanyIDLength:
			return id
		}
	}

	// Strategy 2: formatted shapes anywhere, validated by digit count.
	for _, pattern := range formattedIDPatterns {
		m := pattern.FindString(text)
		if m == "" {
			continue
		}
		id := document.DigitsOnly(m)
		switch len(id) {
		case document.PersonalIDLength:
			if checksum.ValidPersonalID(id) {
				return id
			}
		case document.CompanyIDLength:
			return id
		}
	}

	// Strategy 3: per physical line, so an identifier on one line is never
	// glued to a phone number on the next.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := linePersonalID.FindStringSubmatch(line); m != nil {
			id := document.DigitsOnly(m[1])
			if len(id) == document.PersonalIDLength && checksum.ValidPersonalID(id) {
				return id
			}
		}
		if m := lineCompanyID.FindStringSubmatch(line); m != nil {
			id := document.DigitsOnly(m[1])
			if len(id) == document.CompanyIDLength {
				return id
			}
		}
		if m := lineRawPersonalID.FindStringSubmatch(line); m != nil {
			if checksum.ValidPersonalID(m[1]) {
				return m[1]
			}
		}
		if m := lineRawCompanyID.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}

	// Strategy 4: bare digit runs in punctuation-stripped text, gated on
	// document context and the absence of phone context.
	stripped := nonDigitRun.ReplaceAllString(text, " ")
	hasDocContext := documentContext.MatchString(text)
	hasPhoneContext := phoneContext.MatchString(text)
	if m := barePersonalID.FindStringSubmatch(stripped); m != nil {
		if hasDocContext && !hasPhoneContext && checksum.ValidPersonalID(m[1]) {
			return m[1]
		}
	}

	// Strategy 5: bare 14-digit runs, filtered for placeholders and
	// implausible shapes, preferring checksum-valid candidates. Candidates
	// are enumerated token by token so adjacent runs separated by a single
	// space are all seen.
	var plausible []string
	for _, token := range strings.Fields(stripped) {
		if len(token) != document.CompanyIDLength {
			continue
		}
		if token == document.EmptyCompanyID || strings.HasPrefix(token, "00") {
			continue
		}
		if implausibleBranchCode(token) {
			continue
		}
		plausible = append(plausible, token)
	}
	for _, candidate := range plausible {
		if checksum.ValidCompanyID(candidate) {
			return candidate
		}
	}
	if len(plausible) > 0 {
		return plausible[0]
	}

	// Strategy 6: a 14-digit run anywhere after a role or document label,
	// across lines, for identifiers broken by extraction artifacts.
	if m := labeledContextTag.FindStringSubmatch(text); m != nil {
		candidate := document.DigitsOnly(m[1])
		if len(candidate) == document.CompanyIDLength &&
			candidate != document.EmptyCompanyID &&
			!strings.HasPrefix(candidate, "000") {
			return candidate
		}
	}

	// Strategy 7: noisy-OCR recovery, last resort with an ambiguity guard.
	return e.recoverNoisyCompanyID(text)
}

// implausibleBranchCode rejects 14-digit runs whose branch-number block
// starts with 14-19, a shape observed when an invoice number leaks into the
// identifier column. Runs with an all-zero head are left alone.
func implausibleBranchCode(candidate string) bool {
	if len(candidate) != document.CompanyIDLength {
		return false
	}
	if candidate[:11] == "00000000000" {
		return false
	}
	switch candidate[11:13] {
	case "14", "15", "16", "17", "18", "19":
		return true
	}
	return false
}

// Company-name extraction: the goal is the bare legal name, with addresses,
// identifiers and table debris dropped.
var (
	roleLabelPrefix  = regexp.MustCompile(`(?i)^\s*(?:EMITENTE|DESTINAT[ÁA]RIO|CONTRANTE|CONTRATANTE)\s*:?\s*`)
	technicalLabel   = regexp.MustCompile(`\b(?:CNPJ/CPF|CNPJ|CPF|FONE|TELEFONE|CEP|CT-?E|RECEBEDOR)\b`)
	transportHeading = regexp.MustCompile(`^\s*N[º°]?\s*CT`)
	dateHeading      = regexp.MustCompile(`^\s*DATA\b`)
	addressKeyword   = regexp.MustCompile(`^\s*(?:END|ENDERECO|LOGRADOURO|RUA|AV\.?|AVENIDA|ROD\.?|RODOVIA|BAIRRO|CIDADE|UF)\b`)
	isolatedDate     = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	pureNumber       = regexp.MustCompile(`^\d+$`)
	pipeSuffix       = regexp.MustCompile(`\s*\|\s*.*$`)
	trailingCode     = regexp.MustCompile(`\s+\d{4}-\d{2}.*$`)
	trailingNumber   = regexp.MustCompile(`\s+\d+$`)
	spaceRun         = regexp.MustCompile(`\s+`)
	numericOnlyName  = regexp.MustCompile(`^[\d\s./-]+$`)
)

// isMetadataLine reports whether a line carries technical or address data
// instead of a company name. Address keywords are word-boundary matched so
// names like "CIDADE IMPERIAL LTDA" are not misclassified.
func isMetadataLine(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	if upper == "" {
		return true
	}
	if technicalLabel.MatchString(upper) {
		return true
	}
	if transportHeading.MatchString(upper) || dateHeading.MatchString(upper) {
		return true
	}
	if addressKeyword.MatchString(upper) {
		return true
	}
	if isolatedDate.MatchString(upper) || pureNumber.MatchString(upper) {
		return true
	}
	return false
}

// CompanyName extracts only the legal entity name from text, discarding
// addresses, identifiers and layout debris. The first non-metadata line after
// any role label wins; everything after it is ignored.
func (e *Extractor) CompanyName(text string) string {
	if text == "" {
		return ""
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = strings.TrimSpace(roleLabelPrefix.ReplaceAllString(line, ""))
		if line == "" || isMetadataLine(line) {
			continue
		}

		name := line
		// Cut at the first technical label; an address or identifier glued
		// onto the name ends here.
		if loc := technicalLabel.FindStringIndex(strings.ToUpper(name)); loc != nil {
			name = name[:loc[0]]
		}
		name = pipeSuffix.ReplaceAllString(name, "")
		name = trailingCode.ReplaceAllString(name, "")
		name = trailingNumber.ReplaceAllString(name, "")
		name = strings.Trim(spaceRun.ReplaceAllString(name, " "), " -|")

		if utf8.RuneCountInString(name) >= 3 && !numericOnlyName.MatchString(name) {
			return name
		}
	}
	return ""
}

// Single labeled-value extractions. First match wins.
var (
	documentNumberPattern  = regexp.MustCompile(`(?i)(?:NOTA\s+FISCAL|NF)\s*N?[º°]?\s*:?\s*(\d+)`)
	labeledDatePattern     = regexp.MustCompile(`(?i)DATA\s*:?\s*(\d{1,2}/\d{1,2}/\d{4})`)
	transportNumberPattern = regexp.MustCompile(`(?i)N[º°]?\s*CT-?E\s*:?\s*(\d+)`)
	deliveryDatePattern    = regexp.MustCompile(`(?i)DATA\s*ENTREGA\s*:?\s*(\d{1,2}/\d{1,2}/\d{4})`)
	dateWithTimePattern    = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s+\d{1,2}:\d{2}`)
	pickupPlacePattern     = regexp.MustCompile(`(?i)LOCAL\s*(?:DE\s*)?RETIRADA\s*:?\s*([^\n]+)`)
	deliveryPlacePattern   = regexp.MustCompile(`(?i)LOCAL\s*(?:DE\s*)?ENTREGA\s*:?\s*([^\n]+)`)
)

// DocumentNumber extracts the invoice number.
func (e *Extractor) DocumentNumber(text string) string {
	if m := documentNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// DocumentDate extracts a labeled dd/mm/yyyy date.
func (e *Extractor) DocumentDate(text string) string {
	if m := labeledDatePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// TransportNumber extracts the transport document number.
func (e *Extractor) TransportNumber(text string) string {
	if m := transportNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// DeliveryDate extracts the delivery date; a date followed by a time of day
// is accepted when no explicit label is present.
func (e *Extractor) DeliveryDate(text string) string {
	if m := deliveryDatePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := dateWithTimePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Receiver label variants, tried in priority order.
var (
	receiverPattern     = regexp.MustCompile(`(?i)RECEBEDOR\s*:?\s*([^\n]+?)(?:\s*DATA\s*ENTREGA|$)`)
	receiverTrailing    = regexp.MustCompile(`(?i)\s*DATA\s*ENTREGA\s*:?\s*.*$`)
	responsiblePattern  = regexp.MustCompile(`(?i)RESPONS[ÁA]VEL\s*(?:PELO\s*)?(?:RECEBIMENTO|RECEBEDOR)?\s*:?\s*([^\n]+)`)
	receivedByOnPattern = regexp.MustCompile(`(?i)RECEBIDO\s*(?:POR|EM)\s*:?\s*([^\n]+)`)
)

// Receiver extracts the receiver name, trying the direct label, then the
// "responsible for receipt" variant, then "received by/on".
func (e *Extractor) Receiver(text string) string {
	if text == "" {
		return ""
	}

	if m := receiverPattern.FindStringSubmatch(text); m != nil {
		receiver := strings.TrimSpace(receiverTrailing.ReplaceAllString(m[1], ""))
		if receiver = document.NormalizeText(receiver); receiver != "" {
			return receiver
		}
	}
	if m := responsiblePattern.FindStringSubmatch(text); m != nil {
		if receiver := document.NormalizeText(m[1]); receiver != "" {
			return receiver
		}
	}
	if m := receivedByOnPattern.FindStringSubmatch(text); m != nil {
		if receiver := document.NormalizeText(m[1]); receiver != "" {
			return receiver
		}
	}
	return ""
}

// PickupPlace extracts the labeled pickup location.
func (e *Extractor) PickupPlace(text string) string {
	if m := pickupPlacePattern.FindStringSubmatch(text); m != nil {
		return document.NormalizeText(m[1])
	}
	return ""
}

// DeliveryPlace extracts the labeled delivery location.
func (e *Extractor) DeliveryPlace(text string) string {
	if m := deliveryPlacePattern.FindStringSubmatch(text); m != nil {
		return document.NormalizeText(m[1])
	}
	return ""
}

// Role section labels, in the order they appear on the printed document.
var roleSections = []struct {
	role    document.Role
	pattern *regexp.Regexp
}{
	{document.RoleEmitter, regexp.MustCompile(`(?i)EMITENTE`)},
	{document.RoleRecipient, regexp.MustCompile(`(?i)DESTINAT[ÁA]RIO`)},
	{document.RoleContractor, regexp.MustCompile(`(?i)CONTRA(?:TA)?NTE`)},
}

// Record assembles a full record from one raw-text document unit. Role
// sections are sliced between their labels so each party's identifier and
// name are extracted from its own segment only.
func (e *Extractor) Record(text string, sourceLine int) document.Record {
	rec := document.Record{
		DocumentNumber:  e.DocumentNumber(text),
		DocumentDate:    e.DocumentDate(text),
		TransportNumber: e.TransportNumber(text),
		TransportDate:   e.DocumentDate(text),
		PickupPlace:     e.PickupPlace(text),
		DeliveryPlace:   e.DeliveryPlace(text),
		ReceiverName:    e.Receiver(text),
		DeliveryDate:    e.DeliveryDate(text),
		SourceLine:      sourceLine,
	}

	type section struct {
		role  document.Role
		start int
	}
	var sections []section
	for _, rs := range roleSections {
		if loc := rs.pattern.FindStringIndex(text); loc != nil {
			sections = append(sections, section{role: rs.role, start: loc[0]})
		}
	}
	// Slice each role's segment from its label to the next label.
	for _, s := range sections {
		end := len(text)
		for _, other := range sections {
			if other.start > s.start && other.start < end {
				end = other.start
			}
		}
		segment := text[s.start:end]
		rec.SetIdentifier(s.role, e.Identifier(segment))
		rec.SetName(s.role, e.CompanyName(segment))
	}

	return rec
}
