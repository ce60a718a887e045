// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"freight-scan/internal/document"
)

// ShipmentRecord holds the decoded fields of one TN line.
type ShipmentRecord struct {
	Line           int
	ContractorID   string
	ContractorName string
	DocumentNumber string
	DocumentDate   string
	EmitterID      string
	EmitterName    string
	RecipientID    string
	RecipientName  string
	PickupPlace    string
	DeliveryPlace  string
}

// DeliveryRecord holds the decoded fields of one CC line.
type DeliveryRecord struct {
	Line            int
	TransportNumber string
	TransportDate   string
	DeliveryDate    string
	ReceiverName    string
}

// Diagnostic records a per-line parse failure. The line is skipped and the
// rest of the file is still parsed.
type Diagnostic struct {
	Line   int
	Reason string
}

// File is the structured result of parsing one interchange file.
type File struct {
	Shipments   []ShipmentRecord
	Deliveries  []DeliveryRecord
	Diagnostics []Diagnostic
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts raw file bytes to text, trying UTF-8, UTF-8 with BOM and
// Windows-1252 in that order. The first encoding that decodes the whole file
// without error wins.
func decode(raw []byte) (string, error) {
	var attempts []string

	if utf8.Valid(raw) && !bytes.HasPrefix(raw, utf8BOM) {
		return string(raw), nil
	}
	attempts = append(attempts, "utf-8: invalid byte sequence")

	if bytes.HasPrefix(raw, utf8BOM) {
		body := bytes.TrimPrefix(raw, utf8BOM)
		if utf8.Valid(body) {
			return string(body), nil
		}
		attempts = append(attempts, "utf-8-bom: invalid byte sequence")
	} else {
		attempts = append(attempts, "utf-8-bom: no byte order mark")
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err == nil {
		return string(decoded), nil
	}
	attempts = append(attempts, fmt.Sprintf("windows-1252: %v", err))

	return "", fmt.Errorf("could not decode interchange file; attempts: %s", strings.Join(attempts, " | "))
}

// ParseFile reads and parses an interchange file from disk.
func ParseFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading interchange file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw interchange bytes into structured records. Lines with
// unrecognized prefixes are skipped silently; slice failures are recorded as
// diagnostics without aborting the rest of the file. Trailing padding is
// preserved — lines are never stripped before slicing.
func Parse(raw []byte) (*File, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	out := &File{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lineNum := i + 1
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if len(line) < 2 {
			// Too short to carry a record prefix; treated like any other
			// unrecognized line.
			continue
		}

		switch strings.ToUpper(line[:2]) {
		case KindShipment:
			out.Shipments = append(out.Shipments, parseShipment(line, lineNum))
		case KindDelivery:
			out.Deliveries = append(out.Deliveries, parseDelivery(line, lineNum))
		default:
			// Unknown record kinds (headers, totals) are not ours to parse.
		}
	}
	return out, nil
}

// pad right-pads a short line with spaces to the record's total length so
// every span can be sliced safely. Lengths count characters, not bytes.
func pad(line string, total int) []rune {
	runes := []rune(line)
	for len(runes) < total {
		runes = append(runes, ' ')
	}
	return runes
}

func parseShipment(line string, lineNum int) ShipmentRecord {
	padded := pad(line, TNTotalLength)
	return ShipmentRecord{
		Line:           lineNum,
		ContractorID:   document.DigitsOnly(tnContractorID.slice(padded)),
		ContractorName: strings.TrimSpace(tnContractorName.slice(padded)),
		DocumentNumber: strings.TrimSpace(tnDocumentNumber.slice(padded)),
		DocumentDate:   strings.TrimSpace(tnDocumentDate.slice(padded)),
		EmitterID:      document.DigitsOnly(tnEmitterID.slice(padded)),
		EmitterName:    strings.TrimSpace(tnEmitterName.slice(padded)),
		RecipientID:    document.DigitsOnly(tnRecipientID.slice(padded)),
		RecipientName:  strings.TrimSpace(tnRecipientName.slice(padded)),
		PickupPlace:    strings.TrimSpace(tnPickupPlace.slice(padded)),
		DeliveryPlace:  strings.TrimSpace(tnDeliveryPlace.slice(padded)),
	}
}

func parseDelivery(line string, lineNum int) DeliveryRecord {
	padded := pad(line, CCTotalLength)
	return DeliveryRecord{
		Line:            lineNum,
		TransportNumber: strings.TrimSpace(ccTransportNumber.slice(padded)),
		TransportDate:   strings.TrimSpace(ccTransportDate.slice(padded)),
		DeliveryDate:    strings.TrimSpace(ccDeliveryDate.slice(padded)),
		ReceiverName:    strings.TrimSpace(ccReceiverName.slice(padded)),
	}
}

// Record converts a parsed shipment plus its delivery confirmation into a
// pipeline record, used by round-trip and knowledge-base teaching flows.
func Record(tn ShipmentRecord, cc *DeliveryRecord) document.Record {
	rec := document.Record{
		DocumentNumber: tn.DocumentNumber,
		DocumentDate:   tn.DocumentDate,
		EmitterID:      tn.EmitterID,
		EmitterName:    tn.EmitterName,
		ContractorID:   tn.ContractorID,
		ContractorName: tn.ContractorName,
		RecipientID:    tn.RecipientID,
		RecipientName:  tn.RecipientName,
		PickupPlace:    tn.PickupPlace,
		DeliveryPlace:  tn.DeliveryPlace,
		SourceLine:     tn.Line,
	}
	if cc != nil {
		rec.TransportNumber = cc.TransportNumber
		rec.TransportDate = cc.TransportDate
		rec.DeliveryDate = cc.DeliveryDate
		rec.ReceiverName = cc.ReceiverName
	}
	return rec
}
