// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package interchange decodes and encodes the fixed-width regulatory
// interchange file. Lines are newline-delimited; the first two characters
// select the record kind, and each kind defines a fixed total length plus
// inclusive 1-based column ranges per field.
package interchange

// Record kind prefixes.
const (
	KindShipment = "TN" // shipment record: parties, invoice, places
	KindDelivery = "CC" // delivery confirmation: transport doc, receiver
)

// span is an inclusive 1-based column range.
type span struct {
	start, end int
}

func (s span) width() int { return s.end - s.start + 1 }

// slice extracts the span from a line already padded to the record length.
// Columns are character positions, so the line is handled as runes.
func (s span) slice(line []rune) string {
	return string(line[s.start-1 : s.end])
}

// Shipment (TN) line layout.
var (
	tnContractorID   = span{3, 16}
	tnContractorName = span{17, 86}
	tnDocumentNumber = span{87, 92}
	tnDocumentDate   = span{93, 102}
	tnEmitterID      = span{103, 116}
	tnEmitterName    = span{117, 186}
	tnRecipientID    = span{187, 200}
	tnRecipientName  = span{201, 270}
	tnPickupPlace    = span{271, 320}
	tnDeliveryPlace  = span{321, 370}
)

// TNTotalLength is the fixed length of a shipment line.
const TNTotalLength = 370

// Delivery confirmation (CC) line layout.
var (
	ccTransportNumber = span{3, 11}
	ccTransportDate   = span{12, 21}
	ccDeliveryDate    = span{22, 31}
	ccReceiverName    = span{32, 101}
)

// CCTotalLength is the fixed length of a delivery confirmation line.
const CCTotalLength = 101
