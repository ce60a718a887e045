// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"strings"

	"freight-scan/internal/document"
)

// fit left-aligns a value into a fixed-width field, space-padded, truncating
// overlong values at the field width.
func fit(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		runes = runes[:width]
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// fitDigits right-aligns a digit field with zero padding, the convention
// for identifier and number columns.
func fitDigits(value string, width int) string {
	digits := document.DigitsOnly(value)
	runes := []rune(digits)
	if len(runes) > width {
		runes = runes[len(runes)-width:]
	}
	return strings.Repeat("0", width-len(runes)) + string(runes)
}

// EncodeShipment renders a record as a fixed-width TN line.
func EncodeShipment(rec *document.Record) string {
	var b strings.Builder
	b.Grow(TNTotalLength)
	b.WriteString(KindShipment)
	b.WriteString(fitDigits(rec.ContractorID, tnContractorID.width()))
	b.WriteString(fit(rec.ContractorName, tnContractorName.width()))
	b.WriteString(fit(rec.DocumentNumber, tnDocumentNumber.width()))
	b.WriteString(fit(rec.DocumentDate, tnDocumentDate.width()))
	b.WriteString(fitDigits(rec.EmitterID, tnEmitterID.width()))
	b.WriteString(fit(rec.EmitterName, tnEmitterName.width()))
	b.WriteString(fitDigits(rec.RecipientID, tnRecipientID.width()))
	b.WriteString(fit(rec.RecipientName, tnRecipientName.width()))
	b.WriteString(fit(rec.PickupPlace, tnPickupPlace.width()))
	b.WriteString(fit(rec.DeliveryPlace, tnDeliveryPlace.width()))
	return b.String()
}

// EncodeDelivery renders a record as a fixed-width CC line.
func EncodeDelivery(rec *document.Record) string {
	var b strings.Builder
	b.Grow(CCTotalLength)
	b.WriteString(KindDelivery)
	b.WriteString(fit(rec.TransportNumber, ccTransportNumber.width()))
	b.WriteString(fit(rec.TransportDate, ccTransportDate.width()))
	b.WriteString(fit(rec.DeliveryDate, ccDeliveryDate.width()))
	b.WriteString(fit(rec.ReceiverName, ccReceiverName.width()))
	return b.String()
}
