// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import "testing"

func TestIdentifierLabeledFormatted(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"labeled company id",
			"CNPJ/CPF: 11.222.333/0001-81",
			"11222333000181",
		},
		{
			"labeled personal id",
			"CNPJ/CPF: 390.533.447-05",
			"39053344705",
		},
		{
			"labeled company id followed by phone",
			"CNPJ/CPF: 11.222.333/0001-81 FONE: 11 3333-4444",
			"11222333000181",
		},
		{
			"formatted company id without label",
			"EMITENTE ACME LTDA 11.222.333/0001-81 SAO PAULO",
			"11222333000181",
		},
		{
			"company id missing check digits",
			"CNPJ/CPF: 11.222.333/0001",
			"",
		},
		{
			"dotted company id variant",
			"CADASTRO 11.222.333.0001-81",
			"11222333000181",
		},
		{
			"no identifier at all",
			"EMITENTE ACME LTDA SAO PAULO",
			"",
		},
		{
			"empty text",
			"",
			"",
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Identifier(tt.text); got != tt.want {
				t.Errorf("Identifier(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIdentifierRawDigitRuns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"labeled raw company id",
			"CNPJ: 11222333000181",
			"11222333000181",
		},
		{
			"labeled raw personal id",
			"CPF: 39053344705",
			"39053344705",
		},
		{
			"bare personal id with document context",
			"CNPJ/CPF\n39053344705",
			"39053344705",
		},
		{
			"bare personal id next to phone label is rejected",
			"FONE 39053344705",
			"",
		},
		{
			"bare personal id without context is rejected",
			"PEDIDO 39053344705",
			"",
		},
		{
			"bare company id without context",
			"REGISTRO 34028316000103 SAO PAULO",
			"34028316000103",
		},
		{
			"all-zero placeholder is skipped",
			"REGISTRO 00000000000000",
			"",
		},
		{
			"invoice leak into branch block is rejected",
			"REGISTRO 12345678000140",
			"",
		},
		{
			"checksum-valid candidate preferred over first",
			"LOTE 12345678000110 34028316000103",
			"34028316000103",
		},
		{
			"checksum-valid run found after two invalid single-spaced runs",
			"LOTE 12345678000110 12345678000111 34028316000103",
			"34028316000103",
		},
		{
			"no checksum-valid candidate falls back to first plausible",
			"LOTE 12345678000110 12345678000111",
			"12345678000110",
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Identifier(tt.text); got != tt.want {
				t.Errorf("Identifier(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"role label prefix stripped",
			"EMITENTE: TRANSPORTADORA ACME LTDA",
			"TRANSPORTADORA ACME LTDA",
		},
		{
			"identifier line skipped",
			"CNPJ/CPF: 11.222.333/0001-81\nCOMERCIO BOM SABOR LTDA",
			"COMERCIO BOM SABOR LTDA",
		},
		{
			"address line skipped",
			"RUA DAS FLORES 123\nDISTRIBUIDORA CENTRAL SA",
			"DISTRIBUIDORA CENTRAL SA",
		},
		{
			"address keyword needs a word boundary",
			"RUALDO TRANSPORTES LTDA",
			"RUALDO TRANSPORTES LTDA",
		},
		{
			"line starting with address keyword skipped",
			"CIDADE DE SAO PAULO\nACME TRANSPORTES LTDA",
			"ACME TRANSPORTES LTDA",
		},
		{
			"line with identifier label skipped entirely",
			"ACME TRANSPORTES LTDA CNPJ 11222333000181",
			"",
		},
		{
			"pipe debris removed",
			"ACME TRANSPORTES LTDA | PAGINA 1",
			"ACME TRANSPORTES LTDA",
		},
		{
			"trailing number removed",
			"ACME TRANSPORTES LTDA 00123",
			"ACME TRANSPORTES LTDA",
		},
		{
			"pure number line rejected",
			"12345\n67890",
			"",
		},
		{
			"date line rejected",
			"01/02/2024",
			"",
		},
		{
			"too short name rejected",
			"AB",
			"",
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CompanyName(tt.text); got != tt.want {
				t.Errorf("CompanyName(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLabeledFieldExtractions(t *testing.T) {
	e := NewExtractor()
	text := `NOTA FISCAL Nº: 12345
DATA: 01/02/2024
Nº CT-E: 98765
LOCAL RETIRADA: SAO PAULO - SP
LOCAL ENTREGA: CAMPINAS - SP
RECEBEDOR: JOAO DA SILVA DATA ENTREGA: 05/02/2024`

	if got := e.DocumentNumber(text); got != "12345" {
		t.Errorf("DocumentNumber() = %q, want %q", got, "12345")
	}
	if got := e.DocumentDate(text); got != "01/02/2024" {
		t.Errorf("DocumentDate() = %q, want %q", got, "01/02/2024")
	}
	if got := e.TransportNumber(text); got != "98765" {
		t.Errorf("TransportNumber() = %q, want %q", got, "98765")
	}
	if got := e.PickupPlace(text); got != "SAO PAULO - SP" {
		t.Errorf("PickupPlace() = %q, want %q", got, "SAO PAULO - SP")
	}
	if got := e.DeliveryPlace(text); got != "CAMPINAS - SP" {
		t.Errorf("DeliveryPlace() = %q, want %q", got, "CAMPINAS - SP")
	}
	if got := e.Receiver(text); got != "JOAO DA SILVA" {
		t.Errorf("Receiver() = %q, want %q", got, "JOAO DA SILVA")
	}
	if got := e.DeliveryDate(text); got != "05/02/2024" {
		t.Errorf("DeliveryDate() = %q, want %q", got, "05/02/2024")
	}
}

func TestReceiverVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"responsible variant", "RESPONSAVEL PELO RECEBIMENTO: MARIA SOUZA", "MARIA SOUZA"},
		{"received by variant", "RECEBIDO POR: PEDRO ALVES", "PEDRO ALVES"},
		{"null-like receiver", "RECEBEDOR: none", ""},
		{"no receiver", "DATA: 01/02/2024", ""},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Receiver(tt.text); got != tt.want {
				t.Errorf("Receiver(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeliveryDateFromTimestamp(t *testing.T) {
	e := NewExtractor()
	if got := e.DeliveryDate("ENTREGUE 05/02/2024 14:30"); got != "05/02/2024" {
		t.Errorf("DeliveryDate() = %q, want %q", got, "05/02/2024")
	}
}

func TestRecordSlicesRoleSections(t *testing.T) {
	text := `EMITENTE: TRANSPORTADORA ACME LTDA
CNPJ/CPF: 11.222.333/0001-81
NOTA FISCAL Nº: 12345
DATA: 01/02/2024
Nº CT-E: 98765
DESTINATARIO: COMERCIO DE ALIMENTOS BOM SABOR LTDA
CNPJ/CPF: 11.444.777/0001-61
CONTRATANTE: DISTRIBUIDORA CENTRAL DO BRASIL SA
CNPJ/CPF: 390.533.447-05
LOCAL RETIRADA: SAO PAULO - SP
LOCAL ENTREGA: CAMPINAS - SP
RECEBEDOR: JOAO DA SILVA DATA ENTREGA: 05/02/2024`

	rec := NewExtractor().Record(text, 3)

	if rec.SourceLine != 3 {
		t.Errorf("SourceLine = %d, want 3", rec.SourceLine)
	}
	if rec.DocumentNumber != "12345" || rec.TransportNumber != "98765" {
		t.Errorf("numbers = %q/%q, want 12345/98765", rec.DocumentNumber, rec.TransportNumber)
	}
	if rec.DocumentDate != "01/02/2024" || rec.TransportDate != "01/02/2024" {
		t.Errorf("dates = %q/%q, want 01/02/2024 for both", rec.DocumentDate, rec.TransportDate)
	}

	if rec.EmitterID != "11222333000181" {
		t.Errorf("EmitterID = %q, want 11222333000181", rec.EmitterID)
	}
	if rec.EmitterName != "TRANSPORTADORA ACME LTDA" {
		t.Errorf("EmitterName = %q", rec.EmitterName)
	}
	if rec.RecipientID != "11444777000161" {
		t.Errorf("RecipientID = %q, want 11444777000161", rec.RecipientID)
	}
	if rec.RecipientName != "COMERCIO DE ALIMENTOS BOM SABOR LTDA" {
		t.Errorf("RecipientName = %q", rec.RecipientName)
	}
	if rec.ContractorID != "39053344705" {
		t.Errorf("ContractorID = %q, want 39053344705", rec.ContractorID)
	}
	if rec.ContractorName != "DISTRIBUIDORA CENTRAL DO BRASIL SA" {
		t.Errorf("ContractorName = %q", rec.ContractorName)
	}
	if rec.ReceiverName != "JOAO DA SILVA" || rec.DeliveryDate != "05/02/2024" {
		t.Errorf("receiver = %q / %q", rec.ReceiverName, rec.DeliveryDate)
	}
}
