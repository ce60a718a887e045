// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext extracts per-page text from PDF scan batches. Row structure
// is preserved: the extraction patterns downstream are line-oriented, so each
// visual row of the page becomes one line of output.
package pdftext

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageText is the text of one PDF page.
type PageText struct {
	Number int
	Text   string
}

// MaxPages caps how many pages are processed from a single file.
const MaxPages = 500

// ExtractPages extracts the text of every page of a PDF file, one entry per
// page. Pages that cannot be read are returned with empty text rather than
// failing the file.
func ExtractPages(filePath string) ([]PageText, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > MaxPages {
		pageCount = MaxPages
	}

	pages := make([]PageText, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := PageText{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			if text, err := extractPageText(p); err == nil {
				page.Text = text
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// extractPageText renders one page as newline-separated rows, top to bottom.
func extractPageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("error reading page rows: %w", err)
	}

	// Rows carry their vertical position; higher means closer to the top.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	var lines []string
	for _, row := range rows {
		var words []string
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				words = append(words, s)
			}
		}
		if line := cleanLine(strings.Join(words, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

var multiSpace = regexp.MustCompile(`[ \t]{2,}`)

// cleanLine collapses runs of whitespace within a row without touching the
// row boundaries themselves.
func cleanLine(line string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
}
