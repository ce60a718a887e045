// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"

	"freight-scan/internal/checksum"
)

// ocrDigitLookalikes maps characters OCR commonly confuses with digits.
var ocrDigitLookalikes = map[rune]rune{
	'O': '0',
	'Q': '0',
	'D': '0',
	'I': '1',
	'L': '1',
	'|': '1',
	'!': '1',
	'Z': '2',
	'S': '5',
	'G': '6',
	'T': '7',
	'B': '8',
}

// A noisy token keeps the punctuated company-id shape but may carry extra
// digits per group (OCR sometimes doubles a digit). Group sizes for a clean
// company id are 2.3.3/4-2.
var noisyCompanyIDToken = regexp.MustCompile(`^(\d{2,8})\.(\d{3,8})\.(\d{3,8})/(\d{4,8})-(\d{2,8})$`)

var separatorSpacing = regexp.MustCompile(`\s*([./-])\s*`)

// Per-group generation limits. Each equals the worst-case combination count
// for an 8-digit group at that target size, so clean groups are never
// truncated.
const (
	groupLimit2 = 28 // C(8,2)
	groupLimit3 = 56 // C(8,3)
	groupLimit4 = 70 // C(8,4)
)

// subsequences returns the ordered fixed-size digit sub-selections of value,
// in lexicographic index order, stopping at limit to bound combinatorial
// growth.
func subsequences(value string, size, limit int) []string {
	n := len(value)
	if n < size {
		return nil
	}
	if n == size {
		return []string{value}
	}

	var out []string
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	buf := make([]byte, size)
	for {
		for i, j := range idx {
			buf[i] = value[j]
		}
		out = append(out, string(buf))
		if len(out) >= limit {
			return out
		}

		// Advance to the next index combination.
		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// recoverNoisyCompanyID is the extraction fallback of last resort: it tries
// to reconstruct a company id from text whose digits were corrupted by OCR.
//
// Safety rule: a result is returned only when exactly one distinct
// checksum-valid candidate exists across the whole input. Zero or multiple
// valid reconstructions both yield nothing — returning "the first" or "the
// best" would silently fabricate a wrong identifier.
func (e *Extractor) recoverNoisyCompanyID(text string) string {
	if text == "" {
		return ""
	}

	normalized := strings.Map(func(ch rune) rune {
		if mapped, ok := ocrDigitLookalikes[ch]; ok {
			return mapped
		}
		return ch
	}, strings.ToUpper(text))

	// Keep the visual separators between tokens so an identifier is never
	// glued to a neighboring phone number.
	filtered := strings.Map(func(ch rune) rune {
		if ch >= '0' && ch <= '9' || ch == '.' || ch == '/' || ch == '-' {
			return ch
		}
		return ' '
	}, normalized)
	filtered = strings.Join(strings.Fields(filtered), " ")
	if filtered == "" {
		return ""
	}

	valid := make(map[string]bool)
	attempts := 0
	tokens := strings.Split(filtered, " ")

	for idx, token := range tokens {
		candidates := []string{token}
		// Common OCR split: the leading group detaches, as in
		// "20 .512.682/0001-91".
		if strings.HasPrefix(token, ".") && idx > 0 && isDigitToken(tokens[idx-1]) {
			candidates = append(candidates, tokens[idx-1]+token)
		}

		for _, candidate := range candidates {
			if strings.Count(candidate, ".") < 2 ||
				!strings.Contains(candidate, "/") ||
				!strings.Contains(candidate, "-") {
				continue
			}

			candidate = strings.Trim(separatorSpacing.ReplaceAllString(candidate, "$1"), ".,;:")
			m := noisyCompanyIDToken.FindStringSubmatch(candidate)
			if m == nil {
				continue
			}

			parts1 := subsequences(m[1], 2, groupLimit2)
			parts2 := subsequences(m[2], 3, groupLimit3)
			parts3 := subsequences(m[3], 3, groupLimit3)
			parts4 := subsequences(m[4], 4, groupLimit4)
			parts5 := subsequences(m[5], 2, groupLimit2)

			for _, p1 := range parts1 {
				for _, p2 := range parts2 {
					for _, p3 := range parts3 {
						for _, p4 := range parts4 {
							for _, p5 := range parts5 {
								attempts++
								assembled := p1 + p2 + p3 + p4 + p5
								if checksum.ValidCompanyID(assembled) {
									valid[assembled] = true
								}
								if attempts >= e.ocrAttemptCeiling {
									return uniqueCandidate(valid)
								}
							}
						}
					}
				}
			}
		}
	}

	return uniqueCandidate(valid)
}

func isDigitToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// uniqueCandidate enforces the exactly-one-valid-candidate rule.
func uniqueCandidate(valid map[string]bool) string {
	if len(valid) != 1 {
		return ""
	}
	for id := range valid {
		return id
	}
	return ""
}

// RecoverNoisyCompanyID exposes the OCR recovery strategy on its own, for
// callers that already hold a cleaner identifier and only want the bounded
// reconstruction behavior.
func (e *Extractor) RecoverNoisyCompanyID(text string) string {
	return e.recoverNoisyCompanyID(text)
}
