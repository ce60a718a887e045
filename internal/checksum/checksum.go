// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package checksum implements the Module 11 check-digit scheme used by the
// national registry identifiers: 11-digit personal ids carry two check
// digits computed over weighted sums of the preceding digits, 14-digit
// company ids use the same scheme with longer weight tables.
package checksum

// Weight tables for the company-id check digits.
var (
	companyWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	companyWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes one Module 11 check digit: the weighted sum of digits
// modulo 11, mapped to 0 when the remainder is below 2.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// ValidPersonalID reports whether an 11-digit string passes the personal-id
// Module 11 validation. Repeated-digit sequences are rejected outright.
func ValidPersonalID(id string) bool {
	if len(id) != 11 || !allDigits(id) || allSame(id) {
		return false
	}

	// First check digit: weights 10..2 over the first nine digits.
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(id[i]-'0') * (10 - i)
	}
	d1 := 11 - sum%11
	if d1 >= 10 {
		d1 = 0
	}
	if d1 != int(id[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over the first ten digits.
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(id[i]-'0') * (11 - i)
	}
	d2 := 11 - sum%11
	if d2 >= 10 {
		d2 = 0
	}
	return d2 == int(id[10]-'0')
}

// ValidCompanyID reports whether a 14-digit string passes the company-id
// Module 11 validation.
func ValidCompanyID(id string) bool {
	if len(id) != 14 || !allDigits(id) || allSame(id) {
		return false
	}
	if checkDigit(id[:12], companyWeightsFirst) != int(id[12]-'0') {
		return false
	}
	return checkDigit(id[:13], companyWeightsSecond) == int(id[13]-'0')
}
