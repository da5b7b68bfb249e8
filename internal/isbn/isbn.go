// Package isbn implements ISBN-13 normalization and check-digit validation.
package isbn

import (
	"errors"
	"strings"
)

// Length is the number of digits in a normalized ISBN-13.
const Length = 13

var (
	// ErrInvalidCharacters is returned when the value contains anything but digits
	ErrInvalidCharacters = errors.New("isbn contains invalid characters")
	// ErrTooShort is returned when the value has fewer than 13 digits
	ErrTooShort = errors.New("isbn is too short")
	// ErrTooLong is returned when the value has more than 13 digits
	ErrTooLong = errors.New("isbn is too long")
	// ErrChecksumFailed is returned when the check digit does not match
	ErrChecksumFailed = errors.New("isbn checksum failed")
)

// Normalize strips the hyphens printed between ISBN groups. Any other
// separator, spaces included, is left in place and fails validation.
func Normalize(value string) string {
	return strings.ReplaceAll(value, "-", "")
}

// Check13 reports why value is not a valid ISBN-13, or nil if it is.
// The value is normalized first, so "978-0-261-10328-3" is accepted.
func Check13(value string) error {
	canonical := Normalize(value)

	if !allDigits(canonical) {
		return ErrInvalidCharacters
	}
	if len(canonical) < Length {
		return ErrTooShort
	}
	if len(canonical) > Length {
		return ErrTooLong
	}

	want, err := CheckDigit13(canonical[:Length-1])
	if err != nil {
		return err
	}
	if canonical[Length-1] != want {
		return ErrChecksumFailed
	}
	return nil
}

// Valid13 reports whether value is a valid ISBN-13.
func Valid13(value string) bool {
	return Check13(value) == nil
}

// CheckDigit13 computes the ASCII check digit for the first twelve digits
// of an ISBN-13. Digits are weighted 1,3,1,3,... from the left and the check
// digit brings the weighted sum to a multiple of 10.
func CheckDigit13(first12 string) (byte, error) {
	if !allDigits(first12) {
		return 0, ErrInvalidCharacters
	}
	if len(first12) < Length-1 {
		return 0, ErrTooShort
	}
	if len(first12) > Length-1 {
		return 0, ErrTooLong
	}

	sum := 0
	for i := 0; i < len(first12); i++ {
		digit := int(first12[i] - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}

	return byte('0' + (10-sum%10)%10), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
