package order

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinWireLengthCM = 40
	MaxWireLengthCM = 500

	MaxQuantity         = 10000
	MaxCalculatorLength = 1000

	minNameLength  = 2
	minPhoneDigits = 10
	maxPhoneDigits = 11
)

// NormalizeDigits maps Persian and Arabic-Indic digits to ASCII.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r == '٫':
			return '.'
		}
		return r
	}, s)
}

func ParseWireLength(raw string) (int, error) {
	length, err := strconv.Atoi(NormalizeDigits(strings.TrimSpace(raw)))
	if err != nil {
		return 0, &ValidationError{Field: FieldWireLength, Err: ErrNotNumber}
	}
	if length < MinWireLengthCM || length > MaxWireLengthCM {
		return 0, &ValidationError{Field: FieldWireLength, Err: ErrOutOfRange}
	}
	return length, nil
}

func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(NormalizeDigits(strings.TrimSpace(raw)))
	if err != nil {
		return 0, &ValidationError{Field: FieldQuantity, Err: ErrNotNumber}
	}
	if qty <= 0 || qty > MaxQuantity {
		return 0, &ValidationError{Field: FieldQuantity, Err: ErrOutOfRange}
	}
	return qty, nil
}

// ParseName splits a full name on the first run of whitespace.
func ParseName(raw string) (first, last string, err error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", "", &ValidationError{Field: FieldCustomerName, Err: ErrInvalidName}
	}

	idx := strings.IndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, "", nil
	}
	return name[:idx], strings.TrimSpace(name[idx:]), nil
}

// ValidatePhone accepts local numbers such as 09123456789. Spaces and dashes
// are dropped before checking.
func ValidatePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, NormalizeDigits(strings.TrimSpace(raw)))

	if len(cleaned) < minPhoneDigits || len(cleaned) > maxPhoneDigits {
		return "", &ValidationError{Field: FieldCustomerPhone, Err: ErrInvalidPhone}
	}
	if cleaned[0] != '0' {
		return "", &ValidationError{Field: FieldCustomerPhone, Err: ErrInvalidPhone}
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", &ValidationError{Field: FieldCustomerPhone, Err: ErrInvalidPhone}
		}
	}
	return cleaned, nil
}

// ParseCalculatorLength reads a cable length in meters for the quick
// calculator, at most MaxCalculatorLength.
func ParseCalculatorLength(raw string) (float64, error) {
	length, err := strconv.ParseFloat(NormalizeDigits(strings.TrimSpace(raw)), 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) {
		return 0, &ValidationError{Field: "calculator_length", Err: ErrNotNumber}
	}
	if length < 0 {
		return 0, &ValidationError{Field: "calculator_length", Err: ErrNegative}
	}
	if length > MaxCalculatorLength {
		return 0, &ValidationError{Field: "calculator_length", Err: ErrOutOfRange}
	}
	return length, nil
}
