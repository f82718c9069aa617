package importer

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	thousand             = decimal.NewFromInt(1000)
	truncationUpperBound = decimal.NewFromInt(100)
)

// NormalizeAmount converts a raw amount cell into a decimal. Empty or
// unparseable input yields zero. Negative values are returned as-is and left
// to the validator.
//
// Numeric cells between 0 and 100 (exclusive) are multiplied by 1000: some
// exports drop trailing zeros from amounts. This misreads genuinely small
// amounts and is kept on purpose.
func NormalizeAmount(cell Cell) decimal.Decimal {
	if cell.IsEmpty() {
		return decimal.Zero
	}

	if cell.IsNumber {
		value := decimal.NewFromFloat(cell.Number)
		if value.IsPositive() && value.LessThan(truncationUpperBound) {
			return value.Mul(thousand)
		}
		return value
	}

	return parseAmountText(cell.Text)
}

func parseAmountText(input string) decimal.Decimal {
	cleaned := strings.ReplaceAll(stripSpaces(input), "R$", "")
	if cleaned == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasDot:
		parts := strings.Split(cleaned, ".")
		if len(parts) != 2 || len(parts[1]) != 2 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	number := leadingNumber(cleaned)
	if number == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func stripSpaces(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
}

// leadingNumber returns the longest prefix of input that reads as a decimal
// number (sign, digits, one fraction, optional exponent), rewritten into a
// form decimal.NewFromString accepts. Trailing garbage is ignored.
func leadingNumber(input string) string {
	i := 0
	sign := ""
	if i < len(input) && (input[i] == '+' || input[i] == '-') {
		if input[i] == '-' {
			sign = "-"
		}
		i++
	}

	intStart := i
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	intPart := input[intStart:i]

	fracPart := ""
	if i < len(input) && input[i] == '.' {
		fracStart := i + 1
		j := fracStart
		for j < len(input) && isDigit(input[j]) {
			j++
		}
		fracPart = input[fracStart:j]
		i = j
	}

	if intPart == "" && fracPart == "" {
		return ""
	}
	if intPart == "" {
		intPart = "0"
	}

	number := sign + intPart
	if fracPart != "" {
		number += "." + fracPart
	}

	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		expSign := ""
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			expSign = string(input[j])
			j++
		}
		expStart := j
		for j < len(input) && isDigit(input[j]) {
			j++
		}
		if j > expStart {
			number += "e" + expSign + input[expStart:j]
		}
	}

	return number
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
