package menu

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errPriceFormat = errors.New("price must be a number such as 29,90")

// ParsePrice reads a price typed by a person. A comma is the decimal
// separator when present, in which case dots are thousands separators.
// Currency symbols and spaces are ignored. The result has two decimals.
func ParsePrice(input string) (decimal.Decimal, error) {
	if strings.Contains(input, "-") {
		return decimal.Zero, errPriceFormat
	}

	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch strings.Count(cleaned, ",") {
	case 0:
		if strings.Count(cleaned, ".") > 1 {
			return decimal.Zero, errPriceFormat
		}
	case 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	default:
		return decimal.Zero, errPriceFormat
	}

	if cleaned == "" || cleaned == "." {
		return decimal.Zero, errPriceFormat
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errPriceFormat
	}
	return d.Round(2), nil
}
