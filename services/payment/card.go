package payment

import "strings"

// Card brands detected by number prefix.
const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "American Express"
	BrandDiscover   = "Discover"
	BrandGeneric    = "Card"
)

// ValidateCardNumber reports whether the card number passes the Luhn
// checksum with an acceptable length of 13 to 19 digits.
func ValidateCardNumber(number string) bool {
	digits := normalizeCardNumber(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if d < '0' || d > '9' {
			return false
		}
		n := int(d - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

// CardBrand resolves the card brand from the number prefix.
func CardBrand(number string) string {
	digits := normalizeCardNumber(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return BrandVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return BrandAmex
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return BrandDiscover
	default:
		return BrandGeneric
	}
}

func normalizeCardNumber(number string) string {
	return strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
}
