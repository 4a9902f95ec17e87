package payment

import "testing"

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4111111111111111", true},
		{"visa with spaces", "4111 1111 1111 1111", true},
		{"visa with dashes", "4111-1111-1111-1111", true},
		{"mastercard test number", "5500005555555559", true},
		{"amex test number", "378282246310005", true},
		{"bad checksum", "4111111111111112", false},
		{"too short", "411111111111", false},
		{"too long", "41111111111111111111", false},
		{"letters", "4111x11111111111", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCardNumber(tc.number); got != tc.want {
				t.Errorf("ValidateCardNumber(%q) = %v, want %v", tc.number, got, tc.want)
			}
		})
	}
}

func TestCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"4111111111111111", BrandVisa},
		{"5500005555555559", BrandMastercard},
		{"5100000000000008", BrandMastercard},
		{"378282246310005", BrandAmex},
		{"340000000000009", BrandAmex},
		{"6011000990139424", BrandDiscover},
		{"6500000000000002", BrandDiscover},
		{"9999999999999999", BrandGeneric},
	}
	for _, tc := range tests {
		if got := CardBrand(tc.number); got != tc.want {
			t.Errorf("CardBrand(%q) = %q, want %q", tc.number, got, tc.want)
		}
	}
}
