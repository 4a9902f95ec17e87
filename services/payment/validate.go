package payment

import (
	"regexp"
	"strings"
	"time"

	"tourly/models"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateRequest checks every field relevant to the requested method and
// returns all problems found, never short-circuiting on the first one.
func ValidateRequest(req models.CreatePaymentRequest, now time.Time) ValidationErrors {
	var errs ValidationErrors

	if req.BookingID == "" {
		errs = append(errs, ValidationError{Field: "bookingId", Reason: "booking id is required"})
	}
	if req.Amount <= 0 {
		errs = append(errs, ValidationError{Field: "amount", Reason: "amount must be positive"})
	}
	if req.Currency == "" {
		errs = append(errs, ValidationError{Field: "currency", Reason: "currency is required"})
	}

	switch req.Method {
	case "card", "apple_pay", "google_pay":
		errs = append(errs, validateCard(req.Card, now)...)
	case "momo":
		errs = append(errs, validatePhone(req.Phone)...)
	case "bank_transfer":
		errs = append(errs, validateAccount(req.Account)...)
	}

	if req.Billing != nil {
		errs = append(errs, validateBilling(*req.Billing)...)
	}

	return errs
}

func validateCard(card *models.CardDetails, now time.Time) ValidationErrors {
	if card == nil {
		return ValidationErrors{{Field: "card", Reason: "card details are required"}}
	}

	var errs ValidationErrors
	if !ValidateCardNumber(card.Number) {
		errs = append(errs, ValidationError{Field: "cardNumber", Reason: "invalid card number"})
	}
	if !expiryPattern.MatchString(card.Expiry) {
		errs = append(errs, ValidationError{Field: "expiry", Reason: "expiry must be in MM/YY format"})
	} else if expired(card.Expiry, now) {
		errs = append(errs, ValidationError{Field: "expiry", Reason: "card has expired"})
	}
	if !digitsOnly.MatchString(card.CVV) || len(card.CVV) < 3 || len(card.CVV) > 4 {
		errs = append(errs, ValidationError{Field: "cvv", Reason: "CVV must be 3 or 4 digits"})
	}
	if strings.TrimSpace(card.HolderName) == "" {
		errs = append(errs, ValidationError{Field: "holderName", Reason: "cardholder name is required"})
	}
	return errs
}

// expired treats a card as valid through the last day of its expiry month.
func expired(expiry string, now time.Time) bool {
	t, err := time.Parse("01/06", expiry)
	if err != nil {
		return true
	}
	endOfMonth := t.AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}

func validatePhone(phone string) ValidationErrors {
	if !digitsOnly.MatchString(phone) || len(phone) < 10 || len(phone) > 11 {
		return ValidationErrors{{Field: "phone", Reason: "phone number must be 10 or 11 digits"}}
	}
	return nil
}

func validateAccount(account string) ValidationErrors {
	if len(strings.TrimSpace(account)) < 8 {
		return ValidationErrors{{Field: "account", Reason: "account identifier must be at least 8 characters"}}
	}
	return nil
}

func validateBilling(b models.BillingAddress) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(b.FirstName) == "" {
		errs = append(errs, ValidationError{Field: "firstName", Reason: "first name is required"})
	}
	if strings.TrimSpace(b.LastName) == "" {
		errs = append(errs, ValidationError{Field: "lastName", Reason: "last name is required"})
	}
	if !emailPattern.MatchString(b.Email) {
		errs = append(errs, ValidationError{Field: "email", Reason: "invalid email address"})
	}
	if strings.TrimSpace(b.Address) == "" {
		errs = append(errs, ValidationError{Field: "address", Reason: "address is required"})
	}
	if strings.TrimSpace(b.City) == "" {
		errs = append(errs, ValidationError{Field: "city", Reason: "city is required"})
	}
	if strings.TrimSpace(b.PostalCode) == "" {
		errs = append(errs, ValidationError{Field: "postalCode", Reason: "postal code is required"})
	}
	return errs
}
