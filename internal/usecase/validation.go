package usecase

import (
	"net/mail"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

func validateCreateLeadInput(input CreateLeadInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{"name", "is required"}
	}
	if len(input.Name) > 200 {
		return &ValidationError{"name", "must not exceed 200 characters"}
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			return &ValidationError{"email", "is invalid"}
		}
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		return &ValidationError{"phone", "must be a valid phone number"}
	}
	return nil
}

func validateCreateProductInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{"name", "is required"}
	}
	if input.PriceCents < 0 {
		return &ValidationError{"price_cents", "must not be negative"}
	}
	return nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}
