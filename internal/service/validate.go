package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/alexivanou/geocommunity/internal/model"
	"go.uber.org/multierr"
)

const (
	maxNameLength  = 200
	maxTitleLength = 300
	minPassword    = 8
)

func invalid(field, msg string) error {
	return &model.ValidationError{Field: field, Message: msg}
}

// requireText trims v and checks it is non-empty and at most max runes.
func requireText(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(v) > max {
		return "", invalid(field, "is too long")
	}
	return v, nil
}

func requireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// normalizeCountryCode upper-cases an ISO code of two or three letters.
func normalizeCountryCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 || len(code) > 3 {
		return "", invalid("code", "must be 2 or 3 letters")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", invalid("code", "must be 2 or 3 letters")
		}
	}
	return code, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

// collect combines validation failures so callers see every bad field at once.
func collect(errs ...error) error {
	return multierr.Combine(errs...)
}
