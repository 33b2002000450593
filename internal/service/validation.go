package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	usernameMin = 3
	usernameMax = 20
	passwordMin = 8
	passwordMax = 25

	// bcrypt rejects longer input
	passwordMaxBytes = 72
)

// ValidateUsername requires 3-20 letters or digits.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMin || n > usernameMax {
		return validationf("username must be between %d and %d characters", usernameMin, usernameMax)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return validationf("username may contain only letters and digits")
		}
	}
	return nil
}

// ValidatePassword requires 8-25 characters, at most 72 bytes, with at least one
// uppercase letter, one lowercase letter, one digit and one special character.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMin || n > passwordMax {
		return validationf("password must be between %d and %d characters", passwordMin, passwordMax)
	}
	if len(password) > passwordMaxBytes {
		return validationf("password is too long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}

	switch {
	case !upper:
		return validationf("password must contain an uppercase letter")
	case !lower:
		return validationf("password must contain a lowercase letter")
	case !digit:
		return validationf("password must contain a digit")
	case !special:
		return validationf("password must contain a special character")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
