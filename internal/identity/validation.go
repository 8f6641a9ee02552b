package identity

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern defines the accepted email shape: local@domain.tld with
// no whitespace or extra @ signs.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks if an email address has a standard shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidSex checks a biological sex value. Only "M" and "F" are accepted.
func IsValidSex(sex string) bool {
	return sex == "M" || sex == "F"
}

// birthDateLayout is the accepted wire format for birth dates.
const birthDateLayout = "2006-01-02"

// Age bounds for registration.
const (
	minAge = 1
	maxAge = 120
)

// IsValidBirthDate checks that a birth date parses as a calendar date
// and that the implied age falls in [1, 120] years.
//
// Age is computed as current year minus birth year; month and day are
// never adjusted. This coarse policy is part of the accepted input
// contract: changing it would silently change which dates register.
func IsValidBirthDate(date string) bool {
	t, err := time.Parse(birthDateLayout, date)
	if err != nil {
		return false
	}

	age := time.Now().Year() - t.Year()
	return age >= minAge && age <= maxAge
}

// Password policy constants.
const (
	minPasswordLength = 8

	// passwordSymbols is the accepted set of special characters.
	passwordSymbols = "@$!%*?&"
)

// IsStrongPassword checks the password policy: at least 8 characters,
// one uppercase letter, one digit, and one symbol from @$!%*?&, drawn
// exclusively from letters, digits and those symbols.
func IsStrongPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			// lowercase is allowed but not required
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			// Any character outside the allowed set fails the policy
			return false
		}
	}

	return hasUpper && hasDigit && hasSymbol
}
