// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"unicode/utf8"
)

const (
	UsernameMinLength = 6
	UsernameMaxLength = 20
	PasswordMinLength = 6
	PasswordMaxLength = 68
	PhoneMaxLength    = 15
	EmailMaxLength    = 255
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength {
		return fmt.Errorf("username must be at least %d characters long", UsernameMinLength)
	}
	if n > UsernameMaxLength {
		return fmt.Errorf("username must not exceed %d characters", UsernameMaxLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("the username should only contain alphanumeric characters")
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters long", PasswordMinLength)
	}
	if n > PasswordMaxLength {
		return fmt.Errorf("password must not exceed %d characters", PasswordMaxLength)
	}
	return nil
}

// ValidateEmail accepts a bare address, without display name.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > EmailMaxLength {
		return fmt.Errorf("email must not exceed %d characters", EmailMaxLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// ValidatePhoneNumber checks presence and maximum length.
func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone_number is required")
	}
	if utf8.RuneCountInString(phone) > PhoneMaxLength {
		return fmt.Errorf("phone_number must not exceed %d characters", PhoneMaxLength)
	}
	return nil
}
