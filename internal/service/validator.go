package service

import (
	"regexp"
	"strings"

	"github.com/sicada/admin-service/internal/entity"
)

const (
	EmailMaxLen    = 255
	PasswordMinLen = 6
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9\s-]{6,20}$`)
)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen || !emailRegexp.MatchString(email) {
		return entity.ErrInvalidEmail
	}

	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegexp.MatchString(phone) {
		return entity.ErrInvalidPhone
	}

	return nil
}

func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen {
		return entity.ErrPasswordTooShort
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireFields(fields map[string]string) error {
	for _, v := range fields {
		if strings.TrimSpace(v) == "" {
			return entity.ErrMissingRequiredField
		}
	}

	return nil
}
