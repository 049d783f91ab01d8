package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	// The timezone tag resolves labels with time.LoadLocation; embed the
	// zone database so validation works without system tzdata.
	_ "time/tzdata"

	"notcluely/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var (
	// Handles are validated after lowercasing, so uppercase never reaches
	// this pattern.
	handleRegex = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRegistration checks the canonical (already lowercased) handle,
// the plaintext password, and the timezone label.
func (v *UserValidator) ValidateRegistration(username, password, tz string) error {
	var errs ValidationErrors

	if err := v.validateHandle(username); err != nil {
		errs = append(errs, *err)
	}
	if err := v.validatePassword(password); err != nil {
		errs = append(errs, *err)
	}
	if err := v.ValidateTimezone(tz); err != nil {
		if verrs, ok := err.(ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *UserValidator) ValidateTimezone(tz string) error {
	if err := v.validate.Var(tz, "required,timezone"); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA timezone label",
			},
		}
	}
	return nil
}

func (v *UserValidator) validateHandle(username string) *ValidationError {
	if !handleRegex.MatchString(username) {
		return &ValidationError{
			Field:   "username",
			Message: "username must be 3-30 characters of lowercase letters, digits, '_', '.' or '-'",
		}
	}
	return nil
}

// validatePassword enforces the complexity floor: at least 8 characters
// with an uppercase letter, a lowercase letter and a digit.
func (v *UserValidator) validatePassword(password string) *ValidationError {
	if len(password) < 8 {
		return &ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &ValidationError{
			Field:   "password",
			Message: "password must contain an uppercase letter, a lowercase letter and a digit",
		}
	}
	return nil
}
