package service

import (
	"errors"
	"regexp"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/questboard/internal/error_values"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once

	clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
)

const dateLayout = "2006-01-02"

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				// Digits, letters or underscore
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
		// HH:MM, 24h clock
		validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		})
		// YYYY-MM-DD or RFC3339. Empty string is allowed and means "clear"
		validate.RegisterValidation("due_date", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			if _, err := time.Parse(dateLayout, value); err == nil {
				return true
			}
			_, err := time.Parse(time.RFC3339, value)
			return err == nil
		})
	})
}

// validateStruct runs struct validation and converts field errors into a
// single error matching errorvalues.ErrValidation.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		joined := []error{errorvalues.ErrValidation}
		for _, fieldErr := range validationErrors {
			joined = append(joined, fieldErr)
		}
		return errors.Join(joined...)
	}
	return errors.New("validation unexpected error: " + err.Error())
}
