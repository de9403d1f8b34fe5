// Package validate checks form input before it is sent to the API.
package validate

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/outagetracker/internal/model"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// messages maps "Field.tag" to the text shown next to the field.
var messages = map[string]string{
	"Email.required":                "Email is required",
	"Email.email_address":           "Invalid email address",
	"Password.required":             "Password is required",
	"Password.min":                  "Password must be at least 8 characters",
	"Name.required":                 "Name is required",
	"Name.min":                      "Name must be at least 2 characters",
	"PasswordConfirmation.required": "Please confirm your password",
	"PasswordConfirmation.eqfield":  "Passwords do not match",
	"AcceptTerms.required":          "You must agree to the terms and conditions",
}

// fieldNames maps struct fields to the API's field names.
var fieldNames = map[string]string{
	"Email":                "email",
	"Password":             "password",
	"Name":                 "name",
	"PasswordConfirmation": "password_confirmation",
	"AcceptTerms":          "terms",
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	err := val.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return val
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Credentials validates the login form.
func Credentials(c model.Credentials) error {
	return check(c)
}

// Registration validates the register form.
func Registration(r model.Registration) error {
	return check(r)
}

// PasswordReset validates the forgot-password form.
func PasswordReset(p model.PasswordReset) error {
	return check(p)
}

func check(form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewValidationError("Validation failed", nil)
	}

	fields := make(map[string][]string, len(verrs))
	first := ""
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		name, ok := fieldNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		fields[name] = append(fields[name], msg)
		if first == "" {
			first = msg
		}
	}

	return model.NewValidationError(first, fields)
}
