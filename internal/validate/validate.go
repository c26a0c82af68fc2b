// Package validate checks form input before anything is sent to the backend.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to its message. An empty map means valid. Each
// run returns a fresh map.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTitle           = "title"
	FieldDescription     = "description"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 20
	MaxTitleLength    = 200
	MaxDescription    = 1000
	PasswordSpecials  = "!@#$%^&*"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func checkEmail(errs Errors, email string) {
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Email address is invalid"
	}
}

// SignIn validates the sign-in form.
func SignIn(email, password string) Errors {
	errs := Errors{}
	checkEmail(errs, email)
	if password == "" {
		errs[FieldPassword] = "Password is required"
	}
	return errs
}

// SignUp validates the sign-up form. The confirmation is compared even when
// the password itself is invalid.
func SignUp(email, password, confirm string) Errors {
	errs := Errors{}
	checkEmail(errs, email)

	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		errs[FieldPassword] = "Password is required"
	case n < MinPasswordLength:
		errs[FieldPassword] = "Password must be at least 8 characters"
	case n > MaxPasswordLength:
		errs[FieldPassword] = "Password must be no more than 20 characters"
	case !strings.ContainsAny(password, PasswordSpecials):
		errs[FieldPassword] = "Password must contain at least one special character (!@#$%^&*)"
	}

	if password != confirm {
		errs[FieldConfirmPassword] = "Passwords do not match"
	}
	return errs
}

// Task validates the task form.
func Task(title, description string) Errors {
	errs := Errors{}
	switch {
	case strings.TrimSpace(title) == "":
		errs[FieldTitle] = "Title is required"
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs[FieldTitle] = "Title must be 200 characters or less"
	}
	if utf8.RuneCountInString(description) > MaxDescription {
		errs[FieldDescription] = "Description must be 1000 characters or less"
	}
	return errs
}
