package client

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

// Form field names, as the login and register forms name their inputs.
const (
	FieldLoginEmail       = "loginEmailInput"
	FieldLoginPassword    = "loginPasswordInput"
	FieldRegisterName     = "registerNameInput"
	FieldRegisterEmail    = "registerEmailInput"
	FieldRegisterPassword = "registerPasswordInput"
)

var formFields = []string{FieldLoginEmail, FieldLoginPassword, FieldRegisterName, FieldRegisterEmail, FieldRegisterPassword}

// Credentials are what the login and register forms submit.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"blogemail"`
	Password string `json:"password" validate:"pwd"`
}

var (
	formValidatorOnce sync.Once
	formValidator     *validator.Validate
)

func credentialsValidator() *validator.Validate {
	formValidatorOnce.Do(func() { formValidator = validation.New() })
	return formValidator
}

// ValidateCredentials reports whether email looks like an address and the
// password has at least 6 characters. It has no side effects.
func ValidateCredentials(email, password string) bool {
	return credentialsValidator().Struct(Credentials{Email: email, Password: password}) == nil
}
