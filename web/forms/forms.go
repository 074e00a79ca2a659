// Package forms validates posted form data before any backend call is made.
// Failures here never leave the gateway; the screen re-renders with inline
// messages and keeps the typed values.
package forms

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Register is the account creation form.
type Register struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// NewOrder covers the creation screen's required fields. Everything else on
// the form travels to the backend unchecked.
type NewOrder struct {
	ClienteNome string `form:"clienteNome" validate:"required"`
	TipoPedido  string `form:"tipoPedido" validate:"required"`
	DataEvento  string `form:"dataEvento" validate:"required,datefield"`
	Quantidade  string `form:"quantidade" validate:"required,number"`
}

func init() {
	// datefield accepts the browser's date input format only.
	validate.RegisterValidation("datefield", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 10 {
			return false
		}
		return value[4] == '-' && value[7] == '-'
	})
}

// EditOrder covers the fields the edit screen checks before saving. Fields
// left empty pass; the backend owns any further rules.
type EditOrder struct {
	DataEvento   string `form:"dataEvento" validate:"omitempty,datefield"`
	DataRetirada string `form:"dataRetirada" validate:"omitempty,datefield"`
	Quantidade   string `form:"quantidade" validate:"omitempty,number"`
}

// ParseLogin binds and validates the login form.
func ParseLogin(values url.Values) (*Login, map[string]string) {
	form := &Login{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
	return form, check(form)
}

// ParseRegister binds and validates the registration form.
func ParseRegister(values url.Values) (*Register, map[string]string) {
	form := &Register{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
	return form, check(form)
}

// ParseNewOrder validates the creation form's required fields.
func ParseNewOrder(values url.Values) (*NewOrder, map[string]string) {
	form := &NewOrder{
		ClienteNome: strings.TrimSpace(values.Get("clienteNome")),
		TipoPedido:  strings.TrimSpace(values.Get("tipoPedido")),
		DataEvento:  strings.TrimSpace(values.Get("dataEvento")),
		Quantidade:  strings.TrimSpace(values.Get("quantidade")),
	}
	return form, check(form)
}

// ParseEditOrder validates the edit form's checkable fields.
func ParseEditOrder(values url.Values) (*EditOrder, map[string]string) {
	form := &EditOrder{
		DataEvento:   strings.TrimSpace(values.Get("dataEvento")),
		DataRetirada: strings.TrimSpace(values.Get("dataRetirada")),
		Quantidade:   strings.TrimSpace(values.Get("quantidade")),
	}
	return form, check(form)
}

// check validates the struct and maps failures to field messages keyed by
// the form tag.
func check(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": "Dados inválidos."}
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = message(fieldErr)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Informe um e-mail válido."
	case "min":
		return fmt.Sprintf("Mínimo de %s caracteres.", fe.Param())
	case "number":
		return "Informe um número válido."
	case "datefield":
		return "Informe uma data válida."
	}
	return "Valor inválido."
}
