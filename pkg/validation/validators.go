package validation

import (
	"net/mail"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom rules registered and field
// names reported by their json tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("mailbox", Mailbox)
}

// NotBlank rejects strings that are empty once surrounding whitespace is removed
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Mailbox accepts exactly one bare address ("jane@example.com"). Display
// names and address lists are rejected since the value ends up in headers.
func Mailbox(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true // Leave emptiness to required/not_blank
	}
	addr, err := mail.ParseAddress(val)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == val
}
