package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
)

const (
	MaxStreetLength  = 25
	MaxCityLength    = 25
	MaxCommentLength = 100
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{2}-\d{3}$`)
	phonePattern      = regexp.MustCompile(`^\d{9}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("postal_code", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone9", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Address is the delivery address form.
type Address struct {
	Street      string `json:"street" validate:"required,max=25"`
	HouseNumber int    `json:"houseNumber" validate:"min=1"`
	PostalCode  string `json:"postalCode" validate:"required,postal_code"`
	City        string `json:"city" validate:"required,max=25"`
}

// Contact is the customer contact form. Email is optional.
type Contact struct {
	Phone string `json:"phone" validate:"required,phone9"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Comment is the free-text note attached to an order.
type Comment struct {
	Comment string `json:"comment" validate:"max=100"`
}

// ValidateAddress trims the form and checks it. The returned address is the
// normalized form.
func ValidateAddress(in Address) (Address, error) {
	in.Street = strings.TrimSpace(in.Street)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.City = strings.TrimSpace(in.City)
	return in, check(in)
}

func ValidateContact(in Contact) (Contact, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	return in, check(in)
}

func ValidateComment(in Comment) (Comment, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	return in, check(in)
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = message(fieldErr)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "postal_code":
		return "must match DD-DDD"
	case "phone9":
		return "must be exactly 9 digits"
	}
	return "is invalid"
}
