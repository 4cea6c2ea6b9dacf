package checkout

import (
	"errors"
	"strings"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Form is the contact and shipping part of a checkout submission.
type Form struct {
	FullName      string `schema:"fullName" validate:"required,max=120"`
	Email         string `schema:"email" validate:"required,email"`
	Phone         string `schema:"phone" validate:"required,max=20"`
	AddressLine1  string `schema:"addressLine1" validate:"required"`
	AddressLine2  string `schema:"addressLine2"`
	City          string `schema:"city" validate:"required"`
	State         string `schema:"state" validate:"required"`
	Pincode       string `schema:"pincode" validate:"required,max=10"`
	PaymentMethod string `schema:"paymentMethod"`
}

// ItemInput is what the buyer supplied for one cart line.
type ItemInput struct {
	CustomerName string
	Photos       [][]byte
}

type PlaceOrderInput struct {
	Form Form
	// Items is keyed by product id.
	Items map[string]ItemInput
}

func (f *Form) trim() {
	for _, p := range []*string{
		&f.FullName, &f.Email, &f.Phone, &f.AddressLine1, &f.AddressLine2,
		&f.City, &f.State, &f.Pincode, &f.PaymentMethod,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// validationError turns the first validator failure into a domain error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field, field+" is required")
	case "email":
		return domain.NewValidationError(field, "invalid email address")
	case "max":
		return domain.NewValidationError(field, field+" is too long")
	default:
		return domain.NewValidationError(field, "invalid value")
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
