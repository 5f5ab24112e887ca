package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"dashboard/models"

	"github.com/go-playground/validator/v10"
)

// Form is the raw, untrusted field map submitted by the invoice form.
type Form map[string]string

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusPending Status = models.InvoiceStatusPending
	StatusPaid    Status = models.InvoiceStatusPaid
)

// Fields is a validated and normalized invoice form.
type Fields struct {
	CustomerID string
	Amount     int64 // minor units
	Status     Status
}

// Kind classifies why a field was rejected.
type Kind string

const (
	KindInvalidType         Kind = "invalid_type"
	KindConstraintViolation Kind = "constraint_violation"
)

const (
	msgCustomer = "Please select a customer"
	msgAmount   = "Amount must be greater than $0"
	msgStatus   = "Please select a invoice status"
)

// FieldError is one rejected field.
type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

// ValidationError carries every field error found in a form, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid invoice form: " + strings.Join(parts, "; ")
}

// FieldErrors groups messages by field name.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

// State renders the error for the form, e.g. verb "create" gives
// "Missing Fields. Failed to create invoice".
func (e *ValidationError) State(verb string) State {
	return State{
		Errors:  e.FieldErrors(),
		Message: fmt.Sprintf("Missing Fields. Failed to %s invoice", verb),
	}
}

// invoiceForm mirrors Form for struct validation; the form tag names the
// field as submitted.
type invoiceForm struct {
	CustomerID string `form:"customerId" validate:"required"`
	Amount     string `form:"amount" validate:"required,amount,positive_amount"`
	Status     string `form:"status" validate:"required,oneof=pending paid"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		_, err := ToMinorUnits(fl.Field().String())
		return !errors.Is(err, errNotANumber)
	})
	mustRegister(v, "positive_amount", func(fl validator.FieldLevel) bool {
		minor, err := ToMinorUnits(fl.Field().String())
		return err == nil && minor > 0
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ParseForm validates a submitted invoice form. On failure it returns a
// *ValidationError listing every invalid field.
func ParseForm(form Form) (Fields, error) {
	in := invoiceForm{
		CustomerID: strings.TrimSpace(form["customerId"]),
		Amount:     strings.TrimSpace(form["amount"]),
		Status:     strings.TrimSpace(form["status"]),
	}
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Fields{}, fmt.Errorf("validate invoice form: %w", err)
		}
		return Fields{}, toValidationError(fieldErrs)
	}
	amount, err := ToMinorUnits(in.Amount)
	if err != nil {
		return Fields{}, fmt.Errorf("normalize amount: %w", err)
	}
	return Fields{CustomerID: in.CustomerID, Amount: amount, Status: Status(in.Status)}, nil
}

// field order used in messages and tests
var fieldOrder = map[string]int{"customerId": 0, "amount": 1, "status": 2}

func toValidationError(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Fields = append(out.Fields, describe(fe))
	}
	sort.SliceStable(out.Fields, func(i, j int) bool {
		return fieldOrder[out.Fields[i].Field] < fieldOrder[out.Fields[j].Field]
	})
	return out
}

func describe(fe validator.FieldError) FieldError {
	switch fe.Field() {
	case "customerId":
		return FieldError{Field: "customerId", Kind: KindInvalidType, Message: msgCustomer}
	case "amount":
		kind := KindConstraintViolation
		if fe.Tag() == "amount" {
			kind = KindInvalidType
		}
		return FieldError{Field: "amount", Kind: kind, Message: msgAmount}
	default:
		return FieldError{Field: fe.Field(), Kind: KindInvalidType, Message: msgStatus}
	}
}
