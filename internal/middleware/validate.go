package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	return v
}

// ValidationError carries per-field messages for a rejected request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Bind parses the request body into dst and validates it.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &ValidationError{Fields: map[string]string{"body": "invalid request format"}}
	}
	return Validate(dst)
}

// Validate runs struct validation on dst.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &ValidationError{Fields: map[string]string{"error": err.Error()}}
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = describe(e)
	}
	return &ValidationError{Fields: fields}
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + e.Param()
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "oneof":
		return "must be one of " + e.Param()
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}

// ErrorHandler renders fiber errors and validation errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "fields": verr.Fields})
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
		msg = ferr.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
