package api

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// mailShape is the simple local@domain.tld check applied to every email.
var mailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool { return mailShape.MatchString(s) }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mailshape", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// messages maps "field.tag" or "field" to the error shown for a failed rule.
type messages map[string]string

// check validates payload and returns the first failure as a
// *ValidationError worded from msgs.
func check(payload any, msgs messages) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	msg, ok := msgs[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg, ok = msgs[fe.Field()]
	}
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// number coerces a loosely typed form value. Blank and unparsable input
// yield 0, which the numeric rules then reject.
func number(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

// optNumber is number for patch fields: nil when s is blank.
func optNumber(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n := number(s)
	return &n
}

// optText trims s and returns nil when nothing is left.
func optText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
