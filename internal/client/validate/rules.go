package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	nameRegex    = regexp.MustCompile(`^[A-Za-z ]+$`)
	mobileRegex  = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	aadhaarRegex = regexp.MustCompile(`^[0-9]{4}-[0-9]{4}-[0-9]{4}$`)
)

const (
	nameMinLen = 2
	nameMaxLen = 100
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"person_name":  isPersonName,
		"in_mobile":    isMobile,
		"aadhaar":      isAadhaar,
		"booking_date": isBookingDate,
	}
	for tag, fn := range rules {
		if err := val.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}
	return val
}

func isPersonName(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	n := len(s)
	return n >= nameMinLen && n <= nameMaxLen && nameRegex.MatchString(s)
}

func isMobile(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return mobileRegex.MatchString(s) && !allSameDigit(s) && !ascendingMod10(s)
}

func isAadhaar(fl validator.FieldLevel) bool {
	return aadhaarRegex.MatchString(fl.Field().String())
}

// isBookingDate accepts YYYY-MM-DD or a full RFC 3339 timestamp as
// returned by the backend.
func isBookingDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ascendingMod10 reports strings like "6789012345" where each digit is the
// previous one plus one, wrapping 9 to 0.
func ascendingMod10(s string) bool {
	for i := 1; i < len(s); i++ {
		if (s[i-1]-'0'+1)%10 != s[i]-'0' {
			return false
		}
	}
	return true
}

// check runs v.Var and converts the result.
func check(field, value, tag string) error {
	return translate(v.Var(value, tag), field)
}

func translate(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if _, rest, ok := strings.Cut(name, "."); ok {
			name = rest
		}
		if name == "" {
			name = field
		}
		out = append(out, ValidationError{Field: name, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "person_name":
		return fmt.Sprintf("must be %d-%d characters, letters and spaces only", nameMinLen, nameMaxLen)
	case "in_mobile":
		return "must be a valid 10-digit mobile number starting with 6, 7, 8 or 9"
	case "aadhaar":
		return "must be 12 digits in the format NNNN-NNNN-NNNN"
	case "booking_date":
		return "must be a date in the format YYYY-MM-DD"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	}
	return fe.Error()
}
