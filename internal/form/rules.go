package form

import (
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

const (
	emailTag  = "console_email"
	minLenTag = "console_minlen"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,4}$`)

// Rule is a validator tag paired with the message shown when it fails.
// Against names the field whose value a cross-field tag compares with.
type Rule struct {
	Tag     string
	Message string
	Against FieldName
}

// Errors maps a field to the message of its first failing rule.
type Errors map[FieldName]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	// Length in UTF-16 code units, the way browser minlength counts it.
	if err := v.RegisterValidation(minLenTag, func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(utf16.Encode([]rune(fl.Field().String()))) >= n
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks every field of v and returns the failures. An empty
// result means v may be submitted.
func Validate(v Values) Errors {
	errs := Errors{}
	for _, s := range Specs {
		if msg := validateField(v, s); msg != "" {
			errs[s.Name] = msg
		}
	}
	return errs
}

// ValidateField checks a single field of v.
func ValidateField(v Values, name FieldName) (string, error) {
	s, ok := Lookup(name)
	if !ok {
		return "", ErrUnknownField
	}
	return validateField(v, s), nil
}

func validateField(v Values, s Spec) string {
	value := v.Text(s.Name)
	for _, r := range s.Rules {
		var err error
		if r.Against != "" {
			err = validate.VarWithValue(value, v.Text(r.Against), r.Tag)
		} else {
			err = validate.Var(value, r.Tag)
		}
		if err != nil {
			return r.Message
		}
	}
	return ""
}
