package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Rule is a custom validation tag.
type Rule interface {
	Register() (validator.Func, string)
}

// Validator checks request structs against their `validate` tags.
type Validator struct {
	v     *validator.Validate
	rules []Rule
}

// New returns a validator with the custom rules registered. Field names in
// errors follow the json tag.
func New() *Validator {
	vl := &Validator{
		v:     validator.New(),
		rules: []Rule{NotBlank{}},
	}
	vl.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	if err := vl.setup(); err != nil {
		panic(err)
	}
	return vl
}

func (vl *Validator) setup() error {
	for _, rule := range vl.rules {
		fn, tag := rule.Register()
		if err := vl.v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns a validation DomainError listing each failed field.
func (vl *Validator) Validate(data any) error {
	err := vl.v.Struct(data)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(validationErrs))
	for _, fe := range validationErrs {
		details[fe.Field()] = fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
	return apperrors.NewValidationError("Validation failed", details)
}

// NotBlank rejects strings that are empty after trimming.
type NotBlank struct{}

func (NotBlank) Register() (validator.Func, string) {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.String:
			return strings.TrimSpace(field.String()) != ""
		default:
			return true
		}
	}, "notblank"
}
