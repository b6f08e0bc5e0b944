package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"racefinder/internal/pkg/apperr"
)

var validate *validator.Validate

var slugID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("docid", func(fl validator.FieldLevel) bool {
		return slugID.MatchString(fl.Field().String())
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Var validates a single value against a tag expression.
func Var(v interface{}, tag string) bool {
	return validate.Var(v, tag) == nil
}

// Check validates v and folds any failures into one invalid_input error.
func Check(v interface{}) error {
	errs := Validate(v)
	if errs == nil {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for field, tag := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", field, tag))
	}
	sort.Strings(fields)
	return apperr.Invalid("invalid fields: " + strings.Join(fields, ", "))
}
