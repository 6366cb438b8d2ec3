package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// UserPatchRules are the validator tags of the user profile patch keys. They match the
// full-update form and the column widths.
var UserPatchRules = map[string]string{
	"firstName": "max=50",
	"lastName":  "max=50",
	"phone":     "phone",
	"bio":       "max=500",
	"apartment": "max=100",
	"street":    "max=100",
	"city":      "max=50",
	"state":     "max=50",
	"zipcode":   "max=10",
	"country":   "max=50",
	"birthday":  "datetime=2006-01-02",
}

// ClubPatchRules are the validator tags of the club text keys; numeric keys are parsed
// by the club service
var ClubPatchRules = map[string]string{
	"clubName":    "max=100",
	"description": "max=500",
}

var patchValidator = newPatchValidator()

func newPatchValidator() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// ValidatePatchValue checks value against the rule of key. Keys without a rule pass.
func ValidatePatchValue(rules map[string]string, key, value string) error {
	rule, ok := rules[key]
	if !ok {
		return nil
	}
	err := patchValidator.Var(value, rule)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%s: %s", key, describe(verrs[0]))
	}
	return fmt.Errorf("%s: %w", key, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "phone":
		return "must be 10 digits"
	case "datetime":
		return "must be in YYYY-MM-DD format"
	}
	return "failed on " + fe.Tag()
}
