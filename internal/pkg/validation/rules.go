package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// EmailPattern is the accepted login/signup email shape
	EmailPattern = `^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`

	// PhonePattern is a 10 digit phone number
	PhonePattern = `^[0-9]{10}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// IsValidEmail reports whether s has the accepted email shape
func IsValidEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(s))
}

// IsValidPhone reports whether s is a 10 digit phone number
func IsValidPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

var registerOnce sync.Once

// RegisterCustomValidators adds the clubemail and phone tags to gin's validator engine
func RegisterCustomValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = Register(v)
	})
	return err
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("clubemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
}
