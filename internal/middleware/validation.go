package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// HandleValidationError answers 400 with one entry per failed field. Errors that are not
// validator errors, such as malformed JSON or a non-numeric form value, become a single
// entry.
func HandleValidationError(c *gin.Context, err error) {
	verrs := dto.NewValidationErrors()

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verrs.AddError(fe.Field(), formatValidationError(fe))
		}
	} else {
		verrs.AddError("", err.Error())
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithDetails(verrs.Errors)
	if len(verrs.Errors) == 1 {
		errorDetail.Message = verrs.Errors[0].Message
		errorDetail.Field = verrs.Errors[0].Field
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// ParseIDParam reads a positive int64 path parameter; on failure it writes a 400 and
// returns false
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).WithField(name)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "clubemail", "email":
		return e.Field() + " must be a valid email address"
	case "phone":
		return e.Field() + " must be 10 digits"
	case "datetime":
		return e.Field() + " must be in YYYY-MM-DD format"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
