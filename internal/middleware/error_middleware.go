package middleware

import (
	"errors"
	"net/http"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// errorMappings is checked in order; the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrUserAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrClubAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrRequestAlreadyExists, http.StatusConflict, dto.ErrorCodeRequestAlreadyExists},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrClubNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrQuestionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrRecordNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrClubLimitExceeded, http.StatusBadRequest, dto.ErrorCodeClubLimitExceeded},
	{apperrors.ErrClubCapacityExceeded, http.StatusBadRequest, dto.ErrorCodeClubCapacityExceeded},
	{apperrors.ErrUndefinedUserClub, http.StatusBadRequest, dto.ErrorCodeUndefinedUserClub},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeInvalidEmail},
	{apperrors.ErrInvalidRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
	{apperrors.ErrUnauthorizedAction, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
}

// StatusFor returns the HTTP status and error code for err
func StatusFor(err error) (int, dto.ErrorCode) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer
}

// HandleAPIError writes the error response for err
func HandleAPIError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		HandleValidationError(c, verrs)
		return
	}

	status, code := StatusFor(err)
	message := apperrors.MessageOf(err)
	errorDetail := dto.NewErrorDetail(code, message)

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Details != nil {
		errorDetail = errorDetail.WithDetails(ce.Details)
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		errorDetail = dto.NewErrorDetail(code, "Internal server error")
		if gin.Mode() != gin.ReleaseMode {
			errorDetail = errorDetail.WithDebugInfo("%v", err)
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
