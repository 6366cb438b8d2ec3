package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrUserAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrClubAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrRequestAlreadyExists, http.StatusConflict, dto.ErrorCodeRequestAlreadyExists},
		{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrClubNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrQuestionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewRecordNotFoundError("Club request 9 not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrClubLimitExceeded, http.StatusBadRequest, dto.ErrorCodeClubLimitExceeded},
		{apperrors.ErrClubCapacityExceeded, http.StatusBadRequest, dto.ErrorCodeClubCapacityExceeded},
		{apperrors.ErrUndefinedUserClub, http.StatusBadRequest, dto.ErrorCodeUndefinedUserClub},
		{apperrors.NewInvalidRequestError("Invalid field: x"), http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
		{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewUnauthorizedActionError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{fmt.Errorf("wrapped: %w", apperrors.ErrClubNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, code := StatusFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func serveError(err error) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestHandleAPIErrorBody(t *testing.T) {
	w := serveError(apperrors.NewInvalidRequestError("Club request 3 has already been processed"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, body.Error.Code)
	assert.Equal(t, "Club request 3 has already been processed", body.Error.Message)
}

func TestHandleAPIErrorHidesInternalMessage(t *testing.T) {
	w := serveError(errors.New("pq: password authentication failed"))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error.Message)
}
