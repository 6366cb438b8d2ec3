package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Title string `json:"title" binding:"required"`
	Slots int    `json:"slots" binding:"gt=0"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var f sampleForm
		if err := c.ShouldBindJSON(&f); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/items/:id", func(c *gin.Context) {
		if _, ok := ParseIDParam(c, "id"); ok {
			c.Status(http.StatusNoContent)
		}
	})
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleValidationErrorListsFields(t *testing.T) {
	w := post(bindRouter(), `{"slots":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code    dto.ErrorCode     `json:"code"`
			Details []dto.ErrorDetail `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	require.Len(t, body.Error.Details, 2)
	assert.Equal(t, "Title is required", body.Error.Details[0].Message)
	assert.Equal(t, "Slots must be greater than 0", body.Error.Details[1].Message)
}

func TestHandleValidationErrorMalformedJSON(t *testing.T) {
	w := post(bindRouter(), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"VAL_001"`)
}

func TestParseIDParam(t *testing.T) {
	r := bindRouter()
	for path, want := range map[string]int{
		"/items/7":   http.StatusNoContent,
		"/items/0":   http.StatusBadRequest,
		"/items/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
