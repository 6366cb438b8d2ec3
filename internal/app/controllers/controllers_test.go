package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func init() {
	gin.SetMode(gin.TestMode)
}

var student = auth.Actor{UserID: 7, Email: "sam@school.edu", Role: models.RoleStudent}

// withActor stands in for JWTAuth
func withActor(actor *auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActor, *actor)
		}
		c.Next()
	}
}

type mockRequestService struct {
	services.ClubRequestService
	mock.Mock
}

func (m *mockRequestService) CreateRequest(ctx context.Context, actor auth.Actor, req *dto.CreateClubRequestRequest) (*dto.ClubRequestResponse, error) {
	args := m.Called(actor, *req)
	resp, _ := args.Get(0).(*dto.ClubRequestResponse)
	return resp, args.Error(1)
}

func (m *mockRequestService) UpdateRequest(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues) (*dto.ClubRequestResponse, error) {
	args := m.Called(actor, id, values)
	resp, _ := args.Get(0).(*dto.ClubRequestResponse)
	return resp, args.Error(1)
}

type mockClubService struct {
	services.ClubService
	mock.Mock
}

func (m *mockClubService) PatchClub(ctx context.Context, actor auth.Actor, id int64, values helpers.PatchValues, image, background []byte) (*dto.ClubResponse, error) {
	args := m.Called(actor, id, values, image, background)
	resp, _ := args.Get(0).(*dto.ClubResponse)
	return resp, args.Error(1)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func requestRouter(svc services.ClubRequestService, actor *auth.Actor) *gin.Engine {
	c := NewClubRequestController(svc)
	r := gin.New()
	r.Use(withActor(actor))
	r.POST("/club-requests", c.CreateRequest)
	r.PATCH("/club-requests/:id/update", c.UpdateRequest)
	return r
}

func TestCreateRequestJSON(t *testing.T) {
	svc := &mockRequestService{}
	svc.On("CreateRequest", student, dto.CreateClubRequestRequest{UserID: 7, ClubID: 2}).
		Return(&dto.ClubRequestResponse{ID: 11, Status: "PENDING"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/club-requests", strings.NewReader(`{"userId":7,"clubId":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(requestRouter(svc, &student), req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
	svc.AssertExpectations(t)
}

func TestCreateRequestErrors(t *testing.T) {
	svc := &mockRequestService{}
	svc.On("CreateRequest", student, dto.CreateClubRequestRequest{UserID: 7, ClubID: 3}).
		Return(nil, apperrors.ErrRequestAlreadyExists)

	req := httptest.NewRequest(http.MethodPost, "/club-requests", strings.NewReader(`{"userId":7,"clubId":3}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(requestRouter(svc, &student), req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"REQ_002"`)

	req = httptest.NewRequest(http.MethodPost, "/club-requests", strings.NewReader(`{"clubId":3}`))
	req.Header.Set("Content-Type", "application/json")
	w = serve(requestRouter(svc, &student), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/club-requests", strings.NewReader(`{"userId":7,"clubId":3}`))
	req.Header.Set("Content-Type", "application/json")
	w = serve(requestRouter(svc, nil), req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRequestCollectsFormAndQuery(t *testing.T) {
	admin := auth.Actor{UserID: 1, Role: models.RoleClubAdmin}
	svc := &mockRequestService{}
	svc.On("UpdateRequest", admin, int64(5), helpers.PatchValues{"status": "approved", "approverComment": "welcome"}).
		Return(&dto.ClubRequestResponse{ID: 5, Status: "APPROVED"}, nil)

	form := url.Values{"approverComment": {"welcome"}}
	req := httptest.NewRequest(http.MethodPatch, "/club-requests/5/update?status=approved", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(requestRouter(svc, &admin), req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)

	w = serve(requestRouter(svc, &admin), httptest.NewRequest(http.MethodPatch, "/club-requests/x/update", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchClubMultipart(t *testing.T) {
	admin := auth.Actor{UserID: 1, Role: models.RoleClubAdmin}
	svc := &mockClubService{}
	svc.On("PatchClub", admin, int64(3), helpers.PatchValues{"description": "New"}, pngHeader, []byte(nil)).
		Return(&dto.ClubResponse{ID: 3, Description: "New"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("description", "New"))
	part, err := mw.CreateFormFile(clubImageField, "logo.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	c := NewClubController(svc, filestorage.NewUploadReader(1))
	r := gin.New()
	r.Use(withActor(&admin))
	r.PATCH("/clubs/:id", c.PatchClub)

	req := httptest.NewRequest(http.MethodPatch, "/clubs/3", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPatchClubMalformedMultipart(t *testing.T) {
	admin := auth.Actor{UserID: 1, Role: models.RoleClubAdmin}
	svc := &mockClubService{}

	c := NewClubController(svc, filestorage.NewUploadReader(1))
	r := gin.New()
	r.Use(withActor(&admin))
	r.PATCH("/clubs/:id", c.PatchClub)

	req := httptest.NewRequest(http.MethodPatch, "/clubs/3", strings.NewReader("--xyz\r\nnot a part"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := serve(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"VAL_001"`)
	svc.AssertNotCalled(t, "PatchClub", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
