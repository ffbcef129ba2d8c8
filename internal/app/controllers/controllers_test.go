package controllers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUploadService struct{ mock.Mock }

func (m *mockUploadService) Upload(ctx context.Context, fh *multipart.FileHeader, prefix string) (*dto.UploadResponse, error) {
	args := m.Called(ctx, fh, prefix)
	resp, _ := args.Get(0).(*dto.UploadResponse)
	return resp, args.Error(1)
}

func (m *mockUploadService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUploadService) PresignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockSearchService struct{ mock.Mock }

func (m *mockSearchService) Search(ctx context.Context, actor services.Actor, query string, limit int) (*dto.SearchResponse, error) {
	args := m.Called(ctx, actor, query, limit)
	resp, _ := args.Get(0).(*dto.SearchResponse)
	return resp, args.Error(1)
}

// asUser stands in for JWTAuth
func asUser(id int64, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestServeFile_RedirectsToPresignedURL(t *testing.T) {
	svc := &mockUploadService{}
	svc.On("PresignedURL", mock.Anything, "/policies/coc.pdf").
		Return("https://bucket.example/policies/coc.pdf?X-Amz-Signature=abc", nil)
	svc.On("PresignedURL", mock.Anything, "/policies/missing.pdf").Return("", apperrors.ErrFileNotFound)

	r := gin.New()
	r.GET("/files/*key", NewUploadController(svc).ServeFile)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/policies/coc.pdf", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://bucket.example/policies/coc.pdf?X-Amz-Signature=abc", w.Header().Get("Location"))
	assert.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/policies/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, errorCode(t, w))
}

func TestUpload_MissingFile(t *testing.T) {
	svc := &mockUploadService{}
	r := gin.New()
	r.POST("/uploads", NewUploadController(svc).Upload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidFile, errorCode(t, w))
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUpload_RequiresKey(t *testing.T) {
	svc := &mockUploadService{}
	svc.On("Delete", mock.Anything, "library/a.pdf").Return(nil)

	r := gin.New()
	r.DELETE("/uploads", NewUploadController(svc).DeleteUpload)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/uploads", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/uploads", strings.NewReader(`{"key":"library/a.pdf"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSearch(t *testing.T) {
	svc := &mockSearchService{}
	staff := services.Actor{UserID: 7, Role: models.RoleStaff}
	svc.On("Search", mock.Anything, staff, "safeguarding", services.DefaultSearchLimit).Return(&dto.SearchResponse{
		Query:   "safeguarding",
		Total:   1,
		Results: []dto.SearchResult{{Type: "training", ID: 12, Title: "Safeguarding Essentials", Link: "/trainings/12"}},
	}, nil)
	svc.On("Search", mock.Anything, staff, "a", 5).
		Return(nil, apperrors.NewValidationError("q", "query must be at least 2 characters"))

	ctrl := NewSearchController(svc)
	r := gin.New()
	r.GET("/anonymous/search", ctrl.Search)
	r.GET("/search", asUser(7, models.RoleStaff), ctrl.Search)

	t.Run("requires actor", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anonymous/search?q=policy", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, errorCode(t, w))
	})

	t.Run("bad limit falls back to default", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=safeguarding&limit=lots", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool               `json:"success"`
			Data    dto.SearchResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "/trainings/12", body.Data.Results[0].Link)
	})

	t.Run("short query", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=a&limit=5", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))
	})
}
