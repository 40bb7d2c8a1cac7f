package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/models"
	"feed-service/internal/refcatalog"
	"feed-service/internal/repository"
	"feed-service/internal/scheduler"
	"feed-service/internal/services"
)

type mockFeedRepository struct {
	mock.Mock
}

func (m *mockFeedRepository) Create(ctx context.Context, feed *models.FeedConfig) error {
	return m.Called(ctx, feed).Error(0)
}

func (m *mockFeedRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeedConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeedConfig), args.Error(1)
}

func (m *mockFeedRepository) List(ctx context.Context) ([]models.FeedConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedConfig), args.Error(1)
}

func (m *mockFeedRepository) ListScheduled(ctx context.Context) ([]models.FeedConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedConfig), args.Error(1)
}

func (m *mockFeedRepository) Update(ctx context.Context, feed *models.FeedConfig) error {
	return m.Called(ctx, feed).Error(0)
}

func (m *mockFeedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type noopRegistry struct{}

func (noopRegistry) Schedule(uuid.UUID, string) error { return nil }
func (noopRegistry) Unschedule(uuid.UUID)             {}

func setupRouter(repo *mockFeedRepository, guard *scheduler.RunGuard) *gin.Engine {
	gin.SetMode(gin.TestMode)

	feedSvc := services.NewFeedService(repo, noopRegistry{}, nil)
	genSvc := services.NewGenerationService(repo, nil, nil,
		refcatalog.NewService("/nonexistent/phones.txt", "/nonexistent/laptops.txt", nil),
		guard, services.GeneratorConfig{}, nil)
	h := NewFeedHandler(feedSvc, genSvc)

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		v1.GET("/feeds", h.List)
		v1.POST("/feeds", h.Create)
		v1.GET("/feeds/:id", h.Get)
		v1.PATCH("/feeds/:id", h.Update)
		v1.DELETE("/feeds/:id", h.Delete)
		v1.POST("/feeds/:id/generate", h.Generate)
		v1.GET("/feeds/:id/report", h.Report)
	}
	return r
}

func TestCreateFeedValidation(t *testing.T) {
	r := setupRouter(new(mockFeedRepository), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds", bytes.NewBufferString(`{"settings":{}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFeedInvalidScheduleRejected(t *testing.T) {
	r := setupRouter(new(mockFeedRepository), nil)

	body, _ := json.Marshal(models.CreateFeedRequest{
		Name:     "phones",
		Settings: models.FeedSettings{Categories: []uuid.UUID{uuid.New()}},
		Schedule: models.FeedSchedule{Enabled: true}, // no cron, no interval
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFeed(t *testing.T) {
	repo := new(mockFeedRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.FeedConfig")).Return(nil)
	r := setupRouter(repo, nil)

	body, _ := json.Marshal(models.CreateFeedRequest{
		Name:     "phones",
		Settings: models.FeedSettings{Categories: []uuid.UUID{uuid.New()}},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestGetFeedInvalidID(t *testing.T) {
	r := setupRouter(new(mockFeedRepository), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFeedNotFound(t *testing.T) {
	repo := new(mockFeedRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrFeedNotFound)
	r := setupRouter(repo, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds/"+id.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateConflictWhenRunInFlight(t *testing.T) {
	guard := scheduler.NewRunGuard(nil)
	id := uuid.New()
	release, ok := guard.TryAcquire(id.String())
	require.True(t, ok)
	defer release()

	r := setupRouter(new(mockFeedRepository), guard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feeds/"+id.String()+"/generate", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogReloadDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(refcatalog.NewService("/nonexistent/phones.txt", "/nonexistent/laptops.txt", nil))

	r := gin.New()
	r.POST("/api/v1/catalogs/reload", h.Reload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalogs/reload", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
