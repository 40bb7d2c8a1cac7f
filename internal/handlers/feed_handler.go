package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feed-service/internal/models"
	"feed-service/internal/repository"
	"feed-service/internal/services"
)

// FeedHandler handles feed configuration and generation endpoints
type FeedHandler struct {
	feeds     *services.FeedService
	generator *services.GenerationService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feeds *services.FeedService, generator *services.GenerationService) *FeedHandler {
	return &FeedHandler{feeds: feeds, generator: generator}
}

// List returns all feed configurations
func (h *FeedHandler) List(c *gin.Context) {
	feeds, err := h.feeds.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  feeds,
		"total": len(feeds),
	})
}

// Create creates a new feed configuration
func (h *FeedHandler) Create(c *gin.Context) {
	var req models.CreateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.feeds.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": feed})
}

// Get returns a single feed configuration
func (h *FeedHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	feed, err := h.feeds.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFeedNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feed})
}

// Update partially updates a feed configuration
func (h *FeedHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req models.UpdateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.feeds.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFeedNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		case errors.Is(err, services.ErrInvalidSchedule):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feed})
}

// Delete removes a feed configuration and its schedule
func (h *FeedHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.feeds.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrFeedNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed deleted"})
}

// Generate triggers one generation run for a feed
func (h *FeedHandler) Generate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	resp, err := h.generator.Generate(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGenerationInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "generation already running for this feed"})
		case errors.Is(err, repository.ErrFeedNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report returns the last generation outcome for a feed
func (h *FeedHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	feed, err := h.feeds.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFeedNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lastRunAt":  feed.Schedule.LastRunAt,
		"lastStatus": feed.Schedule.LastStatus,
		"lastError":  feed.Schedule.LastError,
		"report":     h.generator.LastReport(id),
	})
}
