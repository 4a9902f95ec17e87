package handlers

import (
	"net/http"

	reviewRepo "tourly/database/repository/review"
	"tourly/models"
	"tourly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewHandler serves tourist review endpoints.
type ReviewHandler struct {
	Repo   reviewRepo.ReviewRepository
	Logger *zap.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(repo reviewRepo.ReviewRepository, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Repo: repo, Logger: logger}
}

// ListByTourist handles GET /reviews/tourist/:id.
func (h *ReviewHandler) ListByTourist(c *gin.Context) {
	reviews, err := h.Repo.GetByTourist(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews", err.Error())
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReview handles POST /reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		utils.JSONError(c, http.StatusBadRequest, "invalid rating", "rating must be between 1 and 5")
		return
	}
	if review.BookingID == "" || review.TouristID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "bookingId and touristId are required")
		return
	}

	review.ID = uuid.New().String()
	if err := h.Repo.Create(&review); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create review", err.Error())
		return
	}
	c.JSON(http.StatusCreated, review)
}
