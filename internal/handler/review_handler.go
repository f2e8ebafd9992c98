package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// ReviewHandler handles the administrator decision endpoint.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Review handles POST /v1/admin/sell-requests/:id/review
func (h *ReviewHandler) Review(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.reviews.Review(c.Request.Context(), c.Param("id"), service.ReviewAction(req.Action), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidAction):
			utils.Error(c, 400, "INVALID_ACTION", "Action must be 'approve' or 'reject'")
		case errors.Is(err, utils.ErrRequestNotFound):
			utils.Error(c, 404, "REQUEST_NOT_FOUND", "Sell request not found")
		case errors.Is(err, utils.ErrAlreadyReviewed):
			utils.Error(c, 409, "ALREADY_REVIEWED", "Sell request has already been reviewed")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to apply review decision")
		}
		return
	}

	if result.Product != nil {
		utils.Success(c, 200, result.Message, gin.H{
			"product": gin.H{
				"id":   result.Product.ID,
				"name": result.Product.Name,
			},
		})
		return
	}
	utils.Success(c, 200, result.Message, nil)
}
