package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/middleware"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// SellRequestHandler handles seller submission and listing endpoints.
type SellRequestHandler struct {
	sellRequests *service.SellRequestService
}

// NewSellRequestHandler constructs a SellRequestHandler.
func NewSellRequestHandler(sellRequests *service.SellRequestService) *SellRequestHandler {
	return &SellRequestHandler{sellRequests: sellRequests}
}

// Submit handles POST /v1/sell-requests
func (h *SellRequestHandler) Submit(c *gin.Context) {
	var req service.SubmitSellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	request, err := h.sellRequests.Submit(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidImageCount):
			utils.Error(c, 400, "INVALID_IMAGE_COUNT", "Between 5 and 10 images are required")
		case errors.Is(err, utils.ErrInvalidPrice):
			utils.Error(c, 400, "INVALID_PRICE", "Asking price must be positive")
		case errors.Is(err, utils.ErrInvalidContact):
			utils.Error(c, 400, "INVALID_CONTACT_METHOD", "Contact method must be Email, Phone, or WhatsApp")
		case errors.Is(err, utils.ErrContactDetailNeeded):
			utils.Error(c, 400, "CONTACT_DETAIL_REQUIRED", "Contact detail is required for Phone and WhatsApp")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to submit sell request")
		}
		return
	}

	utils.Success(c, 201, "Sell request submitted", request)
}

// ListMine handles GET /v1/sell-requests/mine
func (h *SellRequestHandler) ListMine(c *gin.Context) {
	requests, err := h.sellRequests.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sell requests")
		return
	}

	utils.Success(c, 200, "Sell requests retrieved", gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// ListAll handles GET /v1/admin/sell-requests
func (h *SellRequestHandler) ListAll(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	requests, total, err := h.sellRequests.ListAll(c.Request.Context(), status, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sell requests")
		return
	}

	utils.SuccessWithPagination(c, 200, "Sell requests retrieved", gin.H{
		"requests": requests,
	}, page, limit, total)
}

// Get handles GET /v1/admin/sell-requests/:id
func (h *SellRequestHandler) Get(c *gin.Context) {
	request, err := h.sellRequests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrRequestNotFound) {
			utils.Error(c, 404, "REQUEST_NOT_FOUND", "Sell request not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve sell request")
		return
	}

	utils.Success(c, 200, "Sell request retrieved", request)
}
