package handler_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/handler"
	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

type stubDecider struct {
	requests map[string]*models.SellRequest
	approved int
}

func (s *stubDecider) GetByID(ctx context.Context, id string) (*models.SellRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return req, nil
}

func (s *stubDecider) Approve(ctx context.Context, requestID string, product *models.Product) error {
	req := s.requests[requestID]
	if req.Status != models.SellRequestPending {
		return utils.ErrAlreadyReviewed
	}
	req.Status = models.SellRequestApproved
	product.ID = "prod-1"
	s.approved++
	return nil
}

func (s *stubDecider) Reject(ctx context.Context, requestID string, reason *string) error {
	req := s.requests[requestID]
	if req.Status != models.SellRequestPending {
		return utils.ErrAlreadyReviewed
	}
	req.Status = models.SellRequestRejected
	return nil
}

func setupReviewRouter(t *testing.T) (*gin.Engine, *stubDecider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	decider := &stubDecider{requests: map[string]*models.SellRequest{
		"req-1": {
			ID:          "req-1",
			Title:       "Yonex Racket Set",
			Category:    "Badminton",
			AskingPrice: 4000,
			Status:      models.SellRequestPending,
		},
	}}
	h := handler.NewReviewHandler(service.NewReviewService(decider, nil, nil))

	router := gin.New()
	router.POST("/v1/admin/sell-requests/:id/review", h.Review)
	return router, decider
}

func postReview(router *gin.Engine, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/sell-requests/"+id+"/review", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewEndpointApprove(t *testing.T) {
	router, decider := setupReviewRouter(t)

	w := postReview(router, "req-1", `{"action":"approve"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"prod-1"`)
	assert.Contains(t, w.Body.String(), `"name":"Yonex Racket Set"`)
	assert.Equal(t, 1, decider.approved)
}

func TestReviewEndpointReject(t *testing.T) {
	router, decider := setupReviewRouter(t)

	w := postReview(router, "req-1", `{"action":"reject","reason":"blurry photos"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decider.approved)
	assert.Equal(t, models.SellRequestRejected, decider.requests["req-1"].Status)
}

func TestReviewEndpointInvalidAction(t *testing.T) {
	router, _ := setupReviewRouter(t)

	w := postReview(router, "req-1", `{"action":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ACTION")
}

func TestReviewEndpointNotFound(t *testing.T) {
	router, _ := setupReviewRouter(t)

	w := postReview(router, "missing", `{"action":"approve"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_NOT_FOUND")
}

func TestReviewEndpointDoubleReviewConflict(t *testing.T) {
	router, decider := setupReviewRouter(t)

	w := postReview(router, "req-1", `{"action":"approve"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postReview(router, "req-1", `{"action":"approve"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_REVIEWED")
	assert.Equal(t, 1, decider.approved)
}
