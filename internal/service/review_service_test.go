package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// fakeDecisionStore is an in-memory SellRequestDecider with the same
// pending-only guard semantics as the SQL repository.
type fakeDecisionStore struct {
	requests map[string]*models.SellRequest
	products []*models.Product
}

func newFakeDecisionStore(requests ...*models.SellRequest) *fakeDecisionStore {
	s := &fakeDecisionStore{requests: make(map[string]*models.SellRequest)}
	for _, r := range requests {
		s.requests[r.ID] = r
	}
	return s
}

func (s *fakeDecisionStore) GetByID(ctx context.Context, id string) (*models.SellRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (s *fakeDecisionStore) Approve(ctx context.Context, requestID string, product *models.Product) error {
	req, ok := s.requests[requestID]
	if !ok {
		return sql.ErrNoRows
	}
	if req.Status != models.SellRequestPending {
		return utils.ErrAlreadyReviewed
	}
	req.Status = models.SellRequestApproved
	product.ID = "prod-" + requestID
	product.SellRequestID = &requestID
	s.products = append(s.products, product)
	return nil
}

func (s *fakeDecisionStore) Reject(ctx context.Context, requestID string, reason *string) error {
	req, ok := s.requests[requestID]
	if !ok {
		return sql.ErrNoRows
	}
	if req.Status != models.SellRequestPending {
		return utils.ErrAlreadyReviewed
	}
	req.Status = models.SellRequestRejected
	req.RejectReason = reason
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return nil
}

func pendingRequest(id string) *models.SellRequest {
	return &models.SellRequest{
		ID:            id,
		Reference:     "sr_" + id,
		UserID:        "user-1",
		FullName:      "Anita Rao",
		Email:         "anita@example.com",
		Category:      "Badminton",
		Title:         "Yonex Racket Set",
		Description:   "Lightly used, restrung last month",
		AskingPrice:   4000,
		ContactMethod: models.ContactWhatsApp,
		ContactDetail: "+6281234567890",
		ImageURLs:     []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"},
		Status:        models.SellRequestPending,
	}
}

func TestReviewApprovePromotesProduct(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	invalidator := &fakeInvalidator{}
	svc := service.NewReviewService(store, invalidator, nil)

	result, err := svc.Review(context.Background(), "req-1", service.ActionApprove, "")
	require.NoError(t, err)
	require.NotNil(t, result.Product)

	require.Len(t, store.products, 1)
	product := store.products[0]
	assert.Equal(t, "Yonex Racket Set", product.Name)
	assert.Equal(t, "Badminton", product.Category)
	assert.Equal(t, models.ProductTypePreowned, product.Type)
	assert.Equal(t, 4000, product.Price)
	require.NotNil(t, product.Grade)
	assert.Equal(t, models.GradeB, *product.Grade)
	require.NotNil(t, product.Badge)
	assert.Equal(t, models.BadgeFromSeller, *product.Badge)
	assert.True(t, product.IsAvailable)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}, []string(product.ImageURLs))
	assert.Equal(t, "Lightly used, restrung last month", product.Description)
	require.NotNil(t, product.SellRequestID)
	assert.Equal(t, "req-1", *product.SellRequestID)
	assert.Equal(t, models.SpecMap{
		"contactMethod": "WhatsApp",
		"contactDetail": "+6281234567890",
	}, product.Specs)

	assert.Equal(t, models.SellRequestApproved, store.requests["req-1"].Status)
	assert.Equal(t, 1, invalidator.calls)
}

func TestReviewRejectLeavesCatalogUntouched(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	invalidator := &fakeInvalidator{}
	svc := service.NewReviewService(store, invalidator, nil)

	result, err := svc.Review(context.Background(), "req-1", service.ActionReject, "blurry photos")
	require.NoError(t, err)
	assert.Nil(t, result.Product)

	assert.Empty(t, store.products)
	assert.Equal(t, models.SellRequestRejected, store.requests["req-1"].Status)
	require.NotNil(t, store.requests["req-1"].RejectReason)
	assert.Equal(t, "blurry photos", *store.requests["req-1"].RejectReason)
	assert.Equal(t, 0, invalidator.calls)
}

func TestReviewRejectWithoutReason(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	svc := service.NewReviewService(store, nil, nil)

	_, err := svc.Review(context.Background(), "req-1", service.ActionReject, "")
	require.NoError(t, err)
	assert.Nil(t, store.requests["req-1"].RejectReason)
}

func TestReviewUnknownRequest(t *testing.T) {
	store := newFakeDecisionStore()
	svc := service.NewReviewService(store, nil, nil)

	_, err := svc.Review(context.Background(), "missing", service.ActionApprove, "")
	assert.ErrorIs(t, err, utils.ErrRequestNotFound)
	assert.Empty(t, store.products)
}

func TestReviewInvalidAction(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	svc := service.NewReviewService(store, nil, nil)

	_, err := svc.Review(context.Background(), "req-1", service.ReviewAction("explode"), "")
	assert.ErrorIs(t, err, utils.ErrInvalidAction)

	// Nothing mutated.
	assert.Empty(t, store.products)
	assert.Equal(t, models.SellRequestPending, store.requests["req-1"].Status)
}

func TestReviewTwiceIsConflict(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	svc := service.NewReviewService(store, nil, nil)

	_, err := svc.Review(context.Background(), "req-1", service.ActionApprove, "")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), "req-1", service.ActionApprove, "")
	assert.ErrorIs(t, err, utils.ErrAlreadyReviewed)

	// A second product must never be created.
	assert.Len(t, store.products, 1)
}

func TestReviewRejectAfterApproveIsConflict(t *testing.T) {
	store := newFakeDecisionStore(pendingRequest("req-1"))
	svc := service.NewReviewService(store, nil, nil)

	_, err := svc.Review(context.Background(), "req-1", service.ActionApprove, "")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), "req-1", service.ActionReject, "changed my mind")
	assert.ErrorIs(t, err, utils.ErrAlreadyReviewed)
	assert.Equal(t, models.SellRequestApproved, store.requests["req-1"].Status)
}
