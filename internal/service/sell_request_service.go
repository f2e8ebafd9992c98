package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/sse"
	"github.com/replaygear/replay_api/internal/utils"
)

// SellRequestStore is the persistence surface for submissions and reads.
type SellRequestStore interface {
	Create(ctx context.Context, req *models.SellRequest) error
	GetByID(ctx context.Context, id string) (*models.SellRequest, error)
	GetAllPaged(ctx context.Context, status string, page, limit int) ([]models.SellRequest, int, error)
	GetByUser(ctx context.Context, userID string) ([]models.SellRequest, error)
}

// SubmitSellRequest represents a seller submission.
type SubmitSellRequest struct {
	FullName      string   `json:"fullName" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Category      string   `json:"category" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	AskingPrice   int      `json:"askingPrice" binding:"required"`
	ContactMethod string   `json:"contactMethod" binding:"required"`
	ContactDetail string   `json:"contactDetail"`
	ImageURLs     []string `json:"imageUrls" binding:"required"`
}

// SellRequestService handles submission and listing of sell requests.
type SellRequestService struct {
	store    SellRequestStore
	notifier sse.SellRequestNotifier
}

// NewSellRequestService constructs a SellRequestService. notifier may be
// nil when SSE is disabled.
func NewSellRequestService(store SellRequestStore, notifier sse.SellRequestNotifier) *SellRequestService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &SellRequestService{store: store, notifier: notifier}
}

// Submit validates a seller submission and stores it as pending.
// A submission never reaches pending state with fewer than
// MinSellRequestImages or more than MaxSellRequestImages images.
func (s *SellRequestService) Submit(ctx context.Context, userID string, req *SubmitSellRequest) (*models.SellRequest, error) {
	if req.AskingPrice <= 0 {
		return nil, utils.ErrInvalidPrice
	}
	if len(req.ImageURLs) < models.MinSellRequestImages || len(req.ImageURLs) > models.MaxSellRequestImages {
		return nil, utils.ErrInvalidImageCount
	}

	method := models.ContactMethod(req.ContactMethod)
	if !method.Valid() {
		return nil, utils.ErrInvalidContact
	}
	if method.RequiresDetail() && req.ContactDetail == "" {
		return nil, utils.ErrContactDetailNeeded
	}

	reference, err := utils.GenerateSellRequestReference()
	if err != nil {
		return nil, fmt.Errorf("generate reference: %w", err)
	}

	request := &models.SellRequest{
		Reference:     reference,
		UserID:        userID,
		FullName:      req.FullName,
		Email:         req.Email,
		Category:      req.Category,
		Title:         req.Title,
		Description:   req.Description,
		AskingPrice:   req.AskingPrice,
		ContactMethod: method,
		ContactDetail: req.ContactDetail,
		ImageURLs:     req.ImageURLs,
	}

	if err := s.store.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("store sell request: %w", err)
	}

	log.Info().
		Str("request_id", request.ID).
		Str("reference", request.Reference).
		Str("user_id", userID).
		Str("category", request.Category).
		Msg("Sell request submitted")
	s.notifier.NotifySubmitted(request)

	return request, nil
}

// Get returns a single sell request by id.
func (s *SellRequestService) Get(ctx context.Context, id string) (*models.SellRequest, error) {
	req, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListAll returns sell requests for the admin view, newest first.
func (s *SellRequestService) ListAll(ctx context.Context, status string, page, limit int) ([]models.SellRequest, int, error) {
	return s.store.GetAllPaged(ctx, status, page, limit)
}

// ListMine returns the caller's own sell requests, newest first.
func (s *SellRequestService) ListMine(ctx context.Context, userID string) ([]models.SellRequest, error) {
	return s.store.GetByUser(ctx, userID)
}
