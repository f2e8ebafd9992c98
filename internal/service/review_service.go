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

// ReviewAction is an administrator decision on a sell request.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// SellRequestDecider is the persistence surface the reviewer needs.
// Approve must atomically flip the request to approved and insert the
// product, refusing with utils.ErrAlreadyReviewed when the request is
// no longer pending; Reject must apply the same guard.
type SellRequestDecider interface {
	GetByID(ctx context.Context, id string) (*models.SellRequest, error)
	Approve(ctx context.Context, requestID string, product *models.Product) error
	Reject(ctx context.Context, requestID string, reason *string) error
}

// CatalogInvalidator drops cached catalog pages after the catalog changes.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ReviewResult is the outcome of a review decision.
type ReviewResult struct {
	Message string          `json:"message"`
	Product *models.Product `json:"product,omitempty"`
}

// ReviewService applies administrator decisions to pending sell
// requests. A request is decided exactly once: re-reviewing a decided
// request fails with utils.ErrAlreadyReviewed instead of silently
// succeeding or creating a duplicate product.
type ReviewService struct {
	store    SellRequestDecider
	cache    CatalogInvalidator
	notifier sse.SellRequestNotifier
}

// NewReviewService constructs a ReviewService. cache may be nil when no
// catalog cache is configured; notifier may be nil when SSE is disabled.
func NewReviewService(store SellRequestDecider, cache CatalogInvalidator, notifier sse.SellRequestNotifier) *ReviewService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &ReviewService{store: store, cache: cache, notifier: notifier}
}

// Review applies one decision to the referenced sell request.
// On approve it promotes the request into a catalog product; on reject
// it records the optional reason. Nothing is mutated on a validation or
// lookup failure.
func (s *ReviewService) Review(ctx context.Context, requestID string, action ReviewAction, reason string) (*ReviewResult, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, utils.ErrInvalidAction
	}

	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrRequestNotFound
		}
		return nil, fmt.Errorf("load sell request: %w", err)
	}

	// Fast check before the write; the SQL guard inside the store still
	// protects against a concurrent decision slipping in between.
	if req.Status.IsTerminal() {
		return nil, utils.ErrAlreadyReviewed
	}

	if action == ActionReject {
		var reasonPtr *string
		if reason != "" {
			reasonPtr = &reason
		}
		if err := s.store.Reject(ctx, req.ID, reasonPtr); err != nil {
			if errors.Is(err, utils.ErrAlreadyReviewed) {
				return nil, err
			}
			return nil, fmt.Errorf("reject sell request: %w", err)
		}
		req.Status = models.SellRequestRejected
		req.RejectReason = reasonPtr

		log.Info().
			Str("request_id", req.ID).
			Str("reference", req.Reference).
			Msg("Sell request rejected")
		s.notifier.NotifyRejected(req)

		return &ReviewResult{Message: "Sell request rejected"}, nil
	}

	product := buildProductFromRequest(req)
	if err := s.store.Approve(ctx, req.ID, product); err != nil {
		if errors.Is(err, utils.ErrAlreadyReviewed) {
			return nil, err
		}
		return nil, fmt.Errorf("approve sell request: %w", err)
	}
	req.Status = models.SellRequestApproved

	if s.cache != nil {
		// Promotion adds a listing; stale cached pages must not outlive it.
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate catalog cache after approval")
		}
	}

	log.Info().
		Str("request_id", req.ID).
		Str("reference", req.Reference).
		Str("product_id", product.ID).
		Msg("Sell request approved, product listed")
	s.notifier.NotifyApproved(req, product.ID)

	return &ReviewResult{
		Message: "Sell request approved and product listed",
		Product: product,
	}, nil
}

// buildProductFromRequest maps an approved sell request onto a new
// catalog product. Seller submissions are always pre-owned gear; the
// request carries no condition assessment, so the grade defaults to B.
func buildProductFromRequest(req *models.SellRequest) *models.Product {
	grade := models.GradeB
	badge := models.BadgeFromSeller

	imageURLs := make([]string, len(req.ImageURLs))
	copy(imageURLs, req.ImageURLs)

	specs := models.SpecMap{
		"contactMethod": string(req.ContactMethod),
	}
	if req.ContactDetail != "" {
		specs["contactDetail"] = req.ContactDetail
	}

	return &models.Product{
		Name:        req.Title,
		Category:    req.Category,
		Type:        models.ProductTypePreowned,
		Price:       req.AskingPrice,
		Grade:       &grade,
		ImageURLs:   imageURLs,
		Badge:       &badge,
		Description: req.Description,
		IsAvailable: true,
		Specs:       specs,
	}
}
