package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/utils"
)

// SellRequestRepository handles data access for sell requests. The two
// decision paths (Approve/Reject) guard the pending->terminal transition
// in SQL so a request can be decided at most once, even under
// concurrent reviews.
type SellRequestRepository struct {
	db *sqlx.DB
}

// NewSellRequestRepository creates a new SellRequestRepository.
func NewSellRequestRepository(db *sqlx.DB) *SellRequestRepository {
	return &SellRequestRepository{db: db}
}

// Create inserts a new pending sell request. The generated id and
// timestamps are written back onto the passed struct.
func (r *SellRequestRepository) Create(ctx context.Context, req *models.SellRequest) error {
	req.ID = uuid.New().String()
	req.Status = models.SellRequestPending

	const q = `
        INSERT INTO sell_requests (id, reference, user_id, full_name, email, category,
            title, description, asking_price, contact_method, contact_detail, image_urls, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		req.ID,
		req.Reference,
		req.UserID,
		req.FullName,
		req.Email,
		req.Category,
		req.Title,
		req.Description,
		req.AskingPrice,
		req.ContactMethod,
		req.ContactDetail,
		req.ImageURLs,
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
}

// GetByID returns a single sell request by id.
func (r *SellRequestRepository) GetByID(ctx context.Context, id string) (*models.SellRequest, error) {
	const q = `SELECT * FROM sell_requests WHERE id = $1 LIMIT 1`
	var req models.SellRequest
	if err := r.db.GetContext(ctx, &req, q, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetAllPaged returns sell requests for the admin view, newest first,
// optionally filtered by status, plus the total count.
func (r *SellRequestRepository) GetAllPaged(ctx context.Context, status string, page, limit int) ([]models.SellRequest, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR status = $1)`

	countQuery := `SELECT COUNT(1) FROM sell_requests ` + baseWhere
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, status); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM sell_requests ` + baseWhere + `
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var requests []models.SellRequest
	if err := r.db.SelectContext(ctx, &requests, listQuery, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// GetByUser returns all sell requests owned by a user, newest first.
func (r *SellRequestRepository) GetByUser(ctx context.Context, userID string) ([]models.SellRequest, error) {
	const q = `SELECT * FROM sell_requests WHERE user_id = $1 ORDER BY created_at DESC`
	var requests []models.SellRequest
	if err := r.db.SelectContext(ctx, &requests, q, userID); err != nil {
		return nil, err
	}
	return requests, nil
}

// Approve flips a pending request to approved and inserts the derived
// catalog product in one transaction. The status update carries a
// status = 'pending' guard; if it matches no row the whole transaction
// rolls back and ErrAlreadyReviewed is returned, so a double approval
// can never create a second product. The generated product id and
// timestamps are written back onto the passed struct.
func (r *SellRequestRepository) Approve(ctx context.Context, requestID string, product *models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback()

	const updateQ = `UPDATE sell_requests
        SET status = $1, reviewed_at = NOW(), updated_at = NOW()
        WHERE id = $2 AND status = $3`
	res, err := tx.ExecContext(ctx, updateQ, models.SellRequestApproved, requestID, models.SellRequestPending)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrAlreadyReviewed
	}

	product.ID = uuid.New().String()
	product.SellRequestID = &requestID

	const insertQ = `
        INSERT INTO products (id, name, category, type, price, original_price, grade,
            image_urls, badge, description, is_available, specs, sell_request_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, insertQ,
		product.ID,
		product.Name,
		product.Category,
		product.Type,
		product.Price,
		product.OriginalPrice,
		product.Grade,
		product.ImageURLs,
		product.Badge,
		product.Description,
		product.IsAvailable,
		product.Specs,
		product.SellRequestID,
	).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("insert promoted product: %w", err)
	}

	return tx.Commit()
}

// Reject flips a pending request to rejected and records the optional
// reason. Returns ErrAlreadyReviewed if the request was already decided.
func (r *SellRequestRepository) Reject(ctx context.Context, requestID string, reason *string) error {
	const q = `UPDATE sell_requests
        SET status = $1, reject_reason = $2, reviewed_at = NOW(), updated_at = NOW()
        WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, q, models.SellRequestRejected, reason, requestID, models.SellRequestPending)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrAlreadyReviewed
	}
	return nil
}

// CountPendingOlderThan returns how many requests have been waiting for
// review longer than the given age.
func (r *SellRequestRepository) CountPendingOlderThan(ctx context.Context, age time.Duration) (int, error) {
	const q = `SELECT COUNT(1) FROM sell_requests WHERE status = $1 AND created_at < $2`
	var count int
	cutoff := time.Now().Add(-age)
	if err := r.db.GetContext(ctx, &count, q, models.SellRequestPending, cutoff); err != nil {
		return 0, err
	}
	return count, nil
}
