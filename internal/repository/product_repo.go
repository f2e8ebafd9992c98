package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/replaygear/replay_api/internal/models"
)

// ProductRepository handles data access for catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllPaged returns available products for the public catalog with
// optional filters and pagination, newest first, plus the total count.
// Filters: productType (new/preowned), category (exact), search (ILIKE
// on name). An empty filter is ignored. Page begins at 1.
func (r *ProductRepository) GetAllPaged(ctx context.Context, productType, category, search string, page, limit int) ([]models.Product, int, error) {
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

	const baseWhere = `WHERE ($1 = '' OR type = $1)
        AND ($2 = '' OR category = $2)
        AND ($3 = '' OR name ILIKE '%%' || $3 || '%%')
        AND is_available = true`

	countQuery := `SELECT COUNT(1) FROM products ` + baseWhere
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, productType, category, search); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM products ` + baseWhere + `
        ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, listQuery, productType, category, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// AdminProductFilter holds filters for admin product queries.
type AdminProductFilter struct {
	Type        string
	Category    string
	Search      string
	IsAvailable *bool
	Page        int
	Limit       int
}

// AdminProductResult contains paginated product results for admin.
type AdminProductResult struct {
	Products   []models.Product
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetAllAdmin returns all products for admin with filters and pagination
// (includes unavailable listings), newest first.
func (r *ProductRepository) GetAllAdmin(ctx context.Context, filter *AdminProductFilter) (*AdminProductResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	// Build dynamic WHERE clause
	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND category ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Category+"%")
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.IsAvailable != nil {
		baseWhere += fmt.Sprintf(" AND is_available = $%d", argIdx)
		args = append(args, *filter.IsAvailable)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM products ` + baseWhere
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, err
	}
	totalPages := (total + filter.Limit - 1) / filter.Limit

	listQuery := fmt.Sprintf(`SELECT * FROM products %s
        ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, listQuery, args...); err != nil {
		return nil, err
	}

	return &AdminProductResult{
		Products:   products,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Create inserts a new product authored directly by an admin.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New().String()

	const q = `
        INSERT INTO products (id, name, category, type, price, original_price, grade,
            image_urls, badge, description, is_available, specs, sell_request_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
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
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

// Update updates an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	const q = `UPDATE products
        SET name = $1, category = $2, type = $3, price = $4, original_price = $5,
            grade = $6, image_urls = $7, badge = $8, description = $9,
            is_available = $10, specs = $11, updated_at = NOW()
        WHERE id = $12
        RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, q,
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
		product.ID,
	).Scan(&product.UpdatedAt)
}

// Delete deletes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetDistinctCategories returns all distinct categories of available products.
func (r *ProductRepository) GetDistinctCategories(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT category FROM products WHERE category != '' AND is_available = true ORDER BY category`
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}
