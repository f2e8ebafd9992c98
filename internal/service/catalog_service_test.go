package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/repository"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// fakeProductStore is an in-memory ProductStore.
type fakeProductStore struct {
	products map[string]*models.Product
	seq      int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]*models.Product)}
}

func (s *fakeProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProductStore) GetAllPaged(ctx context.Context, productType, category, search string, page, limit int) ([]models.Product, int, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.IsAvailable {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (s *fakeProductStore) GetAllAdmin(ctx context.Context, filter *repository.AdminProductFilter) (*repository.AdminProductResult, error) {
	var out []models.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return &repository.AdminProductResult{Products: out, TotalItems: len(out), Page: 1, Limit: 20}, nil
}

func (s *fakeProductStore) Create(ctx context.Context, product *models.Product) error {
	s.seq++
	product.ID = fmt.Sprintf("prod-%d", s.seq)
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *fakeProductStore) Update(ctx context.Context, product *models.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *product
	s.products[product.ID] = &copied
	return nil
}

func (s *fakeProductStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) GetDistinctCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func TestCatalogCreateDefaults(t *testing.T) {
	store := newFakeProductStore()
	svc := service.NewCatalogService(store, nil)

	product, err := svc.Create(context.Background(), &service.CreateProductRequest{
		Name:     "Wilson Pro Staff",
		Category: "Tennis",
		Type:     "new",
		Price:    12000,
	})
	require.NoError(t, err)

	assert.True(t, product.IsAvailable)
	assert.Nil(t, product.Grade)
	assert.Nil(t, product.Badge)
	assert.Nil(t, product.SellRequestID)
	assert.NotNil(t, product.Specs)
}

func TestCatalogCreateValidation(t *testing.T) {
	svc := service.NewCatalogService(newFakeProductStore(), nil)

	_, err := svc.Create(context.Background(), &service.CreateProductRequest{
		Name: "X", Category: "Tennis", Type: "refurbished", Price: 100,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidType)

	_, err = svc.Create(context.Background(), &service.CreateProductRequest{
		Name: "X", Category: "Tennis", Type: "preowned", Price: 100, Grade: "E",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidGrade)

	_, err = svc.Create(context.Background(), &service.CreateProductRequest{
		Name: "X", Category: "Tennis", Type: "new", Price: -5,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidPrice)
}

func TestCatalogUpdatePartial(t *testing.T) {
	store := newFakeProductStore()
	svc := service.NewCatalogService(store, nil)

	created, err := svc.Create(context.Background(), &service.CreateProductRequest{
		Name:        "Wilson Pro Staff",
		Category:    "Tennis",
		Type:        "preowned",
		Price:       9000,
		Grade:       "A",
		Description: "Barely used",
	})
	require.NoError(t, err)

	newPrice := 8500
	unavailable := false
	updated, err := svc.Update(context.Background(), created.ID, &service.UpdateProductRequest{
		Price:       &newPrice,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)

	assert.Equal(t, 8500, updated.Price)
	assert.False(t, updated.IsAvailable)
	// Untouched fields keep their values.
	assert.Equal(t, "Wilson Pro Staff", updated.Name)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, models.GradeA, *updated.Grade)
	assert.Equal(t, "Barely used", updated.Description)
}

func TestCatalogGetAndDeleteMissing(t *testing.T) {
	svc := service.NewCatalogService(newFakeProductStore(), nil)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	err = svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}
