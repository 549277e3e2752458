package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BnamoRS/ecommerce-api/internal/model"
)

func setupProductRepo(t *testing.T) (*ProductRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewProductRepo(db), mock, func() { db.Close() }
}

func productRows(products ...model.Product) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "image_url", "stock",
		"supplier_id", "rating", "is_active", "category_id", "created_at", "updated_at",
	})
	for _, p := range products {
		var supplier, rating interface{}
		if p.SupplierID != nil {
			supplier = *p.SupplierID
		}
		if p.Rating != nil {
			rating = *p.Rating
		}
		rows.AddRow(p.ID, p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Stock,
			supplier, rating, p.IsActive, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func sampleProduct() model.Product {
	supplier := uint64(4)
	rating := 4.5
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return model.Product{
		ID:          1,
		Name:        "Walnut Desk",
		Slug:        "walnut-desk",
		Description: "Solid walnut writing desk",
		Price:       350,
		ImageURL:    "https://img.example/desk.jpg",
		Stock:       3,
		SupplierID:  &supplier,
		Rating:      &rating,
		IsActive:    true,
		CategoryID:  2,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductRepo_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantID    uint64
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO products`).
					WillReturnResult(sqlmock.NewResult(12, 1))
			},
			wantID: 12,
		},
		{
			name: "slug already taken",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO products`).
					WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'walnut-desk'"))
			},
			wantErr: ErrSlugExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupProductRepo(t)
			defer cleanup()
			tt.setupMock(mock)

			p := sampleProduct()
			id, err := repo.Create(context.Background(), &p)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantID, p.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepo_ListActive_EmptyCatalog(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE is_active=1 AND stock>0`).
		WillReturnRows(productRows())

	products, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_ListByCategoryIDs(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE is_active=1 AND stock>0 AND category_id IN \(\?,\?\)`).
		WithArgs(uint64(2), uint64(5)).
		WillReturnRows(productRows(sampleProduct()))

	products, err := repo.ListByCategoryIDs(context.Background(), []uint64{2, 5})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "walnut-desk", products[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_ListByCategoryIDs_NoIDs(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	products, err := repo.ListByCategoryIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_GetActiveBySlug_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? AND is_active=1 AND stock>0`).
		WithArgs("gone").
		WillReturnRows(productRows())

	_, err := repo.GetActiveBySlug(context.Background(), "gone")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_GetBySlug_ReturnsDelistedRows(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	delisted := sampleProduct()
	delisted.IsActive = false
	mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? LIMIT 1`).
		WithArgs("walnut-desk").
		WillReturnRows(productRows(delisted))

	got, err := repo.GetBySlug(context.Background(), "walnut-desk")

	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Search_BuildsFilters(t *testing.T) {
	repo, mock, cleanup := setupProductRepo(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE is_active=1 AND stock>0 AND LOWER\(name\) LIKE \? AND price >= \? AND price <= \?`).
		WithArgs("%desk%", int64(100), int64(500)).
		WillReturnRows(productRows(sampleProduct()))

	products, err := repo.Search(context.Background(), SearchQuery{Name: "Desk", MinPrice: 100, MaxPrice: 500})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Walnut Desk", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
