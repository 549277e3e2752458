package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
)

func setupProductHandler(t *testing.T) (*ProductHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewProductHandler(repository.NewProductRepo(db), repository.NewCategoryRepo(db)), mock, func() { db.Close() }
}

func productContext(t *testing.T, method, target, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("claims", *claims)
	}
	return c, rec
}

func productRow(slug string, supplierID uint64, isActive bool) *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "image_url", "stock",
		"supplier_id", "rating", "is_active", "category_id", "created_at", "updated_at",
	}).AddRow(1, "Walnut Desk", slug, "", 350, "", 3,
		supplierID, nil, isActive, 2, now, now)
}

func TestProductHandler_Create_CustomerForbidden(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	c, rec := productContext(t, http.MethodPost, "/products",
		`{"name":"Walnut Desk","price":350,"stock":3,"category":2}`,
		&auth.Claims{UserID: 7, IsCustomer: true})

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_Create_UnknownCategory(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id FROM categories WHERE id=\?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := productContext(t, http.MethodPost, "/products",
		`{"name":"Walnut Desk","price":350,"stock":3,"category":99}`,
		&auth.Claims{UserID: 4, IsSupplier: true})

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "There is no category found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_Create_SlugTaken(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id FROM categories WHERE id=\?`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO products`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'walnut-desk'"))

	c, rec := productContext(t, http.MethodPost, "/products",
		`{"name":"Walnut Desk","price":350,"stock":3,"category":2}`,
		&auth.Claims{UserID: 4, IsSupplier: true})

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_Update_OwnershipEnforced(t *testing.T) {
	tests := []struct {
		name       string
		claims     auth.Claims
		wantStatus int
	}{
		{"other supplier forbidden", auth.Claims{UserID: 11, IsSupplier: true}, http.StatusForbidden},
		{"customer forbidden", auth.Claims{UserID: 4, IsCustomer: true}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, cleanup := setupProductHandler(t)
			defer cleanup()

			mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? LIMIT 1`).
				WithArgs("walnut-desk").
				WillReturnRows(productRow("walnut-desk", 4, true))

			c, rec := productContext(t, http.MethodPut, "/products/walnut-desk",
				`{"name":"Walnut Desk","price":400,"stock":3,"category":2}`, &tt.claims)
			c.SetParamNames("product_slug")
			c.SetParamValues("walnut-desk")

			require.NoError(t, h.Update(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductHandler_Update_OwnerMaySucceed(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? LIMIT 1`).
		WithArgs("walnut-desk").
		WillReturnRows(productRow("walnut-desk", 4, true))
	mock.ExpectQuery(`SELECT id FROM categories WHERE id=\?`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(`UPDATE products SET name=\?, slug=\?, description=\?, price=\?, image_url=\?, stock=\?, category_id=\? WHERE slug=\?`).
		WithArgs("Oak Desk", "oak-desk", "", int64(400), "", int32(3), uint64(2), "walnut-desk").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := productContext(t, http.MethodPut, "/products/walnut-desk",
		`{"name":"Oak Desk","price":400,"stock":3,"category":2}`,
		&auth.Claims{UserID: 4, IsSupplier: true})
	c.SetParamNames("product_slug")
	c.SetParamValues("walnut-desk")

	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product update is successful")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_Delete_HiddenProductIsNotFound(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? LIMIT 1`).
		WithArgs("walnut-desk").
		WillReturnRows(productRow("walnut-desk", 4, false))

	c, rec := productContext(t, http.MethodDelete, "/products/walnut-desk", "", &auth.Claims{UserID: 1, IsAdmin: true})
	c.SetParamNames("product_slug")
	c.SetParamValues("walnut-desk")

	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductHandler_Delete_AdminMayDelist(t *testing.T) {
	h, mock, cleanup := setupProductHandler(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE slug=\? LIMIT 1`).
		WithArgs("walnut-desk").
		WillReturnRows(productRow("walnut-desk", 4, true))
	mock.ExpectExec(`UPDATE products SET is_active=0 WHERE slug=\?`).
		WithArgs("walnut-desk").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := productContext(t, http.MethodDelete, "/products/walnut-desk", "", &auth.Claims{UserID: 1, IsAdmin: true})
	c.SetParamNames("product_slug")
	c.SetParamValues("walnut-desk")

	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product delete is successful")
	assert.NoError(t, mock.ExpectationsWereMet())
}
