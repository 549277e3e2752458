package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
)

func setupPermissionHandler(t *testing.T) (*PermissionHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPermissionHandler(repository.NewUserRepo(db)), mock, func() { db.Close() }
}

func permissionContext(t *testing.T, method, target string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("claims", *claims)
	}
	return c, rec
}

func userRow(id uint64, isActive, isAdmin, isSupplier, isCustomer bool) *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email", "password_hash",
		"is_active", "is_admin", "is_supplier", "is_customer", "created_at", "updated_at",
	}).AddRow(id, "Test", "User", "tuser", "tuser@example.com", "$2a$10$hash",
		isActive, isAdmin, isSupplier, isCustomer, now, now)
}

func TestPermissionHandler_ToggleSupplier(t *testing.T) {
	admin := auth.Claims{UserID: 1, IsAdmin: true}

	tests := []struct {
		name       string
		claims     *auth.Claims
		setupMock  func(sqlmock.Sqlmock)
		wantStatus int
		wantDetail string
	}{
		{
			name:       "non-admin denied",
			claims:     &auth.Claims{UserID: 2, IsCustomer: true},
			setupMock:  func(sqlmock.Sqlmock) {},
			wantStatus: http.StatusForbidden,
			wantDetail: "You don't have admin permission",
		},
		{
			name:   "customer becomes supplier",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, true, false, false, true))
				mock.ExpectExec(`UPDATE users SET is_supplier=\?, is_customer=\? WHERE id=\?`).
					WithArgs(true, false, uint64(9)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantStatus: http.StatusOK,
			wantDetail: "User is now supplier",
		},
		{
			name:   "supplier reverts to customer",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, true, false, true, false))
				mock.ExpectExec(`UPDATE users SET is_supplier=\?, is_customer=\? WHERE id=\?`).
					WithArgs(false, true, uint64(9)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantStatus: http.StatusOK,
			wantDetail: "User is no longer supplier",
		},
		{
			name:   "inactive target hidden",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, false, false, false, true))
			},
			wantStatus: http.StatusNotFound,
			wantDetail: "User not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, cleanup := setupPermissionHandler(t)
			defer cleanup()
			tt.setupMock(mock)

			c, rec := permissionContext(t, http.MethodPatch, "/permission?user_id=9", tt.claims)

			require.NoError(t, h.ToggleSupplier(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPermissionHandler_DeleteUser(t *testing.T) {
	admin := auth.Claims{UserID: 1, IsAdmin: true}

	tests := []struct {
		name       string
		claims     *auth.Claims
		setupMock  func(sqlmock.Sqlmock)
		wantStatus int
		wantDetail string
	}{
		{
			name:       "non-admin denied before lookup",
			claims:     &auth.Claims{UserID: 2, IsSupplier: true},
			setupMock:  func(sqlmock.Sqlmock) {},
			wantStatus: http.StatusForbidden,
			wantDetail: "You don't have admin permission",
		},
		{
			name:   "admin target protected",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, true, true, false, false))
			},
			wantStatus: http.StatusForbidden,
			wantDetail: "You can't delete admin user",
		},
		{
			name:   "repeat delete is a no-op",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, false, false, false, true))
			},
			wantStatus: http.StatusOK,
			wantDetail: "User has already been deleted",
		},
		{
			name:   "active user soft-deleted",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(userRow(9, true, false, false, true))
				mock.ExpectExec(`UPDATE users SET is_active=0 WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantStatus: http.StatusOK,
			wantDetail: "User is deleted",
		},
		{
			name:   "unknown target",
			claims: &admin,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id=\?`).
					WithArgs(uint64(9)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantStatus: http.StatusNotFound,
			wantDetail: "User not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, cleanup := setupPermissionHandler(t)
			defer cleanup()
			tt.setupMock(mock)

			c, rec := permissionContext(t, http.MethodDelete, "/permission/delete?user_id=9", tt.claims)

			require.NoError(t, h.DeleteUser(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
