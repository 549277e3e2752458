package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
)

// PermissionHandler exposes the admin-only user management endpoints:
// toggling the supplier role and soft-deleting accounts. Both operations
// read the caller's role from the token claims, so a freshly revoked
// admin keeps the power until the token expires — the documented
// staleness window of embedded role flags.
type PermissionHandler struct {
	Users *repository.UserRepo
}

func NewPermissionHandler(u *repository.UserRepo) *PermissionHandler {
	if u == nil {
		panic("nil repository passed to NewPermissionHandler")
	}
	return &PermissionHandler{Users: u}
}

// ToggleSupplier handles PATCH /permission?user_id=N. It flips the
// target between supplier and customer: granting supplier revokes the
// customer flag and vice versa. Admin only; inactive targets are 404.
func (h *PermissionHandler) ToggleSupplier(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !auth.CanManageUser(claims) {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "You don't have admin permission"})
	}

	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid user_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !user.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "User not found"})
	}

	detail := "User is now supplier"
	if user.IsSupplier {
		err = h.Users.SetSupplierStatus(ctx, userID, false, true)
		detail = "User is no longer supplier"
	} else {
		err = h.Users.SetSupplierStatus(ctx, userID, true, false)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status_code": http.StatusOK, "detail": detail})
}

// DeleteUser handles DELETE /permission/delete?user_id=N. Soft delete
// only: the row stays and is_active flips to false. Admin accounts can
// never be deleted through this path; repeating a delete is a no-op with
// its own message rather than an error.
func (h *PermissionHandler) DeleteUser(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}

	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid user_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The not-admin denial is checked before the target lookup so a
	// non-admin cannot probe which user ids exist.
	if !claims.IsAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "You don't have admin permission"})
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	switch auth.CanDeleteUser(claims, user) {
	case auth.DeleteUserDenyAdminTarget:
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "You can't delete admin user"})
	case auth.DeleteUserAlreadyInactive:
		return c.JSON(http.StatusOK, echo.Map{"status_code": http.StatusOK, "detail": "User has already been deleted"})
	case auth.DeleteUserAllow:
		if err := h.Users.Deactivate(ctx, userID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status_code": http.StatusOK, "detail": "User is deleted"})
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "You don't have admin permission"})
	}
}
