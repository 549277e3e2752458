package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel comparisons for repository errors
	"net/http" // HTTP status codes and primitives
	"time"     // timeouts for DB calls and token TTLs

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/BnamoRS/ecommerce-api/internal/auth"       // token issuing and claims
	"github.com/BnamoRS/ecommerce-api/internal/config"     // app configuration
	"github.com/BnamoRS/ecommerce-api/internal/repository" // DB repositories
	"github.com/BnamoRS/ecommerce-api/internal/utils"      // helper functions (hashing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *auth.TokenService
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *auth.TokenService) *AuthHandler {
	if u == nil || t == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type tokenReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user account. New accounts are active customers;
// role upgrades go through the permission endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Users.Create(ctx, req.FirstName, req.LastName, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"detail": repository.ErrUsernameExists.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create user failed"})
	}

	return c.JSON(http.StatusCreated, txResponse{StatusCode: http.StatusCreated, Transaction: "Successful"})
}

// Token authenticates a username/password pair (JSON or form encoded) and
// issues a bearer access token embedding the user's role flags. Unknown
// users, wrong passwords and deactivated accounts all answer the same
// 401 so the endpoint does not leak which accounts exist.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid authentication credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid authentication credentials"})
	}

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	token, err := h.Tokens.Issue(u.Username, u.ID, u.IsAdmin, u.IsSupplier, u.IsCustomer, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "issue token failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}

// ReadCurrentUser echoes the claims decoded from the caller's token.
func (h *AuthHandler) ReadCurrentUser(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"User": echo.Map{
		"username":    claims.Username,
		"id":          claims.UserID,
		"is_admin":    claims.IsAdmin,
		"is_supplier": claims.IsSupplier,
		"is_customer": claims.IsCustomer,
	}})
}
