package handler // handler defines http handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/middleware"
)

// Validator adapts go-playground/validator to echo's Validator interface
// so handlers can call c.Validate on bound request bodies.
type Validator struct{ validate *validator.Validate }

func NewValidator() *Validator { return &Validator{validate: validator.New()} }

func (v *Validator) Validate(i interface{}) error { return v.validate.Struct(i) }

// txResponse is the envelope every successful mutation answers with.
type txResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
}

// currentClaims pulls the decoded claims stored by the auth middleware.
// A missing record means the route was registered without BearerAuth,
// which is a wiring bug; the caller answers 401 in that case.
func currentClaims(c echo.Context) (auth.Claims, bool) {
	return middleware.ClaimsFrom(c)
}

// forbidden is the shared 403 response used by every policy denial.
func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"detail": "You are not authorized to use this method"})
}
