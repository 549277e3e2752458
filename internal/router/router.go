package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/BnamoRS/ecommerce-api/internal/auth"       // token service for the auth middleware
	"github.com/BnamoRS/ecommerce-api/internal/handler"    // import the handlers that implement business logic
	"github.com/BnamoRS/ecommerce-api/internal/middleware" // middleware for bearer-token authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints.  Registration and
// login are open; reading the current user requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService) {
	g := e.Group("/auth")
	g.POST("", a.Register)
	g.POST("/token", a.Token)
	g.GET("/read_current_user", a.ReadCurrentUser, middleware.BearerAuth(tokens))
}

// RegisterPermission wires the admin user-management endpoints.  Both
// require a token; the admin check itself runs inside the handlers via
// the access policy so denials carry precise reasons.
func RegisterPermission(e *echo.Echo, p *handler.PermissionHandler, tokens *auth.TokenService) {
	g := e.Group("/permission", middleware.BearerAuth(tokens))
	g.PATCH("", p.ToggleSupplier)
	g.DELETE("/delete", p.DeleteUser)
}

// RegisterCatalog wires category and product endpoints.  Reads are
// public; mutations sit behind the bearer-token middleware with
// fine-grained ownership checks in the handlers.
func RegisterCatalog(e *echo.Echo, ph *handler.ProductHandler, ch *handler.CategoryHandler, tokens *auth.TokenService) {
	authMW := middleware.BearerAuth(tokens)

	e.GET("/categories", ch.List)
	e.POST("/categories", ch.Create, authMW)
	e.PUT("/categories/:id", ch.Update, authMW)
	e.DELETE("/categories/:id", ch.Delete, authMW)

	// Static segments (search, detail) win over the :category_slug
	// parameter route in echo's router.
	e.GET("/products", ph.List)
	e.GET("/products/search", ph.Search)
	e.GET("/products/detail/:product_slug", ph.Detail)
	e.GET("/products/:category_slug", ph.ByCategory)
	e.POST("/products", ph.Create, authMW)
	e.PUT("/products/:product_slug", ph.Update, authMW)
	e.DELETE("/products/:product_slug", ph.Delete, authMW)
}

// RegisterReviews wires review endpoints.  Listing is public; submitting
// requires a customer token and moderation an admin token.
func RegisterReviews(e *echo.Echo, rh *handler.ReviewHandler, tokens *auth.TokenService) {
	authMW := middleware.BearerAuth(tokens)

	e.GET("/reviews", rh.List)
	e.GET("/reviews/:product_id", rh.ByProduct)
	e.POST("/reviews", rh.Create, authMW)
	e.DELETE("/reviews/:review_id", rh.Delete, authMW)
}
