package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"   // sentinel comparisons against the auth taxonomy
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/BnamoRS/ecommerce-api/internal/auth" // token validation and typed claims
)

// claimsKey is the context key under which the decoded claims are stored.
const claimsKey = "claims"

// BearerAuth returns an Echo middleware that validates a Bearer access
// token and injects the decoded claims record into the request context.
// The claims are decoded exactly once, here at the trust boundary;
// handlers read the typed record via ClaimsFrom.  Failure mapping:
//   - no Authorization header / wrong scheme → 401 authentication required
//   - expired token → 401
//   - malformed expiry claim → 400
//   - anything else wrong with the token → 401
func BearerAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A protected endpoint without a token fails before any
            // policy check runs.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            claims, err := tokens.Validate(raw)
            if err != nil {
                switch {
                case errors.Is(err, auth.ErrTokenExpired):
                    return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Token expired!"})
                case errors.Is(err, auth.ErrMalformedToken):
                    return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid token format"})
                default:
                    return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate user"})
                }
            }

            c.Set(claimsKey, claims)
            return next(c)
        }
    }
}

// ClaimsFrom extracts the decoded claims stored by BearerAuth.  The
// boolean is false when the middleware did not run on this route.
func ClaimsFrom(c echo.Context) (auth.Claims, bool) {
    claims, ok := c.Get(claimsKey).(auth.Claims)
    return claims, ok
}
