package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// staff member holds one of the specified roles (ADMIN, MANAGER or
// STAFF, matching the JWT's "role" claim). Requests with a missing or
// disallowed role are rejected with 403 Forbidden. It assumes JWTAuth
// already stored the role in the context under "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
