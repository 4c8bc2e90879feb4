package middleware

// identity.go holds the identity extraction shared by the rate limiter's
// key strategies. Public endpoints have no authenticated caller, so an
// absent identity keys as "anon" and limiting falls back to the client IP.

import "github.com/labstack/echo/v4"

// currentStaffID returns the authenticated staff identifier stored by
// JWTAuth, or "anon" for unauthenticated (public) requests.
func currentStaffID(c echo.Context) string {
	if v := c.Get("staff_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
