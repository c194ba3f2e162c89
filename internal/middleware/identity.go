package middleware

// identity.go holds the user identity helper shared by the cache and
// rate-limit key builders. Unauthenticated requests identify as "guest"
// so the public routes still bucket per client IP.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID returns a string form of the authenticated user's ID from the
// context, or "guest" when no user is present. JWTAuth stores the raw
// "sub" claim, whose concrete type depends on the token issuer.
func userID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case int, int64, uint64:
		return fmt.Sprintf("%d", t)
	}
	return "guest"
}
