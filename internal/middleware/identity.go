package middleware

// identity.go resolves a caller identity for each request. The engine
// trusts its single caller, so identity here is not authorization: it only
// keys session drafts and rate-limit buckets. When a Bearer token signed
// with the configured secret is presented, its subject claim becomes the
// caller id; otherwise the caller is "guest". With no secret configured
// every caller is "guest".

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// callerKey is the context key under which the resolved identity is stored.
const callerKey = "caller_id"

// CallerIdentity returns middleware that resolves and stores the caller
// identity. Invalid or missing tokens are not an error; the request simply
// proceeds anonymously.
func CallerIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(callerKey, resolveCaller(c, secret))
			return next(c)
		}
	}
}

// CallerID returns the identity stored by CallerIdentity, or "guest" when
// the middleware did not run.
func CallerID(c echo.Context) string {
	if v, ok := c.Get(callerKey).(string); ok && v != "" {
		return v
	}
	return "guest"
}

func resolveCaller(c echo.Context, secret string) string {
	if secret == "" {
		return "guest"
	}
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "guest"
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "guest"
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "guest"
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	return "guest"
}
