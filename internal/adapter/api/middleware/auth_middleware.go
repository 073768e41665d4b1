package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/response"
)

// TokenVerifier checks a bearer token and returns its uid and claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, map[string]interface{}, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// a websocket handshake, so upgrade requests may pass ?token= instead.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" && strings.EqualFold(c.Request().Header.Get("Upgrade"), "websocket") {
		if token := c.QueryParam("token"); token != "" {
			return token, true
		}
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func roleFromClaims(claims map[string]interface{}) string {
	if role, ok := claims["role"].(string); ok {
		return role
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return entity.RoleAdmin
	}
	return ""
}

// Authenticate rejects requests without a valid bearer token. On success the
// uid and role are stored in the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		uid, claims, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set("uid", uid)
		c.Set("role", roleFromClaims(claims))
		return next(c)
	}
}

// Optional stores the caller's identity when a valid token is present and
// lets the request through either way.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c); ok {
			if uid, claims, err := m.verifier.VerifyToken(c.Request().Context(), token); err == nil {
				c.Set("uid", uid)
				c.Set("role", roleFromClaims(claims))
			}
		}
		return next(c)
	}
}
