package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/domain/repository"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// IsAdmin reports whether uid may act as an admin. A role claim on the
// token is trusted; otherwise the user's stored role decides.
func (m *AdminMiddleware) IsAdmin(ctx context.Context, uid, claimRole string) (bool, error) {
	if claimRole == entity.RoleAdmin {
		return true, nil
	}

	user, err := m.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Role == entity.RoleAdmin, nil
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		role, _ := c.Get("role").(string)
		admin, err := m.IsAdmin(c.Request().Context(), uid, role)
		if err != nil {
			return response.Error(c, errors.Internal("Failed to verify admin privileges", err))
		}
		if !admin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		c.Set("role", entity.RoleAdmin)
		return next(c)
	}
}
