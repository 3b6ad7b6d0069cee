package middleware

import (
	"strings"

	domainerrors "library/internal/domain/errors"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	// ContextKeyMemberID is where Authenticate stores the caller's member id.
	ContextKeyMemberID = "memberID"

	bearerPrefix = "Bearer "
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	MemberUC usecase.MemberUsecase
}

// AuthMiddleware rejects requests without a valid session token.
type AuthMiddleware struct {
	memberUC usecase.MemberUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{memberUC: params.MemberUC}
}

// Authenticate verifies the bearer token before the handler runs.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("authorization header is missing")
		}

		if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return domainerrors.ErrUnauthenticated.WithDetails("authorization header must use the Bearer scheme")
		}

		memberID, err := m.memberUC.Authenticate(c.Request().Context(), strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			return err
		}

		c.Set(ContextKeyMemberID, memberID)

		return next(c)
	}
}

// GetMemberID returns the member id set by Authenticate.
func GetMemberID(c echo.Context) (uint64, bool) {
	memberID, ok := c.Get(ContextKeyMemberID).(uint64)

	return memberID, ok && memberID != 0
}
