package handler

import (
	"log/slog"
	"net/http"
	"time"

	"library/internal/delivery/api/response"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MemberHandlerParams holds dependencies for MemberHandler, injected by Fx.
type MemberHandlerParams struct {
	fx.In

	MemberUC usecase.MemberUsecase
	Logger   *slog.Logger
}

// MemberHandler serves registration and login.
type MemberHandler struct {
	memberUC usecase.MemberUsecase
	logger   *slog.Logger
}

// NewMemberHandler is the constructor for MemberHandler
func NewMemberHandler(params MemberHandlerParams) *MemberHandler {
	return &MemberHandler{
		memberUC: params.MemberUC,
		logger:   params.Logger,
	}
}

// RegisterRequest accepts a JSON or form encoded body.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest accepts a JSON or form encoded body.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// MemberResponse is the public view of a member. The password digest never leaves the service.
type MemberResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string          `json:"message"`
	Member  *MemberResponse `json:"member"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Member      *MemberResponse `json:"member"`
}

func toMemberResponse(member *entity.Member) *MemberResponse {
	return &MemberResponse{
		ID:        member.ID,
		Name:      member.Name,
		Email:     member.Email,
		CreatedAt: member.CreatedAt,
	}
}

// Register handles member registration
func (h *MemberHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("request body could not be parsed")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	member, err := h.memberUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, RegisterResponse{
		Message: "Member registered successfully",
		Member:  toMemberResponse(member),
	})
}

// Login handles credential exchange for a session token
func (h *MemberHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("request body could not be parsed")
	}

	out, err := h.memberUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, LoginResponse{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresIn:   int64(out.ExpiresIn / time.Second),
		ExpiresAt:   out.ExpiresAt,
		Member:      toMemberResponse(out.Member),
	})
}
