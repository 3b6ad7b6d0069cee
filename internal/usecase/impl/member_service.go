// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// TokenTypeBearer is the scheme clients send session tokens with.
const TokenTypeBearer = "Bearer"

// memberService implements the MemberUsecase interface.
type memberService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validate     *validator.Validate
	logger       *slog.Logger

	// decoyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	decoyOnce sync.Once
	decoyHash string
}

// MemberServiceParams holds dependencies for MemberService, injected by Fx.
type MemberServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewMemberService is the constructor for memberService.
func NewMemberService(params MemberServiceParams) usecase.MemberUsecase {
	return &memberService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *memberService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a member account. The email is normalized before the
// uniqueness check so addresses differing only in case collide.
func (srv *memberService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Member, error) {
	normalized := usecase.RegisterInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    entity.NormalizeEmail(input.Email),
		Password: input.Password,
	}

	if err := srv.validate.Struct(normalized); err != nil {
		srv.log(ctx).Debug("Registration rejected", slog.String("email", normalized.Email), slog.Any("error", err))

		return nil, domainerrors.ErrInvalidInput.WithDetails(describeValidationError(err))
	}

	// Hash outside the transaction; bcrypt is CPU-bound.
	digest, err := srv.hasher.Hash(normalized.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	member := &entity.Member{
		Name:         normalized.Name,
		Email:        normalized.Email,
		PasswordHash: digest,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		_, findErr := memberRepo.FindByEmail(ctx, member.Email)
		if findErr == nil {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrMemberNotFound) {
			return errors.Wrap(findErr, "failed to look up email")
		}

		// A concurrent registration can still win the race; the unique index
		// rejects the second insert with ErrDuplicateEmail.
		return memberRepo.Create(ctx, member)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", member.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Info("Member registered", slog.Uint64("memberID", member.ID))

	return member, nil
}

// Login verifies credentials and mints a session token. Unknown emails and wrong
// passwords produce the same error.
func (srv *memberService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting member login", slog.String("email", email))

	if email == "" || input.Password == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	member, err := srv.loadLoginMember(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			srv.hasher.Check(input.Password, srv.decoy())
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))
		}

		return nil, err
	}

	if !srv.hasher.Check(input.Password, member.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	issued, err := srv.tokenService.Issue(member.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Uint64("memberID", member.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.log(ctx).Debug("Member logged in", slog.Uint64("memberID", member.ID))

	return &usecase.LoginOutput{
		AccessToken: issued.Token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   issued.ExpiresAt,
		ExpiresIn:   issued.ExpiresAt.Sub(issued.IssuedAt),
		Member:      member,
	}, nil
}

// Authenticate verifies the token signature and expiry. It never touches storage.
func (srv *memberService) Authenticate(ctx context.Context, token string) (uint64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, domainerrors.ErrUnauthenticated.WithDetails("missing token")
	}

	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return 0, err
	}

	return claims.MemberID, nil
}

func (srv *memberService) loadLoginMember(ctx context.Context, email string) (*entity.Member, error) {
	var member *entity.Member

	// Read from the primary in a short transaction to avoid stale reads on replicas.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		member, findErr = repoFactory.MemberRepo().FindByEmail(ctx, email)
		if errors.Is(findErr, repository.ErrMemberNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return findErr
	}); err != nil {
		return nil, errors.Wrap(err, "failed to load login member")
	}

	return member, nil
}

func (srv *memberService) decoy() string {
	srv.decoyOnce.Do(func() {
		digest, err := srv.hasher.Hash("decoy-password-for-unknown-accounts")
		if err == nil {
			srv.decoyHash = digest
		}
	})

	return srv.decoyHash
}

// describeValidationError turns validator output into a short client-facing message.
func describeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" is not a valid email address")
		default:
			parts = append(parts, field+" is invalid")
		}
	}

	return strings.Join(parts, "; ")
}
