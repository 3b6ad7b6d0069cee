package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/service"
	"library/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte        // Signing key, loaded once at startup.
	issuer string        // "iss" claim.
	ttl    time.Duration // Lifetime of issued tokens.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// The signing key is taken from secretKey.access and never exposed afterwards.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := time.Hour
	issuer := "library"
	if cfg.Auth != nil {
		if cfg.Auth.TokenTTL > 0 {
			ttl = cfg.Auth.TokenTTL
		}
		if cfg.Auth.Issuer != "" {
			issuer = cfg.Auth.Issuer
		}
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token binding the member to an expiry instant.
func (s *jwtService) Issue(memberID uint64) (*service.IssuedToken, error) {
	issuedAt := s.now().Truncate(jwt.TimePrecision)
	expiresAt := issuedAt.Add(s.ttl)

	claims := service.Claims{
		MemberID: memberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(memberID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &service.IssuedToken{
		Token:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the token signature and expiry and returns its claims.
// A token is accepted strictly before its expiry instant.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if !token.Valid || claims.MemberID == 0 {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("token carries no member")
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}

// classifyTokenError maps jwt validation errors onto the rejection taxonomy.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Wrap(domainerrors.ErrTokenMalformed, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Wrap(domainerrors.ErrTokenBadSignature, err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(domainerrors.ErrTokenExpired, err.Error())
	default:
		// Missing exp, bad claim types and the like.
		return errors.Wrap(domainerrors.ErrTokenMalformed, err.Error())
	}
}
