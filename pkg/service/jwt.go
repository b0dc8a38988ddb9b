package service

import (
	"fmt"
	"time"

	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JwtCustomClaim is the payload of both access and refresh tokens.
// The user id travels in RegisteredClaims.Subject.
type JwtCustomClaim struct {
	Name           string         `json:"name"`
	Role           constants.Role `json:"role"`
	IsRefreshToken bool           `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

func (c *JwtCustomClaim) UserID() string {
	return c.Subject
}

type JWTService interface {
	GenerateTokens(userID, name string, role constants.Role) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type Option func(*jwtService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) { s.now = now }
}

func WithIssuer(issuer string) Option {
	return func(s *jwtService) { s.issuer = issuer }
}

type jwtService struct {
	secretKey       []byte
	issuer          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration, logger *zap.Logger, opts ...Option) JWTService {
	s := &jwtService{
		secretKey:       []byte(secretKey),
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
		now:             time.Now,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *jwtService) GenerateTokens(userID, name string, role constants.Role) (string, string, error) {
	issuedAt := s.now()

	access, err := s.sign(userID, name, role, false, issuedAt, issuedAt.Add(s.accessTokenExp))
	if err != nil {
		return "", "", err
	}
	refresh, err := s.sign(userID, name, role, true, issuedAt, issuedAt.Add(s.refreshTokenExp))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *jwtService) sign(userID, name string, role constants.Role, refresh bool, iat, exp time.Time) (string, error) {
	claims := &JwtCustomClaim{
		Name:           name,
		Role:           role,
		IsRefreshToken: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.refreshTokenExp
}

// ValidateToken checks signature, algorithm and expiry. Every failure is
// reported as ErrTokenInvalid with the parser error as cause.
func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	claims := &JwtCustomClaim{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, apperrors.ErrTokenInvalid.With(err, nil)
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, apperrors.ErrTokenInvalid.With(fmt.Errorf("malformed claims"), nil)
	}
	return claims, nil
}
