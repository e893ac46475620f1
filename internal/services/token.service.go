package services

import (
	"errors"
	"time"

	"hostelhub/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DEFAULT_TOKEN_TTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies HS256 bearer tokens whose subject is a user id.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
	log    logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.JWTSecret),
		issuer: config.JWTIssuer,
		now:    time.Now,
		log:    logger.New("TokenService"),
	}
}

func (s *TokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	log := s.log.Function("Issue")

	if ttl <= 0 {
		ttl = DEFAULT_TOKEN_TTL
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return token, nil
}

// Validate returns the user id carried by a valid token.
func (s *TokenService) Validate(tokenString string) (uuid.UUID, error) {
	log := s.log.Function("Validate")

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		log.Debug("token rejected", "error", err)
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token subject is not a user id", "subject", claims.Subject)
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
