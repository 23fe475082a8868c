package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/api/internal/models"
)

// SessionTTL is how long an issued session token stays valid. The session
// cookie carries the same max-age.
const SessionTTL = 4 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the payload of a session token: the subject username, an
// admin flag derived from the role at issuance, and a full snapshot of
// the Creator record. The snapshot is a display convenience, not a
// trusted cache; the guard re-validates it against the live store.
type Claims struct {
	Admin bool           `json:"admin"`
	Data  models.Creator `json:"data"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session tokens with a process-wide
// symmetric secret loaded once at startup.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = SessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue builds claims for the creator and signs them.
func (s *TokenService) Issue(creator models.Creator) (string, error) {
	now := time.Now()
	claims := Claims{
		Admin: creator.IsPublisher(),
		Data:  creator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creator.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the claims.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// TTL reports the configured session lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
