package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unistay-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
)

const (
	issuer          = "unistay"
	sessionAudience = "web-session"
)

// SessionClaims defines the claims carried by the session cookie
type SessionClaims struct {
	UserID    int32  `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"su,omitempty"`
	jwt.RegisteredClaims
}

// Caller converts the claims into the identity used by services.
func (c *SessionClaims) Caller() (domain.Caller, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Caller{}, ErrInvalidToken
	}
	return domain.Caller{UserID: c.UserID, Username: c.Username, Role: role, IsSuperuser: c.Superuser}, nil
}

// Remaining is how long the token stays valid, used as the revocation TTL.
func (c *SessionClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

type TokenManager interface {
	GenerateSessionToken(user *domain.User) (string, *SessionClaims, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateSessionToken(user *domain.User) (string, *SessionClaims, error) {
	now := m.now()
	claims := &SessionClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role.String(),
		Superuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (m *tokenManager) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}
	return claims, nil
}
