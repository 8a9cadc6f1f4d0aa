package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const issuer = "storefront"

var _ ports.TokenCodec = (*JWTCodec)(nil)

// JWTCodec issues HS256 tokens whose subject is the user and whose jti is the session.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

// NewJWTCodec requires a non-empty signing secret.
func NewJWTCodec(secret string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTCodec{secret: []byte(secret), now: time.Now}, nil
}

func (c *JWTCodec) Issue(session domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   session.UserID,
		ID:        session.ID,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Parse(token string) (ports.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", ports.ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return ports.TokenClaims{}, ports.ErrInvalidToken
	}
	return ports.TokenClaims{SessionID: claims.ID, UserID: claims.Subject}, nil
}
