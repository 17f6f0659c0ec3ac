package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

var _ port.TokenIssuer = (*JWTIssuer)(nil)

const minSecretLen = 32

type adminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 bearer tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Opt func(*JWTIssuer)

// WithClock sets the time used to validate expiry.
func WithClock(now func() time.Time) Opt {
	return func(i *JWTIssuer) { i.now = now }
}

func NewJWTIssuer(secret []byte, ttl time.Duration, opts ...Opt) (JWTIssuer, error) {
	const op = "token.NewJWTIssuer"

	if len(secret) < minSecretLen {
		return JWTIssuer{}, fmt.Errorf(
			"%s: secret must be at least %d bytes", op, minSecretLen,
		)
	}
	if ttl <= 0 {
		return JWTIssuer{}, fmt.Errorf("%s: ttl must be positive", op)
	}

	i := JWTIssuer{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(&i)
	}
	return i, nil
}

func (i JWTIssuer) Issue(
	id domain.Identity, issuedAt time.Time,
) (domain.Credential, error) {
	const op = "JWTIssuer.Issue"

	expiresAt := issuedAt.Add(i.ttl)
	claims := adminClaims{
		Username: id.Username,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Credential{
		Token:     signed,
		Identity:  id,
		ExpiresAt: expiresAt,
	}, nil
}

func (i JWTIssuer) Parse(token string) (domain.Identity, error) {
	const op = "JWTIssuer.Parse"

	var claims adminClaims
	t, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s: %w: %w", op, domain.ErrAuthentication, err)
	}
	if !t.Valid {
		return domain.Identity{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrAuthentication, errors.New("token is invalid"),
		)
	}

	return domain.Identity{Username: claims.Username, Role: claims.Role}, nil
}
