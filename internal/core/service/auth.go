package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.Authenticator = (*AuthService)(nil)

const PasswordHashCost = 10

// A dummyHash is compared against when the username is wrong, so a failed
// login costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), PasswordHashCost)

type AuthConfig struct {
	AdminUsername     string
	AdminPasswordHash string
}

type AuthService struct {
	username string
	hash     []byte
	issuer   port.TokenIssuer
	now      func() time.Time
}

func NewAuthService(config AuthConfig, issuer port.TokenIssuer) (AuthService, error) {
	const op = "NewAuthService"

	if issuer == nil {
		panic("token issuer is nil") // develop mistake
	}
	if config.AdminUsername == "" {
		return AuthService{}, fmt.Errorf("%s: admin username is empty", op)
	}

	hash := []byte(config.AdminPasswordHash)
	if _, err := bcrypt.Cost(hash); err != nil {
		return AuthService{}, fmt.Errorf("%s: admin password hash: %w", op, err)
	}

	return AuthService{
		username: config.AdminUsername,
		hash:     hash,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

// Login returns a credential for the configured admin.
//
// Any mismatch fails with [domain.ErrAuthentication] and nothing else, so
// callers cannot tell a wrong username from a wrong password.
func (s AuthService) Login(
	ctx context.Context, username, password string,
) (domain.Credential, error) {
	const op = "AuthService.Login"

	if err := ctx.Err(); err != nil {
		return domain.Credential{}, fmt.Errorf("%s: %w", op, err)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	hash := s.hash
	if !userOK {
		hash = dummyHash
	}
	passErr := bcrypt.CompareHashAndPassword(hash, []byte(password))

	if !userOK || passErr != nil {
		return domain.Credential{}, fmt.Errorf("%s: %w", op, domain.ErrAuthentication)
	}

	identity := domain.Identity{Username: s.username, Role: domain.RoleAdmin}
	cred, err := s.issuer.Issue(identity, s.now())
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%s: %w", op, err)
	}
	return cred, nil
}

func (s AuthService) Verify(ctx context.Context, token string) (domain.Identity, error) {
	const op = "AuthService.Verify"

	if err := ctx.Err(); err != nil {
		return domain.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if token == "" {
		return domain.Identity{}, fmt.Errorf("%s: %w", op, domain.ErrAuthentication)
	}

	identity, err := s.issuer.Parse(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s: %w: %w", op, domain.ErrAuthentication, err)
	}

	if !identity.IsAdmin() {
		return domain.Identity{}, fmt.Errorf("%s: %w", op, domain.ErrAuthentication)
	}
	return identity, nil
}

// HashPassword returns the bcrypt hash stored in the admin configuration.
func HashPassword(password string) (string, error) {
	const op = "HashPassword"
	if password == "" {
		return "", fmt.Errorf("%s: password is empty", op)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(b), nil
}

// GeneratePassword returns a random URL-safe password for development runs.
func GeneratePassword() (string, error) {
	const op = "GeneratePassword"
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
