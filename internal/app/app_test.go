package app_test

import (
	"testing"

	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestResolveAdminSecrets(t *testing.T) {
	t.Run("DevelopmentGenerates", func(t *testing.T) {
		cfg := config.Config{Env: config.EnvDevelopment}
		cfg.Auth.AdminUsername = "admin"

		secrets, err := app.ResolveAdminSecrets(cfg)
		require.NoError(t, err)

		_, err = bcrypt.Cost([]byte(secrets.PasswordHash))
		assert.NoError(t, err)
		assert.Len(t, secrets.JWTSecret, 32)
	})

	t.Run("ConfiguredKept", func(t *testing.T) {
		cfg := config.Config{Env: config.EnvProduction}
		cfg.Auth.AdminPasswordHash = "$2a$10$configured"
		cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"

		secrets, err := app.ResolveAdminSecrets(cfg)
		require.NoError(t, err)

		assert.Equal(t, "$2a$10$configured", secrets.PasswordHash)
		assert.Equal(t, []byte(cfg.Auth.JWTSecret), secrets.JWTSecret)
	})

	t.Run("ProductionRequiresHash", func(t *testing.T) {
		cfg := config.Config{Env: config.EnvProduction}
		cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"

		_, err := app.ResolveAdminSecrets(cfg)
		assert.Error(t, err)
	})

	t.Run("ProductionRequiresSecret", func(t *testing.T) {
		cfg := config.Config{Env: config.EnvProduction}
		cfg.Auth.AdminPasswordHash = "$2a$10$configured"

		_, err := app.ResolveAdminSecrets(cfg)
		assert.Error(t, err)
	})
}

func TestBrokerTLSConfig(t *testing.T) {
	t.Run("Plaintext", func(t *testing.T) {
		tlsConfig, err := app.BrokerTLSConfig(config.Config{})
		require.NoError(t, err)
		assert.Nil(t, tlsConfig)
	})

	t.Run("MissingFiles", func(t *testing.T) {
		var cfg config.Config
		cfg.Broker.TLS.CA = t.TempDir() + "/absent-ca.pem"

		_, err := app.BrokerTLSConfig(cfg)
		assert.Error(t, err)
	})
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = "sqlite"

	_, err := app.OpenStorage(t.Context(), cfg)
	assert.ErrorContains(t, err, "unknown storage driver")
}
