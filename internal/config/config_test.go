package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func validConfig() *StructuredConfig {
	return &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Storage: Storage{DB: DB{DSN: "postgres://localhost/natours"}},
	}
}

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, validConfig())

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.HTTPAddress)
	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, 90*24*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 90*24*time.Hour, cfg.App.CookieExpires)
	assert.Equal(t, 12, cfg.App.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.App.ResetTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.EqualValues(t, 10*1024, cfg.Security.BodyLimit)
	assert.Equal(t, 100, cfg.Security.RateLimit)
	assert.Equal(t, time.Hour, cfg.Security.RateWindow)
}

func TestBuild_LaterSourceOverrides(t *testing.T) {
	b := newConfigBuilder()
	first := validConfig()
	first.Server.HTTPAddress = ":8080"
	first.App.TokenIssuer = "first"
	b.configs = append(b.configs, first, &StructuredConfig{App: App{TokenIssuer: "second"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.App.TokenIssuer)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddress, "zero fields must not override")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}},
		{name: "missing dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "missing sign key", mutate: func(c *StructuredConfig) { c.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "unknown env", mutate: func(c *StructuredConfig) { c.App.Env = "staging" }, wantErr: ErrInvalidAppConfigs},
		{name: "bcrypt cost too high", mutate: func(c *StructuredConfig) { c.App.BcryptCost = 40 }, wantErr: ErrInvalidAppConfigs},
		{name: "production without mail", mutate: func(c *StructuredConfig) { c.App.Env = EnvProduction }, wantErr: ErrInvalidMailConfigs},
		{name: "production with mail", mutate: func(c *StructuredConfig) {
			c.App.Env = EnvProduction
			c.Mail.Host = "smtp.example.com"
		}},
		{name: "zero body limit", mutate: func(c *StructuredConfig) { c.Security.BodyLimit = 0 }, wantErr: ErrInvalidSecurityConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			*cfg = *mergedWithDefaults(t, cfg)
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func mergedWithDefaults(t *testing.T, cfg *StructuredConfig) *StructuredConfig {
	t.Helper()
	b := newConfigBuilder()
	b.configs = append(b.configs, cfg)
	out, err := b.build()
	require.NoError(t, err)
	return out
}

func TestLoad_EnvFlagsAndJSON(t *testing.T) {
	t.Setenv("DOTENV_PATH", "")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env/natours")
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-secret")
	t.Setenv("APP_TOKEN_ISSUER", "env-issuer")

	jsonPath := writeTempJSONConfig(t, map[string]any{
		"app": map[string]any{"token_issuer": "json-issuer", "reset_token_ttl": "5m"},
	})

	cfg, err := Load([]string{"-a", "localhost:4000", "-c", jsonPath})
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/natours", cfg.Storage.DB.DSN)
	assert.Equal(t, "env-secret", cfg.App.TokenSignKey)
	assert.Equal(t, "localhost:4000", cfg.Server.HTTPAddress)
	assert.Equal(t, "json-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 5*time.Minute, cfg.App.ResetTokenTTL)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DOTENV_PATH", "")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env/natours")
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-secret")

	cfg, err := Load([]string{"-d", "postgres://flag/natours"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/natours", cfg.Storage.DB.DSN)
}

func TestLoad_DotEnvFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(p, []byte("STORAGE_DB_DATABASE_URI=postgres://dotenv/natours\nAPP_TOKEN_SIGN_KEY=dotenv-secret\n"), 0o600))

	t.Setenv("STORAGE_DB_DATABASE_URI", "")
	t.Setenv("APP_TOKEN_SIGN_KEY", "")
	require.NoError(t, os.Unsetenv("STORAGE_DB_DATABASE_URI"))
	require.NoError(t, os.Unsetenv("APP_TOKEN_SIGN_KEY"))

	cfg, err := Load([]string{"-env-file", p})
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv/natours", cfg.Storage.DB.DSN)
	assert.Equal(t, "dotenv-secret", cfg.App.TokenSignKey)
}

func TestLoad_MissingExplicitDotEnvFails(t *testing.T) {
	_, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")})
	assert.Error(t, err)
}

func TestLoad_MissingJSONFails(t *testing.T) {
	t.Setenv("DOTENV_PATH", "")
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"-unknown"})
	assert.Error(t, err)
}
