package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesSecret(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString(secret))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, secret, cfg.Auth.JWTSecret)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadBase64(t *testing.T) {
	t.Setenv("JWT_SECRET", "not base64 at all!!!")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, http://b ,"))
}
