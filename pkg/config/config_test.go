package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 15*time.Second, cfg.ChatTimeout)
	assert.Equal(t, 3, cfg.ChatRetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ChatRetryDelay)
	assert.False(t, cfg.AuthEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "5")
	t.Setenv("AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.ChatTimeout)
	assert.True(t, cfg.AuthEnabled)
}

func TestLoadRequiresProjectForFirestore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}
