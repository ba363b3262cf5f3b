package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offerd.yaml")
	content := `
port: 9000
noPersist: true
users:
  - username: root
    password: hunter2
    role: administrator
  - username: viewer
    password: viewer
    role: viewer
session:
  secret: test-secret
  ttl: 1h
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.NoPersist)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.Equal(t, "debug", cfg.Log.Level)

	u, ok := cfg.FindUser("root")
	require.True(t, ok)
	assert.Equal(t, RoleAdministrator, u.Role)

	_, ok = cfg.FindUser("nobody")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Users = []User{{Username: "a", Password: "p"}, {Username: "a", Password: "p"}}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Users = []User{{Username: "a"}}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Session.TTL = "soon"
	assert.Error(t, cfg.Validate())
}
