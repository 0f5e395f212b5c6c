package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		valid    bool
	}{
		{"http", Settings{Token: "xoxb", SigningSecret: "s", Port: 3000}, true},
		{"socket", Settings{Token: "xoxb", SocketMode: true, AppToken: "xapp"}, true},
		{"no token", Settings{SigningSecret: "s", Port: 3000}, false},
		{"socket without app token", Settings{Token: "xoxb", SocketMode: true}, false},
		{"http without secret", Settings{Token: "xoxb", Port: 3000}, false},
		{"http bad port", Settings{Token: "xoxb", SigningSecret: "s", Port: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, ErrInvalidInput, errors.Cause(err))
		})
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-env")
	t.Setenv("SLACK_SIGNING_SECRET", "secret-env")
	t.Setenv("BOLTKIT_PORT", "4000")

	v, err := NewViper(newFlags(t, "--token", "xoxb-flag"))
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "xoxb-flag", s.Token)
	require.Equal(t, "secret-env", s.SigningSecret)
	require.Equal(t, 4000, s.Port)
	require.Equal(t, DefaultTapStream, s.Tap.Stream)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boltkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
token: xoxb-file
socket-mode: true
app-token: xapp-file
tap-enabled: true
tap-redis-addr: redis:6379
`), 0o600))

	v, err := NewViper(newFlags(t, "--config", path))
	require.NoError(t, err)
	s, err := Load(v)
	require.NoError(t, err)
	require.True(t, s.SocketMode)
	require.Equal(t, "xapp-file", s.AppToken)
	require.True(t, s.Tap.Enabled)
	require.Equal(t, "redis:6379", s.Tap.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	v, err := NewViper(newFlags(t, "--socket-mode", "--token", "xoxb"))
	require.NoError(t, err)
	_, err = Load(v)
	require.Error(t, err)
	require.Equal(t, ErrInvalidInput, errors.Cause(err))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOLTKIT_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("BOLTKIT_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("BOLTKIT_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-file", os.Getenv("BOLTKIT_TEST_DOTENV"))
}
