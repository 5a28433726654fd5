package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportobello/rpb/pkg/client"
	"github.com/reportobello/rpb/pkg/types"
)

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("REPORTOBELLO_API_KEY", "")

	_, err := Load(Overrides{})
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REPORTOBELLO_API_KEY", "rpb_key")
	t.Setenv("REPORTOBELLO_HOST", "")
	t.Setenv("REPORTOBELLO_DOMAIN", "")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, client.DefaultHost, cfg.Host)
	assert.Equal(t, "rpb_key", cfg.APIKey)
	assert.Equal(t, client.DefaultTimeout, cfg.Timeout)
}

func TestLoadHostResolutionOrder(t *testing.T) {
	t.Setenv("REPORTOBELLO_API_KEY", "rpb_key")
	t.Setenv("REPORTOBELLO_HOST", "")
	t.Setenv("REPORTOBELLO_DOMAIN", "https://domain.example.com")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "https://domain.example.com", cfg.Host)

	t.Setenv("REPORTOBELLO_HOST", "https://host.example.com")
	cfg, err = Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "https://host.example.com", cfg.Host)
}

func TestLoadOverridesWin(t *testing.T) {
	t.Setenv("REPORTOBELLO_API_KEY", "env_key")
	t.Setenv("REPORTOBELLO_HOST", "https://env.example.com")

	cfg, err := Load(Overrides{
		Host:    "https://flag.example.com",
		APIKey:  "flag_key",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.Host)
	assert.Equal(t, "flag_key", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestReadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COMPANY=Acme\nCURRENCY=USD\n"), 0o644))

	values, err := ReadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"COMPANY": "Acme", "CURRENCY": "USD"}, values)
}

func TestReadEnvFileMissing(t *testing.T) {
	values, err := ReadEnvFile(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMergeEnvLaterLayersWin(t *testing.T) {
	merged := MergeEnv(
		map[string]string{"A": "file", "B": "file"},
		map[string]string{"B": "flag", "C": "flag"},
	)
	assert.Equal(t, map[string]string{"A": "file", "B": "flag", "C": "flag"}, merged)
}

func TestParseEnvArgs(t *testing.T) {
	vars, err := ParseEnvArgs([]string{"A=1", "B=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, vars)

	_, err = ParseEnvArgs([]string{"NOVALUE"})
	assert.Error(t, err)

	_, err = ParseEnvArgs([]string{"=v"})
	assert.Error(t, err)
}
