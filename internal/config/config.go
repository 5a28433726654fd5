// Package config resolves client configuration and layered environment
// values. Resolution order is fixed: defaults, then the .env file, then
// process environment variables, then explicit flag/argument overrides —
// later layers win. The result is computed once per invocation and passed
// down; nothing is held as shared global state.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/reportobello/rpb/pkg/client"
	"github.com/reportobello/rpb/pkg/types"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Config is the resolved per-invocation client configuration.
type Config struct {
	Host    string
	APIKey  string
	Timeout time.Duration

	// EnvFile holds the raw .env values, used as the base layer for
	// local compile inputs.
	EnvFile map[string]string
}

// Overrides are explicit values from the command line. Empty fields fall
// through to the environment layers.
type Overrides struct {
	Host    string
	APIKey  string
	Timeout time.Duration
}

// Load resolves configuration for one invocation.
func Load(overrides Overrides) (*Config, error) {
	envFile, err := ReadEnvFile(DefaultEnvFile)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return envFile[key]
	}

	apiKey := overrides.APIKey
	if apiKey == "" {
		apiKey = lookup("REPORTOBELLO_API_KEY")
	}
	if apiKey == "" {
		return nil, types.ErrMissingAPIKey
	}

	host := overrides.Host
	if host == "" {
		host = lookup("REPORTOBELLO_HOST")
	}
	if host == "" {
		host = lookup("REPORTOBELLO_DOMAIN")
	}
	if host == "" {
		host = client.DefaultHost
	}

	timeout := overrides.Timeout
	if timeout == 0 {
		timeout = client.DefaultTimeout
	}

	return &Config{
		Host:    host,
		APIKey:  apiKey,
		Timeout: timeout,
		EnvFile: envFile,
	}, nil
}

// ReadEnvFile reads a dotenv-format file into a key/value map. A missing
// file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	values := make(map[string]string)
	for _, key := range v.AllKeys() {
		// Viper lowercases keys; dotenv keys are conventionally uppercase.
		values[strings.ToUpper(key)] = v.GetString(key)
	}
	return values, nil
}

// MergeEnv flattens layered key/value maps; later layers win.
func MergeEnv(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

// ParseEnvArgs parses repeatable KEY=VALUE arguments.
func ParseEnvArgs(args []string) (map[string]string, error) {
	vars := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env var %q, expected KEY=VALUE", arg)
		}
		vars[key] = value
	}
	return vars, nil
}
