package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort: 8080,
		JWTSecret:  strings.Repeat("s", MinJWTSecretLength),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "zero port",
			mutate:    func(c *Config) { c.ServerPort = 0 },
			expectErr: "Fatal error: invalid server port",
		},
		{
			name:      "negative port",
			mutate:    func(c *Config) { c.ServerPort = -1 },
			expectErr: "Fatal error: invalid server port",
		},
		{
			name:      "missing jwt secret",
			mutate:    func(c *Config) { c.JWTSecret = "" },
			expectErr: "Fatal error: JWT_SECRET must be at least 32 bytes",
		},
		{
			name:      "short jwt secret",
			mutate:    func(c *Config) { c.JWTSecret = "too-short" },
			expectErr: "Fatal error: JWT_SECRET must be at least 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}
