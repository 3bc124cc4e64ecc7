package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-e", "staging", "-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-k", "v2",
			"-w", "10", "-t", "15", "-r", "43200", "-v", "1440",
		}, expectPanic: false,
			expected: &Config{
				Environment:                       "staging",
				EndpointAddrHTTP:                  "127.0.0.1:9090",
				DatabaseDSN:                       "db",
				SecretKey:                         "secret",
				SecretKeyID:                       "v2",
				BcryptCost:                        10,
				AccessTokenValidityDuration:       15 * time.Minute,
				RefreshTokenValidityDuration:      43200 * time.Minute,
				VerificationTokenValidityDuration: 1440 * time.Minute,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
