package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/listora/listora/internal/flagx"
	"github.com/listora/listora/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	Environment                       string         `json:"environment"`
	EndpointAddrHTTP                  string         `json:"endpoint_addr_http"`
	DatabaseDSN                       string         `json:"database_dsn"`
	SecretKey                         string         `json:"secret_key"`
	SecretKeyID                       string         `json:"secret_key_id"`
	BcryptCost                        int            `json:"bcrypt_cost"`
	AccessTokenValidityDuration       timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration      timex.Duration `json:"refresh_token_validity_duration"`
	VerificationTokenValidityDuration timex.Duration `json:"verification_token_validity_duration"`
	TokenSweepInterval                timex.Duration `json:"token_sweep_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.Environment = c.Environment
	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SecretKeyID = c.SecretKeyID
	config.BcryptCost = c.BcryptCost
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.VerificationTokenValidityDuration = time.Duration(c.VerificationTokenValidityDuration.Duration)
	config.TokenSweepInterval = time.Duration(c.TokenSweepInterval.Duration)
}
