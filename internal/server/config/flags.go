package config

import (
	"flag"
	"os"
	"time"

	"github.com/listora/listora/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   environment name ("development", "staging", "production")
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-k string   secret key id ("kid" header)
//	-w int      bcrypt work factor
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-v int      verification token validity, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-a", "-d", "-s", "-k", "-w", "-t", "-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Environment, "e", config.Environment, "environment name")
	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SecretKeyID, "k", config.SecretKeyID, "secret key id")
	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt cost")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	verificationTokenValidityDuration := fs.Int("v", int(config.VerificationTokenValidityDuration.Minutes()), "verification_token_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.VerificationTokenValidityDuration = time.Duration(*verificationTokenValidityDuration) * time.Minute
}
