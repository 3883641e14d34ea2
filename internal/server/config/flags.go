package config

import (
	"flag"
	"os"

	"github.com/vkarpenko/regauth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-s string     session HMAC secret key
//	-v duration   session validity (e.g., "24h")
//	-m int        max active API tokens per user
//	-r string     Redis address (empty disables the membership cache)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-v", "-m", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")
	fs.DurationVar(&config.SessionValidity, "v", config.SessionValidity, "session validity duration")
	fs.Int64Var(&config.MaxTokensPerUser, "m", config.MaxTokensPerUser, "max active API tokens per user")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
