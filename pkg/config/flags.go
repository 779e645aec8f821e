package config

import (
	"flag"
	"os"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   credential sealing secret
//	-u string   public base URL for confirmation links
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Secret, "s", config.Secret, "credential sealing secret")
	fs.StringVar(&config.BaseURL, "u", config.BaseURL, "public base URL")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}
}
