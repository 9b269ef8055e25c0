package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-n string         network: local or ic
//	-canister string  workspace service canister id
//	-i int            online check interval (seconds)
//	-chunk int        upload chunk size (bytes)
//	-keystore string  identity keystore directory
//	-log-level string debug, info, warn or error
//
// Only these flags are read from os.Args, via flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-canister", "-i", "-chunk", "-keystore", "-log-level"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Network, "n", cfg.Network, "network: local or ic")
	fs.StringVar(&cfg.CanisterID, "canister", cfg.CanisterID, "workspace service canister id")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "upload chunk size (in bytes)")
	fs.StringVar(&cfg.KeystoreDir, "keystore", cfg.KeystoreDir, "identity keystore directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
