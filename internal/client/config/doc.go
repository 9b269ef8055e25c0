// Package config loads runtime configuration for the workspace client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are read as YAML, anything else as JSON.
//  3. A .env file in the working directory (godotenv) and the process
//     environment (go-env struct tags). Real environment variables win.
//  4. Command-line flags, which override everything else.
//
// # Config file
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "network": "local",
//	  "canister_id": "bkyz2-fmaaa-aaaaa-qaaaq-cai",
//	  "chunk_size": 1048576,
//	  "call_timeout": "30s",
//	  "s3": {"region": "eu-central-1", "use_path_style": true}
//	}
//
// # Environment
//
// DFX_NETWORK and CANISTER_ID_ZERO_OS_BACKEND select the network and the
// service; ZEROOS_* variables cover the rest (see Config struct tags).
//
// LoadConfig panics on unreadable files, malformed values, or failed
// validation.
package config
