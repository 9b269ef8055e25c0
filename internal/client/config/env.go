package config

import (
	"errors"
	"io/fs"
	"os"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// environ is a test seam for os.Environ.
var environ = os.Environ

// parseEnv overlays cfg with variables from the dotenv file (if present) and
// the process environment. Real environment variables win over the file.
// Unset variables leave fields untouched.
func parseEnv(cfg *Config, dotEnvPath string) {
	es := env.EnvSet{}

	if dotEnvPath != "" {
		fileVars, err := godotenv.Read(dotEnvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		for k, v := range fileVars {
			es[k] = v
		}
	}

	procVars, err := env.EnvironToEnvSet(environ())
	if err != nil {
		panic(err)
	}
	for k, v := range procVars {
		es[k] = v
	}

	if err := env.Unmarshal(es, cfg); err != nil {
		panic(err)
	}
}
