package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotfile probed for environment variables.
const DefaultEnvFile = ".env"

// LoadEnv loads key/value pairs from the given dotfile into the process
// environment. Variables already set in the environment are never
// overwritten, and a missing file is not an error: the process
// environment alone then supplies the configuration.
func LoadEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
