package shared

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL  = "ATLAS_API_BASE_URL"
	EnvLogLevel = "ATLAS_LOG_LEVEL"
)

// LoadEnv loads the given dotenv files into the process environment, skipping files that do not exist.
//
// Variables already set in the environment win over file values.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides config values with ATLAS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}
