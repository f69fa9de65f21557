package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all process-wide settings. It is built once in main and passed
// to whatever needs it; nothing in this package keeps global state.
type Config struct {
	EnvState                 string // dev, prod or test
	DatabaseURL              string
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
}

// Load reads configuration from the environment. ENV_STATE selects the tier,
// and every setting is first looked up with the tier prefix (DEV_, PROD_,
// TEST_) before falling back to the bare name, so one .env file can carry
// several environments side by side.
func Load() *Config {
	env := os.Getenv("ENV_STATE")
	if env == "" {
		env = "dev"
	}
	prefix := strings.ToUpper(env) + "_"

	cfg := &Config{
		EnvState:                 env,
		DatabaseURL:              getenv(prefix, "DATABASE_URL"),
		SecretKey:                getenv(prefix, "SECRET_KEY"),
		Algorithm:                getenv(prefix, "ALGORITHM"),
		AccessTokenExpireMinutes: getenvInt(prefix, "ACCESS_TOKEN_EXPIRE_MINUTES", 30),
	}

	if cfg.Algorithm == "" {
		cfg.Algorithm = "HS256"
	}

	// The test tier runs without any environment at all.
	if env == "test" {
		if cfg.SecretKey == "" {
			cfg.SecretKey = "test-secret-key"
		}
		cfg.AccessTokenExpireMinutes = getenvInt(prefix, "ACCESS_TOKEN_EXPIRE_MINUTES", 1)
	}

	return cfg
}

func getenv(prefix, key string) string {
	if v := os.Getenv(prefix + key); v != "" {
		return v
	}
	return os.Getenv(key)
}

func getenvInt(prefix, key string, fallback int) int {
	v := getenv(prefix, key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
