package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// SessionConfig controls the session cookie lifecycle.
// Stateless switches the cookie payload from an opaque store-backed token to a
// self-contained signed payload; Rolling extends the expiry on each resolve.
type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
	TTLHours   int    `mapstructure:"ttl_hours"`
	Rolling    bool   `mapstructure:"rolling"`
	Secure     bool   `mapstructure:"secure"`
	Stateless  bool   `mapstructure:"stateless"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. Environment variables prefixed with HKT_ override file values,
// e.g. HKT_SESSION_SECRET, HKT_SERVER_PORT.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		v.SetEnvPrefix("HKT")
		v.AutomaticEnv()
		// AutomaticEnv alone does not reach Unmarshal for keys absent
		// from the file; the secret is the one key that must work
		// env-only
		_ = v.BindEnv("session.secret", "HKT_SESSION_SECRET")

		v.SetDefault("server.port", 8080)
		v.SetDefault("session.cookie_name", "hkt_session")
		v.SetDefault("session.ttl_hours", 72) // 3 days
		v.SetDefault("security.bcrypt_cost", 12)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if c.Session.Secret == "" {
			err = fmt.Errorf("session.secret is required (or HKT_SESSION_SECRET)")
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
