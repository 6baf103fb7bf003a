package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Simulator SimulatorConfig
	Redis     RedisConfig
	Auth      AuthConfig
	JWT       JWTConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	LogPretty bool
	BodyLimit int // bytes
}

// IsDevelopment reports whether the server runs in the development
// environment
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type SimulatorConfig struct {
	Binary  string
	WorkDir string
	Timeout int // seconds, 0 disables
}

// TimeoutDuration returns the subprocess timeout, or 0 when disabled
func (c *SimulatorConfig) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout) * time.Second
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled bool
}

type JWTConfig struct {
	Secret string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables
	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.log_pretty", "LOG_PRETTY")
	_ = v.BindEnv("server.body_limit", "BODY_LIMIT")
	_ = v.BindEnv("simulator.binary", "SIMULATOR_BINARY")
	_ = v.BindEnv("simulator.work_dir", "SIMULATOR_WORK_DIR")
	_ = v.BindEnv("simulator.timeout", "SIMULATOR_TIMEOUT")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("auth.enabled", "AUTH_ENABLED")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	// Defaults
	v.SetDefault("server.port", "3002")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_pretty", false)
	v.SetDefault("server.body_limit", 8*1024*1024)
	v.SetDefault("simulator.binary", "qpp-agent")
	v.SetDefault("simulator.work_dir", os.TempDir())
	v.SetDefault("simulator.timeout", 300)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("jwt.secret", "change-me-in-production")

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("server.port"),
			Env:       v.GetString("server.env"),
			LogLevel:  v.GetString("server.log_level"),
			LogPretty: v.GetBool("server.log_pretty"),
			BodyLimit: v.GetInt("server.body_limit"),
		},
		Simulator: SimulatorConfig{
			Binary:  v.GetString("simulator.binary"),
			WorkDir: v.GetString("simulator.work_dir"),
			Timeout: v.GetInt("simulator.timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Enabled: v.GetBool("auth.enabled"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
	}

	return cfg, nil
}
