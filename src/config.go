package src

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DEFAULT_HOST       = "127.0.0.1"
	DEFAULT_PORT       = 10101
	MIN_PORT           = 1000
	MAX_PORT           = 40000
	ENV_PREFIX         = "GOHTTP"
	MAX_FILE_SEND_SIZE = 1000 * 1000 * 100
	READ_TIMEOUT       = 10 * time.Second
)

// Config holds the server settings.
type Config struct {
	Host        string
	Port        int
	Location    string
	MaxFileSize int64
	ReadTimeout time.Duration
	Logger      *LoggerConfig
}

// LoggerConfig logger config struct
type LoggerConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DEFAULT_HOST)
	v.SetDefault("server.port", DEFAULT_PORT)
	v.SetDefault("server.location", ".")
	v.SetDefault("server.max_file_size", MAX_FILE_SEND_SIZE)
	v.SetDefault("server.read_timeout", READ_TIMEOUT)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadConfig reads the optional config file and builds a validated Config.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Host:        v.GetString("server.host"),
		Port:        v.GetInt("server.port"),
		Location:    v.GetString("server.location"),
		MaxFileSize: v.GetInt64("server.max_file_size"),
		ReadTimeout: v.GetDuration("server.read_timeout"),
		Logger:      getLoggerConfig(v),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getLoggerConfig(v *viper.Viper) *LoggerConfig {
	return &LoggerConfig{
		Level:  v.GetString("logger.level"),
		Format: v.GetString("logger.format"),
	}
}

// Validate checks the port range and resolves Location to an existing
// absolute path.
func (cfg *Config) Validate() error {
	if cfg.Port < MIN_PORT || cfg.Port > MAX_PORT {
		return fmt.Errorf("provided port %d not in valid range, requires %d<PORT<%d", cfg.Port, MIN_PORT, MAX_PORT)
	}

	if cfg.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", cfg.MaxFileSize)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}

	if _, err := os.Stat(cfg.Location); err != nil {
		return fmt.Errorf("while looking for path %s: %w", cfg.Location, err)
	}

	loc, err := filepath.Abs(cfg.Location)
	if err != nil {
		return fmt.Errorf("resolve location %s: %w", cfg.Location, err)
	}
	cfg.Location = loc

	return nil
}

func (cfg *Config) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
