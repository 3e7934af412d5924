package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "TUTORCALL"
	envConfigDefaultPath = "TUTORCALL_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil && logger != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else if logger != nil {
				logger.Info().Str("path", configPath).Msg("created default config")
			}
			// try reading again in case it was just written
			if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
				logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configPath, err
	}

	return cfg, configPath, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("config: max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("config: send_buffer must be positive, got %d", c.SendBuffer)
	}
	if c.JoinTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	if c.IdentityRequired && c.IdentitySecret == "" {
		return errors.New("config: identity_required needs identity_secret")
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("max_message_bytes", cfg.MaxMessageBytes)
	v.SetDefault("send_buffer", cfg.SendBuffer)
	v.SetDefault("join_timeout", cfg.JoinTimeout)
	v.SetDefault("write_timeout", cfg.WriteTimeout)
	v.SetDefault("rate_limit_per_minute", cfg.RateLimitPerMinute)
	v.SetDefault("allowed_origins", cfg.AllowedOrigins)
	v.SetDefault("identity_secret", cfg.IdentitySecret)
	v.SetDefault("identity_issuer", cfg.IdentityIssuer)
	v.SetDefault("identity_required", cfg.IdentityRequired)
	v.SetDefault("admin_password_hash", cfg.AdminPasswordHash)
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
