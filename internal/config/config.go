package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// MaxMessageBytes caps a single inbound frame. SDP offers fit comfortably in 64 KiB.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	// SendBuffer is the per-peer outbound event queue length.
	SendBuffer   int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	JoinTimeout  time.Duration `mapstructure:"join_timeout" yaml:"join_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// RateLimitPerMinute bounds inbound frames per connection; 0 disables the limit.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	// AllowedOrigins lists browser origins allowed to open /ws, as host
	// patterns ("app.example.com", "*.example.com"); a scheme prefix is
	// ignored. "*" disables the origin check.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	IdentitySecret    string `mapstructure:"identity_secret" yaml:"identity_secret"`
	IdentityIssuer    string `mapstructure:"identity_issuer" yaml:"identity_issuer"`
	IdentityRequired  bool   `mapstructure:"identity_required" yaml:"identity_required"`
	AdminPasswordHash string `mapstructure:"admin_password_hash" yaml:"admin_password_hash"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		MaxMessageBytes:    64 << 10,
		SendBuffer:         64,
		JoinTimeout:        30 * time.Second,
		WriteTimeout:       10 * time.Second,
		RateLimitPerMinute: 600,
		AllowedOrigins:     []string{"*"},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.SendBuffer != 0 {
		c.SendBuffer = other.SendBuffer
	}
	if other.JoinTimeout != 0 {
		c.JoinTimeout = other.JoinTimeout
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = other.RateLimitPerMinute
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.IdentitySecret != "" {
		c.IdentitySecret = other.IdentitySecret
	}
	if other.IdentityIssuer != "" {
		c.IdentityIssuer = other.IdentityIssuer
	}
	if other.IdentityRequired {
		c.IdentityRequired = true
	}
	if other.AdminPasswordHash != "" {
		c.AdminPasswordHash = other.AdminPasswordHash
	}
}
