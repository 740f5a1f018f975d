package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Attachment AttachmentConfig `mapstructure:"attachment"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Security   SecurityConfig   `mapstructure:"security"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Polling    PollingConfig    `mapstructure:"polling"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GatewayConfig holds blockchain REST gateway configuration
type GatewayConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Channel         string        `mapstructure:"channel"`
	Chaincode       string        `mapstructure:"chaincode"`
	DefaultIdentity string        `mapstructure:"default_identity"`
	DefaultOrg      string        `mapstructure:"default_org"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// AttachmentConfig holds attachment storage gateway configuration
type AttachmentConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds request-store persistence configuration
type StorageConfig struct {
	// Backend selects the persistence backend: memory, leveldb or sql
	Backend string         `mapstructure:"backend"`
	Path    string         `mapstructure:"path"`
	SQL     DatabaseConfig `mapstructure:"sql"`
}

// DatabaseConfig holds SQL backend configuration
type DatabaseConfig struct {
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	BasicAuth BasicAuthConfig `mapstructure:"basic_auth"`
}

// BasicAuthConfig holds basic authentication configuration
type BasicAuthConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Users   []BasicAuthUser `mapstructure:"users"`
}

// BasicAuthUser represents a basic auth user
type BasicAuthUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// PollingConfig holds dashboard polling configuration
type PollingConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Storage backend identifiers
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendSQL     = "sql"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MEDSECURE")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("gateway.channel", "mychannel")
	v.SetDefault("gateway.chaincode", "medsecure")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("attachment.timeout", 60*time.Second)
	v.SetDefault("storage.backend", BackendLevelDB)
	v.SetDefault("storage.path", "data/medsecure")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("polling.enabled", true)
	v.SetDefault("polling.interval", 30*time.Second)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base URL is required")
	}

	if config.Gateway.DefaultIdentity == "" {
		return fmt.Errorf("gateway default identity is required")
	}

	if config.Attachment.BaseURL == "" {
		return fmt.Errorf("attachment gateway base URL is required")
	}

	switch config.Storage.Backend {
	case BackendMemory:
	case BackendLevelDB:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the leveldb backend")
		}
	case BackendSQL:
		if config.Storage.SQL.Hostname == "" {
			return fmt.Errorf("database hostname is required for the sql backend")
		}
		if config.Storage.SQL.Database == "" {
			return fmt.Errorf("database name is required for the sql backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
	}

	if config.Polling.Enabled && config.Polling.Interval <= 0 {
		return fmt.Errorf("polling interval must be positive")
	}

	return nil
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// IsBasicAuthEnabled returns whether basic auth is enabled
func (s *SecurityConfig) IsBasicAuthEnabled() bool {
	return s.BasicAuth.Enabled
}

// ValidateUser validates basic auth credentials
func (s *SecurityConfig) ValidateUser(username, password string) bool {
	for _, user := range s.BasicAuth.Users {
		if user.Username == username && user.Password == password {
			return true
		}
	}
	return false
}
