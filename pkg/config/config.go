package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvironmentDevelopment = "development"
	// EnvironmentTest also enables the /test fixture routes.
	EnvironmentTest = "test"
)

// Password hashing algorithms accepted by PasswordHashAlgorithm.
const (
	PasswordHashBcrypt   = "bcrypt"
	PasswordHashArgon2id = "argon2id"
)

type Config struct {
	Environment string `koanf:"environment"`
	Hostname    string `koanf:"-"`
	ServerHost  string `koanf:"server_host"`
	ServerPort  int    `koanf:"server_port" default:"3689"`

	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`

	JWTSecret             string        `koanf:"jwt_secret"`
	SessionExpiry         time.Duration `koanf:"session_expiry" default:"168h"`
	PasswordHashAlgorithm string        `koanf:"password_hash_algorithm" default:"bcrypt"`

	// RedisURL enables the page cache. Leaving it empty disables caching.
	RedisURL     string        `koanf:"redis_url"`
	PageCacheTTL time.Duration `koanf:"page_cache_ttl" default:"10m"`

	UploadBaseURL          string        `koanf:"upload_base_url" default:"https://api.cloudinary.com/v1_1"`
	CloudinaryCloudName    string        `koanf:"cloudinary_cloud_name"`
	CloudinaryUploadPreset string        `koanf:"cloudinary_upload_preset"`
	UploadMaxBytes         int64         `koanf:"upload_max_bytes" default:"10485760"`
	UploadTimeout          time.Duration `koanf:"upload_timeout" default:"60s"`
}

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/ayokitanulis.yaml"
)

// requiredKeys are validated after every source has been loaded.
var requiredKeys = []struct {
	key   string
	value func(*Config) string
}{
	{"database_file_path", func(c *Config) string { return c.DatabaseFilePath }},
	{"jwt_secret", func(c *Config) string { return c.JWTSecret }},
}

// New loads the config from struct defaults, then the YAML config file (if it
// exists), then environment variables. Later sources win.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	if cfg.Environment == EnvironmentDevelopment {
		loadDevelopmentConfig(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	for _, r := range requiredKeys {
		if r.value(cfg) == "" {
			return errors.Errorf("missing required config: %s (%s)", strings.ToUpper(r.key), r.key)
		}
	}

	switch cfg.PasswordHashAlgorithm {
	case PasswordHashBcrypt, PasswordHashArgon2id:
	default:
		return errors.Errorf("invalid password_hash_algorithm %q", cfg.PasswordHashAlgorithm)
	}

	if cfg.UploadMaxBytes <= 0 {
		return errors.New("upload_max_bytes must be positive")
	}

	return nil
}

// UploadsEnabled reports whether the hosted upload endpoint is configured.
func (cfg *Config) UploadsEnabled() bool {
	return cfg.CloudinaryCloudName != "" && cfg.CloudinaryUploadPreset != ""
}

// UploadEndpoint is the unsigned upload URL for the configured cloud.
func (cfg *Config) UploadEndpoint() string {
	return fmt.Sprintf("%s/%s/upload", strings.TrimSuffix(cfg.UploadBaseURL, "/"), cfg.CloudinaryCloudName)
}
