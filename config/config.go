// Package config loads the service settings with viper: defaults, an
// optional config file, an optional .env file and FOODBOOK_* environment
// variables, later sources winning.
package config

import (
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/middleware/jwtware"
)

// EnvPrefix namespaces the environment overrides, FOODBOOK_AUTH_SIGNING_KEY
// sets auth.signing_key.
const EnvPrefix = "FOODBOOK"

// TextCodeInvalidConfig marks every load and validation failure
const TextCodeInvalidConfig = "INVALID_CONFIG"

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// BodyLimit is in bytes and must leave room for a cover upload
	BodyLimit int `mapstructure:"body_limit"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	Debug       bool   `mapstructure:"debug"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// AuthConfig implements foodbook.Config
type AuthConfig struct {
	SigningKey      string   `mapstructure:"signing_key"`
	TokenExpiration int      `mapstructure:"token_expiration"`
	ContextKey      string   `mapstructure:"context_key"`
	TokenLookup     string   `mapstructure:"token_lookup"`
	AuthScheme      string   `mapstructure:"auth_scheme"`
	APIPrefix       string   `mapstructure:"api_prefix"`
	PublicPrefixes  []string `mapstructure:"public_prefixes"`
	LoginPath       string   `mapstructure:"login_path"`
	HomePath        string   `mapstructure:"home_path"`
	SecureCookies   bool     `mapstructure:"secure_cookies"`
	// PasswordCost is the bcrypt cost, 0 picks the build default
	PasswordCost int `mapstructure:"password_cost"`
}

var _ foodbook.Config = AuthConfig{}

func (a AuthConfig) GetSigningKey() string       { return a.SigningKey }
func (a AuthConfig) GetTokenExpiration() int     { return a.TokenExpiration }
func (a AuthConfig) GetContextKey() string       { return a.ContextKey }
func (a AuthConfig) GetTokenLookup() string      { return a.TokenLookup }
func (a AuthConfig) GetAuthScheme() string       { return a.AuthScheme }
func (a AuthConfig) GetAPIPrefix() string        { return a.APIPrefix }
func (a AuthConfig) GetPublicPrefixes() []string { return a.PublicPrefixes }
func (a AuthConfig) GetLoginPath() string        { return a.LoginPath }
func (a AuthConfig) GetHomePath() string         { return a.HomePath }
func (a AuthConfig) GetSecureCookies() bool      { return a.SecureCookies }

type StorageConfig struct {
	Driver   string   `mapstructure:"driver"`
	LocalDir string   `mapstructure:"local_dir"`
	S3       S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Prefix       string `mapstructure:"prefix"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns a config that runs locally once a signing key is set
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       6 << 20,
		},
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "file:foodbook.db?cache=shared",
			AutoMigrate: true,
		},
		Auth: AuthConfig{
			TokenExpiration: 24,
			ContextKey:      "user",
			TokenLookup:     jwtware.DefaultTokenLookup,
			AuthScheme:      jwtware.DefaultAuthScheme,
			APIPrefix:       foodbook.DefaultAPIPrefix,
			PublicPrefixes:  append([]string(nil), foodbook.DefaultPublicPrefixes...),
			LoginPath:       foodbook.DefaultLoginPath,
			HomePath:        foodbook.DefaultHomePath,
		},
		Storage: StorageConfig{
			Driver:   StorageLocal,
			LocalDir: "./uploads",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the config. path is an optional config file in any format
// viper reads, envFiles are optional dotenv files; ".env" is tried when
// none is given. Variables already set in the process environment win
// over dotenv values.
func Load(path string, envFiles ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, configError(err, "failed to read config file")
		}
	}

	if err := loadDotenv(envFiles); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, configError(err, "failed to decode config")
	}
	cfg.tidy()

	if err := cfg.Validate(); err != nil {
		return nil, configError(err, "invalid config")
	}

	return cfg, nil
}

// setDefaults registers every key, AutomaticEnv only resolves keys viper
// already knows about.
func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.debug", d.Database.Debug)
	v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)

	v.SetDefault("auth.signing_key", d.Auth.SigningKey)
	v.SetDefault("auth.token_expiration", d.Auth.TokenExpiration)
	v.SetDefault("auth.context_key", d.Auth.ContextKey)
	v.SetDefault("auth.token_lookup", d.Auth.TokenLookup)
	v.SetDefault("auth.auth_scheme", d.Auth.AuthScheme)
	v.SetDefault("auth.api_prefix", d.Auth.APIPrefix)
	v.SetDefault("auth.public_prefixes", d.Auth.PublicPrefixes)
	v.SetDefault("auth.login_path", d.Auth.LoginPath)
	v.SetDefault("auth.home_path", d.Auth.HomePath)
	v.SetDefault("auth.secure_cookies", d.Auth.SecureCookies)
	v.SetDefault("auth.password_cost", d.Auth.PasswordCost)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.local_dir", d.Storage.LocalDir)
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.use_path_style", false)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// tidy drops blank list items and stray whitespace that comma separated
// environment values tend to carry.
func (c *Config) tidy() {
	prefixes := make([]string, 0, len(c.Auth.PublicPrefixes))
	for _, p := range c.Auth.PublicPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	c.Auth.PublicPrefixes = prefixes

	c.Auth.SigningKey = strings.TrimSpace(c.Auth.SigningKey)
	c.Storage.S3.AccessKey = strings.TrimSpace(c.Storage.S3.AccessKey)
	c.Storage.S3.SecretKey = strings.TrimSpace(c.Storage.S3.SecretKey)
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return configError(err, "failed to load env file")
	}
	return nil
}

func configError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, msg).
		WithTextCode(TextCodeInvalidConfig)
}

// Validate checks every section
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Auth),
		validation.Field(&c.Storage),
		validation.Field(&c.Log),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.WriteTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.ShutdownTimeout, validation.Required),
		validation.Field(&s.BodyLimit, validation.Required, validation.Min(1<<20)),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In("sqlite", "sqlite3", "postgres", "postgresql")),
		validation.Field(&d.DSN, validation.Required),
	)
}

func (a AuthConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&a.TokenExpiration, validation.Required, validation.Min(1)),
		validation.Field(&a.TokenLookup, validation.Required),
		validation.Field(&a.APIPrefix, validation.Required),
		validation.Field(&a.LoginPath, validation.Required),
		validation.Field(&a.HomePath, validation.Required),
		validation.Field(&a.PasswordCost, validation.Min(0), validation.Max(31)),
	)
}

func (s StorageConfig) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required, validation.In(StorageLocal, StorageS3)),
	)
	if err != nil {
		return err
	}

	switch s.Driver {
	case StorageS3:
		return s.S3.Validate()
	default:
		return validation.Errors{
			"local_dir": validation.Validate(s.LocalDir, validation.Required),
		}.Filter()
	}
}

func (s S3Config) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Bucket, validation.Required),
		validation.Field(&s.Region, validation.Required),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "text")),
	)
}
