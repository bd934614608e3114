package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Ebay     EbayConfig     `mapstructure:"ebay"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	Port      int    `mapstructure:"port"`
	Env       string `mapstructure:"env"`
	ClientURL string `mapstructure:"client_url"`
}

// EbayConfig stores the eBay developer application credentials.
// RuName is the redirect identifier registered in the developer portal;
// eBay expects it (not the callback URL) as the redirect_uri parameter.
type EbayConfig struct {
	AppID             string        `mapstructure:"app_id"`
	CertID            string        `mapstructure:"cert_id"`
	ClientSecret      string        `mapstructure:"client_secret"`
	RuName            string        `mapstructure:"ru_name"`
	RedirectURL       string        `mapstructure:"redirect_url"`
	Sandbox           bool          `mapstructure:"sandbox"`
	Timeout           time.Duration `mapstructure:"timeout"`
	VerificationToken string        `mapstructure:"verification_token"`
}

// Validate reports missing credentials. Called once at startup so a
// misconfigured deployment fails fast instead of per-request.
func (e *EbayConfig) Validate() error {
	if e.AppID == "" {
		return fmt.Errorf("ebay.app_id is required")
	}
	if e.ClientSecret == "" {
		return fmt.Errorf("ebay.client_secret is required")
	}
	if e.RuName == "" {
		return fmt.Errorf("ebay.ru_name is required")
	}
	return nil
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type OAuthConfig struct {
	StateTTLMinutes        int `mapstructure:"state_ttl_minutes"`
	CleanupIntervalMinutes int `mapstructure:"cleanup_interval_minutes"`
}

// StateTTL returns how long a pending login state stays valid.
func (o *OAuthConfig) StateTTL() time.Duration {
	if o.StateTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(o.StateTTLMinutes) * time.Minute
}

// CleanupInterval returns the period of the expired-token sweep.
func (o *OAuthConfig) CleanupInterval() time.Duration {
	if o.CleanupIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(o.CleanupIntervalMinutes) * time.Minute
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeout to duration
	cfg.Ebay.Timeout = cfg.Ebay.Timeout * time.Second
	if cfg.Ebay.Timeout <= 0 {
		cfg.Ebay.Timeout = 30 * time.Second
	}

	if err := cfg.Ebay.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
