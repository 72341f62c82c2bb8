package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"

	minProviderTimeout = 100 * time.Millisecond
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required,oneof=development staging production"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	// Providers holds one profile per external quote provider, keyed by name.
	Providers map[string]ProviderProfile `yaml:"providers" validate:"required,min=1,dive"`

	Resolver struct {
		Provider     string        `yaml:"provider" default:"fmp" validate:"required"`
		Concurrency  int           `yaml:"concurrency" default:"1" validate:"min=1"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"0s"`
	} `yaml:"resolver"`

	Cache struct {
		Backend string `yaml:"backend" default:"redis" validate:"oneof=redis memory layered"`
		Redis   struct {
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"6379"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			PoolSize     int           `yaml:"pool_size" default:"10"`
			MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
			PoolTimeout  time.Duration `yaml:"pool_timeout" default:"4s"`
			Prefix       string        `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			MaxSize         int           `yaml:"max_size" default:"10000"`
			CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1m"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Postgres struct {
		DSN             string        `yaml:"dsn"`
		Host            string        `yaml:"host" default:"localhost"`
		Port            int           `yaml:"port" default:"5432"`
		User            string        `yaml:"user" default:"postgres"`
		Password        string        `yaml:"password"`
		Database        string        `yaml:"database" default:"service_p"`
		SSLMode         string        `yaml:"ssl_mode" default:"disable"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
		MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
		AutoMigrate     bool          `yaml:"auto_migrate" default:"true"`
	} `yaml:"postgres"`

	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Brokers      []string      `yaml:"brokers" validate:"required,min=1"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"10ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		// AutoCreateTopics lets the writer create the analysis topics on first send.
		AutoCreateTopics bool `yaml:"auto_create_topics"`
	} `yaml:"kafka"`

	Publisher struct {
		Topic      string        `yaml:"topic" default:"ticker-analysis" validate:"required"`
		DLTTopic   string        `yaml:"dlt_topic" default:"ticker-analysis-dlt" validate:"required"`
		MaxRetries int           `yaml:"max_retries" default:"3" validate:"min=1"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"1s"`
		// FaultInjectionTicker fails every envelope carrying this ticker. Never allowed in production.
		FaultInjectionTicker string `yaml:"fault_injection_ticker"`
	} `yaml:"publisher"`
}

// ProviderProfile describes how to reach one external quote provider.
type ProviderProfile struct {
	Name                      string        `yaml:"-"`
	BaseURL                   string        `yaml:"base_url" validate:"required,url"`
	APIKey                    string        `yaml:"api_key"`
	APIKeyParam               string        `yaml:"api_key_param" default:"apikey"`
	ResourcePath              string        `yaml:"resource_path" validate:"required"`
	MaxRetries                int           `yaml:"max_retries" default:"3" validate:"min=0"`
	RetryDelay                time.Duration `yaml:"retry_delay" default:"500ms"`
	Timeout                   time.Duration `yaml:"timeout" default:"5s"`
	StalenessThresholdMinutes int           `yaml:"staleness_threshold_minutes" default:"15" validate:"min=0"`
	RateLimit                 struct {
		Capacity        float64 `yaml:"capacity" validate:"omitempty,min=1"`
		RefillPerSecond float64 `yaml:"refill_per_second" validate:"min=0"`
	} `yaml:"rate_limit"`
}

// UnmarshalYAML applies profile defaults before decoding so explicit zero values survive.
func (p *ProviderProfile) UnmarshalYAML(node *yaml.Node) error {
	type rawProfile ProviderProfile
	var raw rawProfile
	if err := defaults.Set(&raw); err != nil {
		return err
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = ProviderProfile(raw)
	return nil
}

// StalenessThreshold is the maximum age of a stored record considered fresh.
func (p ProviderProfile) StalenessThreshold() time.Duration {
	return time.Duration(p.StalenessThresholdMinutes) * time.Minute
}

// Profile looks up a provider profile by name.
func (c *Config) Profile(name string) (ProviderProfile, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return ProviderProfile{}, false
	}
	p.Name = name
	return p, true
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Parse decodes YAML bytes on top of the defaults without validating.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for name, p := range c.Providers {
		p.Name = name
		c.Providers[name] = p
	}
	return &c, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		if p, ok := c.Providers["fmp"]; ok {
			p.APIKey = v
			c.Providers["fmp"] = p
		}
	}
	if v := os.Getenv("RESOLVER_PROVIDER"); v != "" {
		c.Resolver.Provider = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			if n, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = n
			}
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, ok := c.Providers[c.Resolver.Provider]; !ok {
		return fmt.Errorf("resolver.provider %q has no entry under providers", c.Resolver.Provider)
	}
	for name, p := range c.Providers {
		if p.Timeout < minProviderTimeout {
			return fmt.Errorf("providers.%s.timeout must be at least %s, got %s", name, minProviderTimeout, p.Timeout)
		}
		if p.RetryDelay < 0 {
			return fmt.Errorf("providers.%s.retry_delay cannot be negative", name)
		}
	}

	if c.Publisher.RetryDelay < 0 {
		return fmt.Errorf("publisher.retry_delay cannot be negative")
	}
	if c.Publisher.Topic == c.Publisher.DLTTopic {
		return fmt.Errorf("publisher.dlt_topic must differ from publisher.topic")
	}
	if c.Publisher.FaultInjectionTicker != "" && c.Environment == EnvProduction {
		return fmt.Errorf("publisher.fault_injection_ticker is not allowed in production")
	}
	return nil
}
