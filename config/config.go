// Package config loads gateway settings from an optional YAML file, a .env
// file and RESUMEFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	Version   = "1.0.0"
	envPrefix = "RESUMEFLOW"
)

// Config is the full gateway configuration.
type Config struct {
	Server   Server
	Log      Log
	SNS      SNS
	Keys     Keys
	Store    Store
	Supabase Supabase
	Cache    Cache
	Redis    Redis
}

type Server struct {
	Host         string
	Port         int
	GRPCPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
	CORSOrigins  string
}

// Addr is the HTTP listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GRPCAddr is the listen address of the gRPC health service.
func (s Server) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort)
}

type Log struct {
	Level  string
	Format string
}

// SNS configures message authentication and the subscription handshake.
type SNS struct {
	TopicArn                 string
	CertTimeout              time.Duration
	ConfirmTimeout           time.Duration
	CertCacheTTL             time.Duration
	ResubscribeOnUnsubscribe bool
	Breaker                  Breaker
}

type Breaker struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MinRequests uint32
	FailureRate float64
}

// Keys describes the storage key layout uploads are written under.
type Keys struct {
	Prefixes       []string
	AnonymousToken string
}

type Store struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

type Cache struct {
	Driver string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors_origins", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sns.topic_arn", "")
	v.SetDefault("sns.cert_timeout", 5*time.Second)
	v.SetDefault("sns.confirm_timeout", 5*time.Second)
	v.SetDefault("sns.cert_cache_ttl", time.Hour)
	v.SetDefault("sns.resubscribe_on_unsubscribe", false)
	v.SetDefault("sns.breaker.max_requests", 1)
	v.SetDefault("sns.breaker.interval", time.Minute)
	v.SetDefault("sns.breaker.timeout", 30*time.Second)
	v.SetDefault("sns.breaker.min_requests", 3)
	v.SetDefault("sns.breaker.failure_rate", 0.6)

	v.SetDefault("keys.prefixes", []string{"resumes", "uploads"})
	v.SetDefault("keys.anonymous_token", "guest")

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.auto_migrate", false)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and the environment are used.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSupabaseEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			GRPCPort:     v.GetInt("server.grpc_port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
			CORSOrigins:  v.GetString("server.cors_origins"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		SNS: SNS{
			TopicArn:                 strings.TrimSpace(v.GetString("sns.topic_arn")),
			CertTimeout:              v.GetDuration("sns.cert_timeout"),
			ConfirmTimeout:           v.GetDuration("sns.confirm_timeout"),
			CertCacheTTL:             v.GetDuration("sns.cert_cache_ttl"),
			ResubscribeOnUnsubscribe: v.GetBool("sns.resubscribe_on_unsubscribe"),
			Breaker: Breaker{
				MaxRequests: v.GetUint32("sns.breaker.max_requests"),
				Interval:    v.GetDuration("sns.breaker.interval"),
				Timeout:     v.GetDuration("sns.breaker.timeout"),
				MinRequests: v.GetUint32("sns.breaker.min_requests"),
				FailureRate: v.GetFloat64("sns.breaker.failure_rate"),
			},
		},
		Keys: Keys{
			Prefixes:       v.GetStringSlice("keys.prefixes"),
			AnonymousToken: v.GetString("keys.anonymous_token"),
		},
		Store: Store{
			Driver:      v.GetString("store.driver"),
			DSN:         v.GetString("store.dsn"),
			AutoMigrate: v.GetBool("store.auto_migrate"),
		},
		Supabase: getSupabaseConfig(v),
		Cache: Cache{
			Driver: v.GetString("cache.driver"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SNS.TopicArn == "" {
		errs = append(errs, errors.New("sns.topic_arn is required"))
	} else if err := ValidateTopicArn(c.SNS.TopicArn); err != nil {
		errs = append(errs, err)
	}
	if c.SNS.CertTimeout <= 0 {
		errs = append(errs, errors.New("sns.cert_timeout must be positive"))
	}
	if c.SNS.ConfirmTimeout <= 0 {
		errs = append(errs, errors.New("sns.confirm_timeout must be positive"))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server.port must be positive"))
	}
	if c.Keys.AnonymousToken == "" {
		errs = append(errs, errors.New("keys.anonymous_token must not be empty"))
	}

	switch c.Store.Driver {
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	case "supabase":
		errs = append(errs, c.Supabase.validate()...)
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of postgres, sqlite, supabase", c.Store.Driver))
	}

	switch c.Cache.Driver {
	case "memory", "none":
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required when cache.driver is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q is not one of memory, redis, none", c.Cache.Driver))
	}
	if c.Cache.Driver != "none" && c.SNS.CertCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("sns.cert_cache_ttl must be positive when cache.driver is %q", c.Cache.Driver))
	}

	return errors.Join(errs...)
}

// ValidateTopicArn checks that s is an SNS topic ARN.
func ValidateTopicArn(s string) error {
	parsed, err := arn.Parse(s)
	if err != nil {
		return fmt.Errorf("sns.topic_arn: %w", err)
	}
	if parsed.Service != "sns" {
		return fmt.Errorf("sns.topic_arn: service is %q, want sns", parsed.Service)
	}
	if parsed.Region == "" || parsed.AccountID == "" || parsed.Resource == "" {
		return fmt.Errorf("sns.topic_arn: %q is missing region, account or topic name", s)
	}
	return nil
}
