package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	Ledger     LedgerConfig    `mapstructure:"ledger"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Bootstrap  BootstrapConfig `mapstructure:"bootstrap"`
	Audit      AuditConfig     `mapstructure:"audit"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

// LedgerConfig lists the external ledger nodes the gateway may instruct.
type LedgerConfig struct {
	Nodes []LedgerNodeConfig `mapstructure:"nodes"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

type LedgerNodeConfig struct {
	Name             string        `mapstructure:"name"`
	Enabled          bool          `mapstructure:"enabled"`
	BaseURL          string        `mapstructure:"base_url"`
	TransferFromPath string        `mapstructure:"transfer_from_path"`
	TransferPath     string        `mapstructure:"transfer_path"`
	TimeoutMs        int           `mapstructure:"timeout_ms"`
	Breaker          BreakerConfig `mapstructure:"breaker"`
}

type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

// BootstrapConfig seeds the singleton settings row on migrate/seed.
type BootstrapConfig struct {
	Owner           string `mapstructure:"owner"`
	FeeReceiver     string `mapstructure:"fee_receiver"`
	PerRecipientFee int64  `mapstructure:"per_recipient_fee"`
	MinimumFee      int64  `mapstructure:"minimum_fee"`
}

type AuditConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
	BatchWait int `mapstructure:"batch_wait_ms"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (MSND_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (MSND_*)
	v.SetEnvPrefix("MSND")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
