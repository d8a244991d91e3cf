package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shine-music/shine-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g., "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g., "10m"
	// ReplicaDSNs are optional read replicas; reads fall back to the primary when a row is missing
	ReplicaDSNs []string `mapstructure:"replica_dsns"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// ChainConfig holds the Shine contract and RPC provider configuration
type ChainConfig struct {
	ChainID         domain.Chain `mapstructure:"chain_id"`
	ContractAddress string       `mapstructure:"contract_address"`
	WebSocketURL    string       `mapstructure:"websocket_url"`
	// RPCURLs are HTTP endpoints in priority order; the pool re-ranks them by latency
	RPCURLs              []string      `mapstructure:"rpc_urls"`
	StartBlock           uint64        `mapstructure:"start_block"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	ProbeTimeout         time.Duration `mapstructure:"probe_timeout"`
	ProbeInterval        time.Duration `mapstructure:"probe_interval"`
	MaxCallAttempts      int           `mapstructure:"max_call_attempts"`
	// RPCRequestsPerSecond caps calls per provider, shared across replicas when Redis is set
	RPCRequestsPerSecond int `mapstructure:"rpc_requests_per_second"`
	RPCBurst             int `mapstructure:"rpc_burst"`
}

// AggregatorConfig holds the read-path view settings
type AggregatorConfig struct {
	LookbackBlocks     uint64        `mapstructure:"lookback_blocks"`
	TopSongsCap        int           `mapstructure:"top_songs_cap"`
	MetadataBatchSize  int           `mapstructure:"metadata_batch_size"`
	BatchDelay         time.Duration `mapstructure:"batch_delay"`
	MetadataTimeout    time.Duration `mapstructure:"metadata_timeout"`
	LogQueryDelay      time.Duration `mapstructure:"log_query_delay"`
	RecentFallbackScan int           `mapstructure:"recent_fallback_scan"`
	ArtistFallbackScan int           `mapstructure:"artist_fallback_scan"`
	MaxLimit           int           `mapstructure:"max_limit"`
	MetadataCacheSize  int           `mapstructure:"metadata_cache_size"`
	MetadataCacheTTL   time.Duration `mapstructure:"metadata_cache_ttl"`
}

// RedisConfig holds the view cache and rate limit configuration.
// Redis is optional; an empty Addr disables both features.
type RedisConfig struct {
	Addr               string        `mapstructure:"addr"`
	Password           string        `mapstructure:"password"`
	DB                 int           `mapstructure:"db"`
	ViewTTL            time.Duration `mapstructure:"view_ttl"`
	WarmSchedule       string        `mapstructure:"warm_schedule"`
	WarmLimit          int           `mapstructure:"warm_limit"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSOrigins lists allowed browser origins; empty allows any
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// EmitterConfig holds configuration for purchase-event-emitter
type EmitterConfig struct {
	BaseConfig      `mapstructure:",squash"`
	Database        DatabaseConfig `mapstructure:"database"`
	NATS            NATSConfig     `mapstructure:"nats"`
	Chain           ChainConfig    `mapstructure:"chain"`
	CursorSaveFreq  uint64         `mapstructure:"cursor_save_freq"`
	CursorSaveDelay time.Duration  `mapstructure:"cursor_save_delay"`
}

// EventBridgeConfig holds configuration for event-bridge
type EventBridgeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

// LoadEmitterConfig loads configuration for purchase-event-emitter
func LoadEmitterConfig(configFile string, envPath string) (*EmitterConfig, error) {
	v := configureViper("purchase-event-emitter", configFile, envPath)

	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setChainDefaults(v)
	v.SetDefault("nats.connection_name", "purchase-event-emitter")
	v.SetDefault("cursor_save_freq", 2)
	v.SetDefault("cursor_save_delay", "30s")

	var cfg EmitterConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.Chain.WebSocketURL == "" {
		return nil, errors.New("chain.websocket_url is required")
	}
	if cfg.Chain.ContractAddress == "" {
		return nil, errors.New("chain.contract_address is required")
	}

	return &cfg, nil
}

// LoadEventBridgeConfig loads configuration for event-bridge
func LoadEventBridgeConfig(configFile string, envPath string) (*EventBridgeConfig, error) {
	v := configureViper("event-bridge", configFile, envPath)

	setDatabaseDefaults(v)
	setNATSDefaults(v)
	v.SetDefault("nats.connection_name", "event-bridge")
	v.SetDefault("nats.consumer_name", "event-bridge")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("worker.pool_size", 8)
	v.SetDefault("worker.queue_size", 256)

	var cfg EventBridgeConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	setChainDefaults(v)
	v.SetDefault("aggregator.lookback_blocks", 10000)
	v.SetDefault("aggregator.top_songs_cap", 100)
	v.SetDefault("aggregator.metadata_batch_size", 5)
	v.SetDefault("aggregator.batch_delay", "150ms")
	v.SetDefault("aggregator.metadata_timeout", "5s")
	v.SetDefault("aggregator.log_query_delay", "200ms")
	v.SetDefault("aggregator.recent_fallback_scan", 50)
	v.SetDefault("aggregator.artist_fallback_scan", 25)
	v.SetDefault("aggregator.max_limit", 50)
	v.SetDefault("aggregator.metadata_cache_size", 1024)
	v.SetDefault("aggregator.metadata_cache_ttl", "5m")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.view_ttl", "30s")
	v.SetDefault("redis.warm_schedule", "@every 1m")
	v.SetDefault("redis.warm_limit", 10)
	v.SetDefault("redis.rate_limit_per_minute", 120)

	var cfg APIConfig
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Chain.RPCURLs) == 0 {
		return nil, errors.New("chain.rpc_urls is required")
	}
	if cfg.Chain.ContractAddress == "" {
		return nil, errors.New("chain.contract_address is required")
	}

	return &cfg, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "SHINE_EVENTS")
}

func setChainDefaults(v *viper.Viper) {
	v.SetDefault("chain.chain_id", string(domain.ChainBaseMainnet))
	v.SetDefault("chain.block_head_ttl", "2s")
	v.SetDefault("chain.block_head_stale_window", "1m")
	v.SetDefault("chain.probe_timeout", "3s")
	v.SetDefault("chain.probe_interval", "30s")
	v.SetDefault("chain.max_call_attempts", 3)
	v.SetDefault("chain.rpc_requests_per_second", 25)
}

// readAndUnmarshal reads the config file (optional) and decodes it into out
func readAndUnmarshal(v *viper.Viper, out any) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("SHINE_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.replica_dsns",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Chain
		"chain.chain_id",
		"chain.contract_address",
		"chain.websocket_url",
		"chain.rpc_urls",
		"chain.start_block",
		"chain.block_head_ttl",
		"chain.block_head_stale_window",
		"chain.probe_timeout",
		"chain.probe_interval",
		"chain.max_call_attempts",
		"chain.rpc_requests_per_second",
		"chain.rpc_burst",
		// Aggregator
		"aggregator.lookback_blocks",
		"aggregator.top_songs_cap",
		"aggregator.metadata_batch_size",
		"aggregator.batch_delay",
		"aggregator.metadata_timeout",
		"aggregator.log_query_delay",
		"aggregator.recent_fallback_scan",
		"aggregator.artist_fallback_scan",
		"aggregator.max_limit",
		"aggregator.metadata_cache_size",
		"aggregator.metadata_cache_ttl",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.view_ttl",
		"redis.warm_schedule",
		"redis.warm_limit",
		"redis.rate_limit_per_minute",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Emitter
		"cursor_save_freq",
		"cursor_save_delay",
		// Worker
		"worker.pool_size",
		"worker.queue_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
