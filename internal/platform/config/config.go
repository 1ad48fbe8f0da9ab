package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	StoreBackend string
	PostgresDSN  string
	AutoMigrate  bool
	LockKey      int64

	NATSURL      string
	KafkaBrokers []string
	RedisURL     string

	FaucetRateLimit  int
	FaucetRateWindow time.Duration

	RelayInterval  time.Duration
	KeeperInterval time.Duration
	RelayBatchSize int
	MetricsPort    string

	Chain      Chain
	Governance Governance
}

// Chain describes the deployment the process serves.
type Chain struct {
	Deployer          common.Address
	TokenName         string
	TokenSymbol       string
	ExchangeRate      uint64
	InitialSupply     uint256.Int
	FaucetClaimAmount uint256.Int
	FaucetFunding     uint256.Int
}

// Governance holds the engine constants. Amounts are minor units.
type Governance struct {
	CreationFee       uint256.Int
	ProposalThreshold uint256.Int
	MinQuorum         uint256.Int
	VotingPeriod      time.Duration
	ExtensionWindow   time.Duration
	ExtensionPeriod   time.Duration
	MaxExtension      time.Duration
	MinGasExecute     uint64
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// flagKeys maps process flags onto viper keys.
var flagKeys = map[string]string{
	"http-port":     "http.port",
	"log-level":     "log.level",
	"store":         "store.backend",
	"postgres-dsn":  "postgres.dsn",
	"auto-migrate":  "postgres.auto_migrate",
	"nats-url":      "nats.url",
	"kafka-brokers": "kafka.brokers",
	"redis-url":     "redis.url",
	"metrics-port":  "worker.metrics_port",
}

// RegisterFlags adds the flags shared by every process command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a securevote.yaml config file")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("http-port", "8080", "HTTP listen port")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("store", StoreMemory, "chain state backend (memory or postgres)")
	flags.String("postgres-dsn", "", "postgres DSN for the postgres backend")
	flags.Bool("auto-migrate", true, "create chain state tables on start")
	flags.String("nats-url", "", "NATS server URL for event publishing")
	flags.String("kafka-brokers", "", "comma separated Kafka brokers for event publishing")
	flags.String("redis-url", "", "redis URL for shared faucet rate limits")
	flags.String("metrics-port", "9090", "worker metrics listen port")
}

// NewViper loads the dotenv file, then layers defaults, the optional
// securevote.yaml file, SECUREVOTE_* environment variables and changed flags.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	envFile := ".env"
	configFile := ""
	if flags != nil {
		if value, err := flags.GetString("env-file"); err == nil {
			envFile = value
		}
		if value, err := flags.GetString("config"); err == nil {
			configFile = value
		}
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("securevote")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/securevote")
	}

	v.SetEnvPrefix("SECUREVOTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}
	return v, nil
}

func Load() (Config, error) {
	v, err := NewViper(nil)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// FromViper builds a validated Config from an already layered viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		ServiceName:      strings.TrimSpace(v.GetString("service_name")),
		HTTPPort:         strings.TrimSpace(v.GetString("http.port")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		StoreBackend:     strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
		PostgresDSN:      strings.TrimSpace(v.GetString("postgres.dsn")),
		AutoMigrate:      v.GetBool("postgres.auto_migrate"),
		LockKey:          v.GetInt64("postgres.lock_key"),
		NATSURL:          strings.TrimSpace(v.GetString("nats.url")),
		KafkaBrokers:     stringList(v.Get("kafka.brokers")),
		RedisURL:         strings.TrimSpace(v.GetString("redis.url")),
		FaucetRateLimit:  v.GetInt("faucet.rate_limit"),
		FaucetRateWindow: v.GetDuration("faucet.rate_window"),
		RelayInterval:    v.GetDuration("worker.relay_interval"),
		KeeperInterval:   v.GetDuration("worker.keeper_interval"),
		RelayBatchSize:   v.GetInt("worker.relay_batch_size"),
		MetricsPort:      strings.TrimSpace(v.GetString("worker.metrics_port")),
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("%w: postgres.dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, cfg.StoreBackend)
	}
	if cfg.RelayInterval <= 0 || cfg.KeeperInterval <= 0 {
		return Config{}, fmt.Errorf("%w: worker intervals must be positive", ErrInvalidConfig)
	}

	deployer, err := chain.ParseAddress(v.GetString("chain.deployer"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: chain.deployer: %v", ErrInvalidConfig, err)
	}
	cfg.Chain = Chain{
		Deployer:     deployer,
		TokenName:    v.GetString("token.name"),
		TokenSymbol:  v.GetString("token.symbol"),
		ExchangeRate: v.GetUint64("token.exchange_rate"),
	}
	if cfg.Chain.ExchangeRate == 0 {
		return Config{}, fmt.Errorf("%w: token.exchange_rate must be positive", ErrInvalidConfig)
	}

	amounts := []struct {
		key    string
		target *uint256.Int
	}{
		{key: "chain.initial_supply", target: &cfg.Chain.InitialSupply},
		{key: "faucet.claim_amount", target: &cfg.Chain.FaucetClaimAmount},
		{key: "faucet.funding", target: &cfg.Chain.FaucetFunding},
		{key: "governance.creation_fee", target: &cfg.Governance.CreationFee},
		{key: "governance.proposal_threshold", target: &cfg.Governance.ProposalThreshold},
		{key: "governance.min_quorum", target: &cfg.Governance.MinQuorum},
	}
	for _, amount := range amounts {
		parsed, err := units.ParseUnits(v.GetString(amount.key))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, amount.key, err)
		}
		*amount.target = parsed
	}
	if cfg.Chain.FaucetFunding.Gt(&cfg.Chain.InitialSupply) {
		return Config{}, fmt.Errorf("%w: faucet.funding exceeds chain.initial_supply", ErrInvalidConfig)
	}

	cfg.Governance.VotingPeriod = v.GetDuration("governance.voting_period")
	cfg.Governance.ExtensionWindow = v.GetDuration("governance.extension_window")
	cfg.Governance.ExtensionPeriod = v.GetDuration("governance.extension_period")
	cfg.Governance.MaxExtension = v.GetDuration("governance.max_extension")
	cfg.Governance.MinGasExecute = v.GetUint64("governance.min_gas_execute")
	if cfg.Governance.VotingPeriod <= 0 {
		return Config{}, fmt.Errorf("%w: governance.voting_period must be positive", ErrInvalidConfig)
	}
	if cfg.Governance.ExtensionWindow < 0 || cfg.Governance.ExtensionPeriod < 0 || cfg.Governance.MaxExtension < 0 {
		return Config{}, fmt.Errorf("%w: governance extension durations must not be negative", ErrInvalidConfig)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "securevote")
	v.SetDefault("http.port", "8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("postgres.lock_key", 7_283_001)

	v.SetDefault("nats.url", "")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("redis.url", "")

	v.SetDefault("faucet.rate_limit", 5)
	v.SetDefault("faucet.rate_window", "1m")

	v.SetDefault("worker.relay_interval", "2s")
	v.SetDefault("worker.keeper_interval", "30s")
	v.SetDefault("worker.relay_batch_size", 100)
	v.SetDefault("worker.metrics_port", "9090")

	// Genesis mirrors the hardhat deployment scripts.
	v.SetDefault("chain.deployer", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	v.SetDefault("chain.initial_supply", "1000000")
	v.SetDefault("token.name", "Governance Token")
	v.SetDefault("token.symbol", "GT")
	v.SetDefault("token.exchange_rate", 1000)
	v.SetDefault("faucet.claim_amount", "1000")
	v.SetDefault("faucet.funding", "100000")

	v.SetDefault("governance.creation_fee", "0.01")
	v.SetDefault("governance.proposal_threshold", "100")
	v.SetDefault("governance.min_quorum", "1000000")
	v.SetDefault("governance.voting_period", "72h")
	v.SetDefault("governance.extension_window", "12h")
	v.SetDefault("governance.extension_period", "12h")
	v.SetDefault("governance.max_extension", "24h")
	v.SetDefault("governance.min_gas_execute", 100_000)
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// stringList accepts both a YAML list and a comma separated string.
func stringList(raw any) []string {
	var items []string
	switch value := raw.(type) {
	case []string:
		items = value
	case []any:
		for _, item := range value {
			items = append(items, fmt.Sprint(item))
		}
	case string:
		items = strings.Split(value, ",")
	}

	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
