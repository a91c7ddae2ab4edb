package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"txprepare/internal/domain/entity"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Networks    []NetworkNode     `yaml:"networks"`
	Logging     LoggingConfig     `yaml:"logging"`
	RpcClient   RpcClientConfig   `yaml:"rpcClient"`
	FeeOracle   FeeOracleConfig   `yaml:"feeOracle"`
	Preparation PreparationConfig `yaml:"preparation"`
	Analytics   AnalyticsConfig   `yaml:"analytics"`
	Registry    RegistryConfig    `yaml:"registry"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NetworkNode holds the configuration for a specific blockchain network node.
type NetworkNode struct {
	ChainID         uint64   `yaml:"chainID"`
	Name            string   `yaml:"name"`
	NetworkID       string   `yaml:"networkId"`
	NativeSymbol    string   `yaml:"nativeSymbol"`
	NativeDecimals  uint8    `yaml:"nativeDecimals"`
	Endpoint        string   `yaml:"endpoint"`
	FallbackRPCURLs []string `yaml:"fallbackRpcUrls"`
	LimiterPeriod   string   `yaml:"limiterPeriod"`
	LimiterBurst    int      `yaml:"limiterBurst"`
}

// Definition maps the node config onto the domain-level network definition.
func (n NetworkNode) Definition() entity.NetworkDefinition {
	return entity.NetworkDefinition{
		ChainID:         n.ChainID,
		Name:            n.Name,
		NetworkID:       n.NetworkID,
		NativeSymbol:    n.NativeSymbol,
		NativeDecimals:  n.NativeDecimals,
		PrimaryRPCURL:   n.Endpoint,
		FallbackRPCURLs: n.FallbackRPCURLs,
	}
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	ConnectionTimeoutMs int64 `yaml:"connectionTimeoutMs"`
	CallTimeoutMs       int64 `yaml:"callTimeoutMs"`
}

// FeeOracleConfig holds configuration for fee-per-gas caching.
type FeeOracleConfig struct {
	CacheTTLSeconds        int `yaml:"cacheTTLSeconds"`
	CleanupIntervalSeconds int `yaml:"cleanupIntervalSeconds"`
}

// PreparationConfig holds the preparation engine's tunables.
type PreparationConfig struct {
	// DecreasedAmountGasFeeMultiplier is the default safety margin applied to
	// the max fee when suggesting a decreased spend amount.
	DecreasedAmountGasFeeMultiplier float64 `yaml:"decreasedAmountGasFeeMultiplier"`
}

// AnalyticsConfig holds configuration for the analytics collector.
type AnalyticsConfig struct {
	CollectorURL         string `yaml:"collectorURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RegistryConfig holds configuration for the token registry files.
type RegistryConfig struct {
	TokenDirectory string `yaml:"tokenDirectory"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.RpcClient.ConnectionTimeoutMs == 0 {
		cfg.RpcClient.ConnectionTimeoutMs = 10000
		logrus.Infof("RpcClient.ConnectionTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.ConnectionTimeoutMs)
	}
	if cfg.RpcClient.CallTimeoutMs == 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
		logrus.Infof("RpcClient.CallTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.CallTimeoutMs)
	}
	if cfg.FeeOracle.CacheTTLSeconds == 0 {
		cfg.FeeOracle.CacheTTLSeconds = 15
		logrus.Infof("FeeOracle.CacheTTLSeconds not set, defaulting to %d s", cfg.FeeOracle.CacheTTLSeconds)
	}
	if cfg.FeeOracle.CleanupIntervalSeconds == 0 {
		cfg.FeeOracle.CleanupIntervalSeconds = 60
	}
	if cfg.Preparation.DecreasedAmountGasFeeMultiplier == 0 {
		cfg.Preparation.DecreasedAmountGasFeeMultiplier = 1.0
		logrus.Infof("Preparation.DecreasedAmountGasFeeMultiplier not set, defaulting to %.1f", cfg.Preparation.DecreasedAmountGasFeeMultiplier)
	}
	if cfg.Analytics.RequestTimeoutMillis == 0 {
		cfg.Analytics.RequestTimeoutMillis = 5000
	}
	if cfg.Registry.TokenDirectory == "" {
		cfg.Registry.TokenDirectory = "data/tokens"
	}

	for _, network := range cfg.Networks {
		if network.NetworkID == "" {
			return nil, fmt.Errorf("network %q (chainID %d) is missing networkId", network.Name, network.ChainID)
		}
		if network.Endpoint == "" {
			return nil, fmt.Errorf("network %q (chainID %d) is missing endpoint", network.Name, network.ChainID)
		}
		if network.NativeDecimals == 0 {
			logrus.Warnf("Network %q has no nativeDecimals configured, fee conversion for the native asset will be integer-only", network.Name)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Definitions returns the domain-level definitions of all configured networks.
func (c *Config) Definitions() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(c.Networks))
	for _, n := range c.Networks {
		defs = append(defs, n.Definition())
	}
	return defs
}

// DefinitionsByID returns configured networks keyed by their network ID.
func (c *Config) DefinitionsByID() map[string]entity.NetworkDefinition {
	defs := make(map[string]entity.NetworkDefinition, len(c.Networks))
	for _, n := range c.Networks {
		defs[n.NetworkID] = n.Definition()
	}
	return defs
}
