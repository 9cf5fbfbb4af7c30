// Package config reads the configuration of the command line client.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/btcsuite/btcd/chaincfg"

	configtime "github.com/keep-network/keep-eckey/config/time"
	"github.com/keep-network/keep-eckey/pkg/message"
)

const (
	defaultOperationTimeout = 10 * time.Second
	defaultLogLevel         = "info"
)

// Config is the top level config structure.
type Config struct {
	Bitcoin   BitcoinConfig
	Message   MessageConfig
	Operation OperationConfig
	Log       LogConfig
}

// BitcoinConfig selects the network addresses and private keys are encoded
// for.
type BitcoinConfig struct {
	// Network is one of `mainnet`, `testnet3`, `regtest` or `simnet`.
	// Defaults to `mainnet`.
	Network string
}

// MessageConfig configures the signed message format.
type MessageConfig struct {
	// Magic is the prefix of signed messages. Defaults to the Bitcoin one.
	Magic string
}

// OperationConfig bounds the latency of key generation, signing and
// recovery.
type OperationConfig struct {
	Timeout configtime.Duration
}

// LogConfig configures logging.
type LogConfig struct {
	Level string
}

// ReadConfig reads in the configuration file in .toml format.
func ReadConfig(filePath string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(filePath, config); err != nil {
		return nil, fmt.Errorf("unable to decode .toml file [%s] error [%s]", filePath, err)
	}

	return config, nil
}

// ChainParams returns the network parameters of the configured network.
func (bc *BitcoinConfig) ChainParams() (*chaincfg.Params, error) {
	if bc.Network == "" {
		return &chaincfg.MainNetParams, nil
	}

	for _, params := range []*chaincfg.Params{
		&chaincfg.MainNetParams,
		&chaincfg.TestNet3Params,
		&chaincfg.RegressionNetParams,
		&chaincfg.SimNetParams,
	} {
		if params.Name == bc.Network {
			return params, nil
		}
	}

	return nil, fmt.Errorf("unable to find chaincfg param for name: [%s]", bc.Network)
}

// GetMagic returns the signed message prefix.
func (mc *MessageConfig) GetMagic() string {
	if mc.Magic == "" {
		return message.BitcoinMagic
	}
	return mc.Magic
}

// GetTimeout returns operation timeout as `time.Duration`.
func (oc *OperationConfig) GetTimeout() time.Duration {
	timeout := oc.Timeout.ToDuration()
	if timeout == 0 {
		timeout = defaultOperationTimeout
	}

	return timeout
}

// GetLevel returns the log level.
func (lc *LogConfig) GetLevel() string {
	if lc.Level == "" {
		return defaultLogLevel
	}
	return lc.Level
}
