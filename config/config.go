// Package config loads the bridged daemon configuration from TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the top-level daemon configuration.
type Config struct {
	ListenAddress string      `toml:"ListenAddress"`
	LogEnv        string      `toml:"LogEnv"`
	Chain         ChainConfig `toml:"Chain"`
}

// ChainConfig describes the in-process chain genesis: the pool denom, the LP
// subdenom registered with the token factory and the relayer key whose
// address becomes owner of all three contracts.
type ChainConfig struct {
	GenesisTime     uint64 `toml:"GenesisTime"`
	Denom           string `toml:"Denom"`
	LpSubdenom      string `toml:"LpSubdenom"`
	UnbondingPeriod uint64 `toml:"UnbondingPeriod"`
	RelayerKeyHex   string `toml:"RelayerKeyHex"`
}

// Load reads the configuration at path, writing a commented default file when
// none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8545"
	}
	if strings.TrimSpace(cfg.LogEnv) == "" {
		cfg.LogEnv = "local"
	}
	if cfg.Chain.Denom == "" {
		cfg.Chain.Denom = "uusdc"
	}
	if cfg.Chain.LpSubdenom == "" {
		cfg.Chain.LpSubdenom = "ulp"
	}
	if cfg.Chain.UnbondingPeriod == 0 {
		cfg.Chain.UnbondingPeriod = 86400
	}
}

func validate(cfg *Config) error {
	if cfg.Chain.Denom == cfg.Chain.LpSubdenom {
		return fmt.Errorf("Denom and LpSubdenom must differ")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
