// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config describes a pool deployment in YAML.
package config

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/thor"
)

// Seed funds an address in the custody books at startup.
type Seed struct {
	Address thor.Address          `yaml:"address"`
	Stake   *math.HexOrDecimal256 `yaml:"stake,omitempty"`
	Reward  *math.HexOrDecimal256 `yaml:"reward,omitempty"`
}

// Config of a pool.
type Config struct {
	Engine         ledger.EngineKind `yaml:"engine"`
	RewardDuration uint64            `yaml:"rewardDuration"`
	LockInDuration uint64            `yaml:"lockInDuration"`
	APYBasisPoints uint64            `yaml:"apyBasisPoints,omitempty"`
	Owner          thor.Address      `yaml:"owner"`
	Distributors   []thor.Address    `yaml:"distributors,omitempty"`
	Seeds          []Seed            `yaml:"seeds,omitempty"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	switch c.Engine {
	case ledger.EngineContinuous:
		if c.APYBasisPoints != 0 {
			return errors.New("apyBasisPoints: only valid with the fixed-apy engine")
		}
	case ledger.EngineFixedAPY:
		if c.APYBasisPoints == 0 {
			return errors.New("apyBasisPoints: must be positive")
		}
	default:
		return fmt.Errorf("engine: unknown engine %q", c.Engine)
	}
	if c.RewardDuration == 0 {
		return errors.New("rewardDuration: must be positive")
	}
	if c.RewardDuration > ledger.MaxDuration {
		return fmt.Errorf("rewardDuration: must not exceed %d", uint64(ledger.MaxDuration))
	}
	if c.LockInDuration > ledger.MaxDuration {
		return fmt.Errorf("lockInDuration: must not exceed %d", uint64(ledger.MaxDuration))
	}
	if c.Owner.IsZero() {
		return errors.New("owner: required")
	}
	for i, seed := range c.Seeds {
		if seed.Address.IsZero() {
			return fmt.Errorf("seeds[%d].address: required", i)
		}
		for name, v := range map[string]*math.HexOrDecimal256{"stake": seed.Stake, "reward": seed.Reward} {
			if _, err := Amount(v); err != nil {
				return fmt.Errorf("seeds[%d].%s: %w", i, name, err)
			}
		}
	}
	return nil
}

// Params returns the ledger parameters.
func (c *Config) Params() ledger.Params {
	return ledger.Params{
		Engine:         c.Engine,
		RewardDuration: c.RewardDuration,
		LockInDuration: c.LockInDuration,
		APYBasisPoints: c.APYBasisPoints,
	}
}

// Amount converts a config number, nil being zero.
func Amount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("negative amount")
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("amount exceeds 256 bits")
	}
	return amount, nil
}
