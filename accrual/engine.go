// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual defines the reward accrual strategy a pool delegates its
// accounting to.
package accrual

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/accrual/continuous"
	"github.com/vechain/rewardpool/accrual/fixedapy"
	"github.com/vechain/rewardpool/ledger"
)

// Engine is an accrual strategy. Implementations hold only immutable
// parameters; all state lives in the records passed in.
//
// A state changing operation must call Accrue, then Settle for the caller,
// before touching balances, and Rebase after.
type Engine interface {
	Kind() ledger.EngineKind
	// Accrue integrates the pool wide state up to now.
	Accrue(p *ledger.Pool, now uint64) error
	// Settle credits everything the account earned so far into Accrued.
	Settle(p *ledger.Pool, acc *ledger.Account, now uint64) error
	// Rebase re-anchors the account after its balance or stake date changed.
	Rebase(p *ledger.Pool, acc *ledger.Account, now uint64) error
	// Earned returns settled plus pending reward, without mutating anything.
	Earned(p *ledger.Pool, acc *ledger.Account, now uint64) (*uint256.Int, error)
	// Pay takes the payable part of Accrued and returns it.
	Pay(p *ledger.Pool, acc *ledger.Account) *uint256.Int
	// FundPeriod adds amount of reward to the pool.
	FundPeriod(p *ledger.Pool, amount *uint256.Int, now uint64) error
	// LocksClaims reports whether claiming rewards is subject to the lock-in.
	LocksClaims() bool
}

var (
	_ Engine = (*continuous.Engine)(nil)
	_ Engine = (*fixedapy.Engine)(nil)
)

// New builds the engine selected by params.
func New(params ledger.Params) (Engine, error) {
	switch params.Engine {
	case ledger.EngineContinuous:
		return continuous.New(params.RewardDuration)
	case ledger.EngineFixedAPY:
		return fixedapy.New(params.APYBasisPoints, params.RewardDuration)
	default:
		return nil, fmt.Errorf("unknown accrual engine %q", params.Engine)
	}
}
