// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

// EngineKind names an accrual strategy.
type EngineKind string

const (
	EngineContinuous EngineKind = "continuous"
	EngineFixedAPY   EngineKind = "fixed-apy"
)

// MaxDuration bounds the reward and lock-in durations so that a timestamp
// plus a duration stays far from wrapping around.
const MaxDuration = 1 << 40

// Params are the immutable deployment parameters of a pool.
type Params struct {
	Engine         EngineKind
	RewardDuration uint64 // seconds, length of a funded period or the APY cap
	LockInDuration uint64 // seconds a weighted stake must rest before withdrawal
	APYBasisPoints uint64 // fixed-apy only
}

// ID fingerprints the parameters. A persisted ledger is only reopened with
// parameters of the same ID.
func (p Params) ID() thor.Bytes32 {
	data, _ := rlp.EncodeToBytes(&p)
	return thor.Blake2b(data)
}

type (
	// Pool is the shared state every operation reads and writes.
	Pool struct {
		TotalStaked         *uint256.Int
		RewardRate          *uint256.Int // continuous: reward units per second
		RewardPerUnitStored *uint256.Int // continuous: accumulator scaled by fixedpoint.Precision
		LastUpdateTime      uint64
		PeriodFinish        uint64
		RemainingReward     *uint256.Int // fixed-apy: unpaid budget
	}

	// Account is the per participant record. It is never deleted.
	Account struct {
		Balance           *uint256.Int
		RewardPerUnitPaid *uint256.Int // accumulator value at last settlement
		Accrued           *uint256.Int // settled, not yet paid
		StakeDate         uint64       // time weighted lock-in reference
		RewardClaimed     *uint256.Int // fixed-apy: gross entitlement already accounted for
	}
)

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		TotalStaked:         new(uint256.Int),
		RewardRate:          new(uint256.Int),
		RewardPerUnitStored: new(uint256.Int),
		RemainingReward:     new(uint256.Int),
	}
}

// Copy returns a deep copy.
func (p *Pool) Copy() *Pool {
	return &Pool{
		TotalStaked:         p.TotalStaked.Clone(),
		RewardRate:          p.RewardRate.Clone(),
		RewardPerUnitStored: p.RewardPerUnitStored.Clone(),
		LastUpdateTime:      p.LastUpdateTime,
		PeriodFinish:        p.PeriodFinish,
		RemainingReward:     p.RemainingReward.Clone(),
	}
}

// NewAccount returns a zero initialized account.
func NewAccount() *Account {
	return &Account{
		Balance:           new(uint256.Int),
		RewardPerUnitPaid: new(uint256.Int),
		Accrued:           new(uint256.Int),
		RewardClaimed:     new(uint256.Int),
	}
}

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	return &Account{
		Balance:           a.Balance.Clone(),
		RewardPerUnitPaid: a.RewardPerUnitPaid.Clone(),
		Accrued:           a.Accrued.Clone(),
		StakeDate:         a.StakeDate,
		RewardClaimed:     a.RewardClaimed.Clone(),
	}
}

// IsEmpty returns true if the account was never touched.
func (a *Account) IsEmpty() bool {
	return a.Balance.IsZero() &&
		a.RewardPerUnitPaid.IsZero() &&
		a.Accrued.IsZero() &&
		a.StakeDate == 0 &&
		a.RewardClaimed.IsZero()
}

func (p *Pool) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

func (p *Pool) Decode(data []byte) error {
	if len(data) == 0 {
		*p = *NewPool()
		return nil
	}
	return rlp.DecodeBytes(data, p)
}

func (a *Account) Encode() ([]byte, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(a)
}

func (a *Account) Decode(data []byte) error {
	if len(data) == 0 {
		*a = *NewAccount()
		return nil
	}
	return rlp.DecodeBytes(data, a)
}
