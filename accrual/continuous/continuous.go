// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package continuous implements reward streaming at a constant rate over a
// funded period, shared pro rata among stakers through a reward-per-unit
// accumulator that is settled lazily per account.
package continuous

import (
	"errors"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/reverts"
)

// Engine is the continuous reward engine.
type Engine struct {
	duration uint64
	// exclusive upper bound of the reward rate.
	maxRate *uint256.Int
}

// New creates an engine streaming each funding over duration seconds.
func New(duration uint64) (*Engine, error) {
	if duration == 0 || duration > ledger.MaxDuration {
		return nil, errors.New("continuous: reward duration out of range")
	}
	maxRate := new(uint256.Int).Div(fixedpoint.MaxUint256, fixedpoint.Precision)
	maxRate.Div(maxRate, uint256.NewInt(duration))
	return &Engine{duration, maxRate}, nil
}

func (e *Engine) Kind() ledger.EngineKind { return ledger.EngineContinuous }

func (e *Engine) LocksClaims() bool { return true }

// ApplicableTime is the last instant reward is streamed for, min(now, periodFinish).
func (e *Engine) ApplicableTime(p *ledger.Pool, now uint64) uint64 {
	return min(now, p.PeriodFinish)
}

// RewardPerUnit returns the accumulator value at now. While nothing is staked
// the stored value is returned.
func (e *Engine) RewardPerUnit(p *ledger.Pool, now uint64) (*uint256.Int, error) {
	applicable := e.ApplicableTime(p, now)
	if p.TotalStaked.IsZero() || applicable <= p.LastUpdateTime {
		return p.RewardPerUnitStored.Clone(), nil
	}
	scaled, err := fixedpoint.Mul(uint256.NewInt(applicable-p.LastUpdateTime), fixedpoint.Precision)
	if err != nil {
		return nil, err
	}
	delta, err := fixedpoint.MulDiv(scaled, p.RewardRate, p.TotalStaked)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(p.RewardPerUnitStored, delta)
}

// Accrue moves the accumulator to now. An interval with nothing staked is
// passed over: its reward stays in custody and is never streamed.
func (e *Engine) Accrue(p *ledger.Pool, now uint64) error {
	rpu, err := e.RewardPerUnit(p, now)
	if err != nil {
		return err
	}
	p.RewardPerUnitStored = rpu
	p.LastUpdateTime = max(p.LastUpdateTime, e.ApplicableTime(p, now))
	return nil
}

func owed(acc *ledger.Account, rpu *uint256.Int) (*uint256.Int, error) {
	pending, err := fixedpoint.MulDiv(acc.Balance, fixedpoint.SubFloor(rpu, acc.RewardPerUnitPaid), fixedpoint.Precision)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(acc.Accrued, pending)
}

// Settle expects Accrue to have run at now.
func (e *Engine) Settle(p *ledger.Pool, acc *ledger.Account, _ uint64) error {
	earned, err := owed(acc, p.RewardPerUnitStored)
	if err != nil {
		return err
	}
	acc.Accrued = earned
	acc.RewardPerUnitPaid = p.RewardPerUnitStored.Clone()
	return nil
}

// Rebase is a no-op: Settle already anchored the account to the accumulator.
func (e *Engine) Rebase(*ledger.Pool, *ledger.Account, uint64) error { return nil }

func (e *Engine) Earned(p *ledger.Pool, acc *ledger.Account, now uint64) (*uint256.Int, error) {
	rpu, err := e.RewardPerUnit(p, now)
	if err != nil {
		return nil, err
	}
	return owed(acc, rpu)
}

func (e *Engine) Pay(_ *ledger.Pool, acc *ledger.Account) *uint256.Int {
	paid := acc.Accrued
	acc.Accrued = new(uint256.Int)
	return paid
}

// FundPeriod starts a new period of the engine's duration. Reward not yet
// streamed from a running period is folded into the new rate.
func (e *Engine) FundPeriod(p *ledger.Pool, amount *uint256.Int, now uint64) error {
	finish, carry := bits.Add64(now, e.duration, 0)
	if carry != 0 {
		return reverts.ErrOverflow
	}
	if err := e.Accrue(p, now); err != nil {
		return err
	}
	total := amount.Clone()
	if now < p.PeriodFinish {
		leftover, err := fixedpoint.Mul(uint256.NewInt(p.PeriodFinish-now), p.RewardRate)
		if err != nil {
			return reverts.ErrOverflow
		}
		if total, err = fixedpoint.Add(total, leftover); err != nil {
			return reverts.ErrOverflow
		}
	}
	rate := new(uint256.Int).Div(total, uint256.NewInt(e.duration))
	if !rate.Lt(e.maxRate) {
		return reverts.ErrOverflow
	}
	p.RewardRate = rate
	p.LastUpdateTime = now
	p.PeriodFinish = finish
	return nil
}
