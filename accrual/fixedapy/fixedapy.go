// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedapy implements a fixed annual yield on the staked balance,
// capped at a maximum accrual age and paid from a pre-funded budget.
package fixedapy

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/reverts"
)

const (
	SecondsPerYear = 31_536_000
	BasisPoints    = 10_000
)

var logger = log.WithContext("pkg", "fixedapy")

// Engine is the fixed-APY reward engine.
type Engine struct {
	apy      uint64
	duration uint64
	denom    *uint256.Int
}

// New creates an engine paying apyBasisPoints a year, for at most
// maxDuration seconds after the stake date.
func New(apyBasisPoints, maxDuration uint64) (*Engine, error) {
	if maxDuration == 0 || maxDuration > ledger.MaxDuration {
		return nil, errors.New("fixedapy: reward duration out of range")
	}
	return &Engine{
		apy:      apyBasisPoints,
		duration: maxDuration,
		denom:    uint256.NewInt(SecondsPerYear * BasisPoints),
	}, nil
}

func (e *Engine) Kind() ledger.EngineKind { return ledger.EngineFixedAPY }

func (e *Engine) LocksClaims() bool { return false }

// Gross is the total reward the current balance has produced since the
// stake date.
func (e *Engine) Gross(acc *ledger.Account, now uint64) (*uint256.Int, error) {
	if now <= acc.StakeDate || acc.Balance.IsZero() {
		return new(uint256.Int), nil
	}
	age := min(now-acc.StakeDate, e.duration)
	factor := new(uint256.Int).Mul(uint256.NewInt(e.apy), uint256.NewInt(age))
	return fixedpoint.MulDiv(acc.Balance, factor, e.denom)
}

// Accrue is a no-op: reward depends on nothing pool wide.
func (e *Engine) Accrue(*ledger.Pool, uint64) error { return nil }

func (e *Engine) Settle(_ *ledger.Pool, acc *ledger.Account, now uint64) error {
	gross, err := e.Gross(acc, now)
	if err != nil {
		return err
	}
	if !gross.Gt(acc.RewardClaimed) {
		return nil
	}
	net := new(uint256.Int).Sub(gross, acc.RewardClaimed)
	if acc.Accrued, err = fixedpoint.Add(acc.Accrued, net); err != nil {
		return err
	}
	acc.RewardClaimed = gross
	return nil
}

// Rebase marks the gross of the new balance as already accounted for.
func (e *Engine) Rebase(_ *ledger.Pool, acc *ledger.Account, now uint64) error {
	gross, err := e.Gross(acc, now)
	if err != nil {
		return err
	}
	acc.RewardClaimed = gross
	return nil
}

func (e *Engine) Earned(_ *ledger.Pool, acc *ledger.Account, now uint64) (*uint256.Int, error) {
	gross, err := e.Gross(acc, now)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(acc.Accrued, fixedpoint.SubFloor(gross, acc.RewardClaimed))
}

// Pay pays Accrued in full, or nothing when the budget cannot cover it.
func (e *Engine) Pay(p *ledger.Pool, acc *ledger.Account) *uint256.Int {
	if acc.Accrued.IsZero() {
		return new(uint256.Int)
	}
	if p.RemainingReward.Lt(acc.Accrued) {
		logger.Warn("reward budget exhausted, payout deferred",
			"owed", acc.Accrued, "remaining", p.RemainingReward)
		return new(uint256.Int)
	}
	paid := acc.Accrued
	p.RemainingReward = new(uint256.Int).Sub(p.RemainingReward, paid)
	acc.Accrued = new(uint256.Int)
	return paid
}

// FundPeriod tops up the budget rewards are paid from.
func (e *Engine) FundPeriod(p *ledger.Pool, amount *uint256.Int, _ uint64) error {
	remaining, err := fixedpoint.Add(p.RemainingReward, amount)
	if err != nil {
		return reverts.ErrOverflow
	}
	p.RemainingReward = remaining
	return nil
}
