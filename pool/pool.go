// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool runs staking and reward operations against a ledger, one at a
// time and all-or-nothing.
package pool

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/accrual"
	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/lockin"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/reverts"
	"github.com/vechain/rewardpool/thor"
)

var logger = log.WithContext("pkg", "pool")

// Config wires a pool. Stake, Reward and Authority are required.
type Config struct {
	Params    ledger.Params
	State     *ledger.State // nil starts an empty ledger
	Stake     Transferer
	Reward    Transferer
	Authority Authority
	Clock     Clock   // defaults to SystemClock
	Journal   Journal // optional
}

// Pool is a staking pool.
type Pool struct {
	lock     sync.Mutex
	sendLock sync.Mutex

	params  ledger.Params
	engine  accrual.Engine
	state   *ledger.State
	stake   Transferer
	reward  Transferer
	auth    Authority
	clock   Clock
	journal Journal

	feed  event.Feed
	scope event.SubscriptionScope
}

// New creates a pool.
func New(cfg Config) (*Pool, error) {
	if cfg.Stake == nil || cfg.Reward == nil || cfg.Authority == nil {
		return nil, errors.New("pool: stake, reward and authority are required")
	}
	if cfg.Params.LockInDuration > ledger.MaxDuration {
		return nil, errors.New("pool: lock-in duration out of range")
	}
	engine, err := accrual.New(cfg.Params)
	if err != nil {
		return nil, err
	}
	state := cfg.State
	if state == nil {
		state = ledger.NewState()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	p := &Pool{
		params:  cfg.Params,
		engine:  engine,
		state:   state,
		stake:   cfg.Stake,
		reward:  cfg.Reward,
		auth:    cfg.Authority,
		clock:   clock,
		journal: cfg.Journal,
	}
	p.updateGauges()
	return p, nil
}

// SubscribeEvent delivers every event of committed operations to ch, in
// commit order. Subscribers must keep up; a blocked subscriber stalls the pool.
// It returns nil once the pool is closed.
func (p *Pool) SubscribeEvent(ch chan<- *events.Event) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (p *Pool) Close() {
	p.scope.Close()
}

// arithmetic turns math failures into overflow reverts.
func arithmetic(err error) error {
	if errors.Is(err, fixedpoint.ErrOverflow) || errors.Is(err, fixedpoint.ErrDivisionByZero) {
		return errors.WithMessage(reverts.ErrOverflow, err.Error())
	}
	return err
}

func (p *Pool) settle(o *op, acc *ledger.Account) error {
	pool := o.tx.Pool()
	if err := p.engine.Accrue(pool, o.now); err != nil {
		return arithmetic(err)
	}
	return arithmetic(p.engine.Settle(pool, acc, o.now))
}

func (p *Pool) checkLock(acc *ledger.Account, now uint64) error {
	return lockin.Check(acc.StakeDate, p.params.LockInDuration, now)
}

// Stake deposits amount of the stake asset for caller.
func (p *Pool) Stake(caller thor.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	return p.exec("stake", func(o *op) error {
		pool := o.tx.Pool()
		acc := o.tx.Account(caller)
		if err := p.settle(o, acc); err != nil {
			return err
		}

		total, err := fixedpoint.Add(pool.TotalStaked, amount)
		if err != nil {
			return arithmetic(err)
		}
		acc.StakeDate = lockin.WeightedStakeDate(acc.StakeDate, o.now, acc.Balance, amount)
		acc.Balance = new(uint256.Int).Add(acc.Balance, amount)
		pool.TotalStaked = total
		if err := p.engine.Rebase(pool, acc, o.now); err != nil {
			return arithmetic(err)
		}

		if err := o.transferIn(p.stake, caller, amount); err != nil {
			return err
		}
		o.emit(&events.Event{Kind: events.StakeDateUpdated, Account: caller, StakeDate: acc.StakeDate})
		o.emit(&events.Event{Kind: events.Staked, Account: caller, Amount: amount.Clone()})
		return nil
	})
}

// withdraw takes amount out of acc, which must be settled.
func (p *Pool) withdraw(o *op, caller thor.Address, acc *ledger.Account, amount *uint256.Int) error {
	pool := o.tx.Pool()
	acc.Balance = new(uint256.Int).Sub(acc.Balance, amount)
	pool.TotalStaked = new(uint256.Int).Sub(pool.TotalStaked, amount)
	if err := p.engine.Rebase(pool, acc, o.now); err != nil {
		return arithmetic(err)
	}
	if err := o.transferOut(p.stake, caller, amount); err != nil {
		return err
	}
	o.emit(&events.Event{Kind: events.Withdrawn, Account: caller, Amount: amount.Clone()})
	return nil
}

// pay hands out whatever the engine lets acc take now.
func (p *Pool) pay(o *op, caller thor.Address, acc *ledger.Account) error {
	paid := p.engine.Pay(o.tx.Pool(), acc)
	if paid.IsZero() {
		return nil
	}
	if err := o.transferOut(p.reward, caller, paid); err != nil {
		return err
	}
	o.emit(&events.Event{Kind: events.RewardPaid, Account: caller, Amount: paid})
	return nil
}

// Withdraw returns amount of the stake asset to caller once the lock-in ended.
func (p *Pool) Withdraw(caller thor.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	return p.exec("withdraw", func(o *op) error {
		acc := o.tx.Account(caller)
		if err := p.checkLock(acc, o.now); err != nil {
			return err
		}
		if acc.Balance.Lt(amount) {
			return reverts.Newf(reverts.KindInsufficientFunds, "withdraw amount exceeds staked balance")
		}
		if err := p.settle(o, acc); err != nil {
			return err
		}
		return p.withdraw(o, caller, acc, amount)
	})
}

// Claim pays caller the reward earned so far.
func (p *Pool) Claim(caller thor.Address) error {
	return p.exec("claim", func(o *op) error {
		acc := o.tx.Account(caller)
		if p.engine.LocksClaims() {
			if err := p.checkLock(acc, o.now); err != nil {
				return err
			}
		}
		if err := p.settle(o, acc); err != nil {
			return err
		}
		return p.pay(o, caller, acc)
	})
}

// Exit withdraws the whole balance and claims the reward.
func (p *Pool) Exit(caller thor.Address) error {
	return p.exec("exit", func(o *op) error {
		acc := o.tx.Account(caller)
		if acc.Balance.IsZero() {
			return nil
		}
		if err := p.checkLock(acc, o.now); err != nil {
			return err
		}
		if err := p.settle(o, acc); err != nil {
			return err
		}
		if err := p.withdraw(o, caller, acc, acc.Balance.Clone()); err != nil {
			return err
		}
		return p.pay(o, caller, acc)
	})
}

// NotifyReward funds amount of reward, taken from the calling distributor.
func (p *Pool) NotifyReward(caller thor.Address, amount *uint256.Int) error {
	return p.exec("notify", func(o *op) error {
		if !p.auth.IsDistributor(caller) {
			return errors.WithMessage(reverts.ErrUnauthorized, "caller is not a reward distributor")
		}
		if err := p.engine.FundPeriod(o.tx.Pool(), amount, o.now); err != nil {
			return arithmetic(err)
		}
		if err := o.transferIn(p.reward, caller, amount); err != nil {
			return err
		}
		o.emit(&events.Event{Kind: events.RewardFunded, Account: caller, Amount: amount.Clone()})
		return nil
	})
}

// SetDistributor grants or revokes the distributor role. Owner only.
func (p *Pool) SetDistributor(caller, distributor thor.Address, enabled bool) error {
	return p.exec("set_distributor", func(*op) error {
		if !p.auth.IsOwner(caller) {
			return errors.WithMessage(reverts.ErrUnauthorized, "caller is not the owner")
		}
		p.auth.SetDistributor(distributor, enabled)
		logger.Info("distributor updated", "distributor", distributor, "enabled", enabled)
		return nil
	})
}

// Earned returns the reward addr could claim now, ignoring the lock-in and
// any budget shortfall.
func (p *Pool) Earned(addr thor.Address) (*uint256.Int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	acc, ok := p.state.Lookup(addr)
	if !ok {
		acc = ledger.NewAccount()
	}
	earned, err := p.engine.Earned(p.state.Pool(), acc, p.clock.Now())
	return earned, arithmetic(err)
}

// Account returns a copy of the record of addr.
func (p *Pool) Account(addr thor.Address) *ledger.Account {
	p.lock.Lock()
	defer p.lock.Unlock()

	if acc, ok := p.state.Lookup(addr); ok {
		return acc.Copy()
	}
	return ledger.NewAccount()
}

// UnlockTime is the first instant addr may withdraw.
func (p *Pool) UnlockTime(addr thor.Address) uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	var stakeDate uint64
	if acc, ok := p.state.Lookup(addr); ok {
		stakeDate = acc.StakeDate
	}
	return lockin.UnlockTime(stakeDate, p.params.LockInDuration)
}

// PoolInfo returns a copy of the pool record.
func (p *Pool) PoolInfo() *Info {
	p.lock.Lock()
	defer p.lock.Unlock()

	return &Info{
		Params:   p.params,
		Pool:     p.state.Pool().Copy(),
		Accounts: p.state.Len(),
	}
}

// CheckInvariant verifies the ledger totals.
func (p *Pool) CheckInvariant() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.state.CheckInvariant()
}
