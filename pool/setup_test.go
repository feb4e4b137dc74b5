// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/authority"
	"github.com/vechain/rewardpool/custody"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/thor"
)

var (
	owner       = thor.BytesToAddress([]byte("owner"))
	distributor = thor.BytesToAddress([]byte("distributor"))
	alice       = thor.BytesToAddress([]byte("alice"))
	bob         = thor.BytesToAddress([]byte("bob"))
	carol       = thor.BytesToAddress([]byte("carol"))
)

const initialFunds = 1_000_000

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

type testClock struct {
	now atomic.Uint64
}

func (c *testClock) Now() uint64    { return c.now.Load() }
func (c *testClock) Set(now uint64) { c.now.Store(now) }

type testEnv struct {
	pool   *Pool
	clock  *testClock
	stake  *custody.Book
	reward *custody.Book
	auth   *authority.Set
}

func continuousParams(duration, lockIn uint64) ledger.Params {
	return ledger.Params{Engine: ledger.EngineContinuous, RewardDuration: duration, LockInDuration: lockIn}
}

func fixedAPYParams(apy, duration, lockIn uint64) ledger.Params {
	return ledger.Params{Engine: ledger.EngineFixedAPY, APYBasisPoints: apy, RewardDuration: duration, LockInDuration: lockIn}
}

func newTestEnv(t *testing.T, params ledger.Params, opts ...func(*Config)) *testEnv {
	env := &testEnv{
		clock:  &testClock{},
		stake:  custody.New("STK"),
		reward: custody.New("RWD"),
		auth:   authority.New(owner, distributor),
	}
	for _, addr := range []thor.Address{alice, bob, carol} {
		require.NoError(t, env.stake.Mint(addr, u(initialFunds)))
	}
	require.NoError(t, env.reward.Mint(distributor, u(initialFunds)))

	cfg := Config{
		Params:    params,
		Stake:     env.stake,
		Reward:    env.reward,
		Authority: env.auth,
		Clock:     env.clock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	env.pool = p
	return env
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env   *testEnv
	funcs []TestFunc
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.clock.Set(now)
	})
}

func (st *TestSequence) Notify(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.NotifyReward(distributor, u(amount)); err != nil {
			t.Fatalf("failed to notify reward %d: %v", amount, err)
		}
		t.Logf("notified reward %d at %d", amount, st.env.clock.Now())
	})
}

func (st *TestSequence) Stake(addr thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.Stake(addr, u(amount)); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("%s staked %d at %d", addr, amount, st.env.clock.Now())
	})
}

func (st *TestSequence) Withdraw(addr thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.Withdraw(addr, u(amount)); err != nil {
			t.Fatalf("failed to withdraw %d for %s: %v", amount, addr, err)
		}
		t.Logf("%s withdrew %d at %d", addr, amount, st.env.clock.Now())
	})
}

func (st *TestSequence) Claim(addr thor.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.Claim(addr); err != nil {
			t.Fatalf("failed to claim for %s: %v", addr, err)
		}
		t.Logf("%s claimed at %d", addr, st.env.clock.Now())
	})
}

func (st *TestSequence) Exit(addr thor.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.Exit(addr); err != nil {
			t.Fatalf("failed to exit %s: %v", addr, err)
		}
		t.Logf("%s exited at %d", addr, st.env.clock.Now())
	})
}

// Fails expects f to fail with target.
func (st *TestSequence) Fails(target error, f func(p *Pool) error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.ErrorIs(t, f(st.env.pool), target)
	})
}

func (st *TestSequence) Earned(addr thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		earned, err := st.env.pool.Earned(addr)
		require.NoError(t, err)
		assert.Equal(t, u(expected), earned, "earned of %s at %d", addr, st.env.clock.Now())
	})
}

func (st *TestSequence) Balance(addr thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, u(expected), st.env.pool.Account(addr).Balance, "balance of %s", addr)
	})
}

// RewardBalance checks the reward asset held by addr outside the pool.
func (st *TestSequence) RewardBalance(addr thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, u(expected), st.env.reward.BalanceOf(addr), "reward balance of %s", addr)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
		assert.NoError(t, st.env.pool.CheckInvariant())
		assert.Equal(t, st.env.stake.Custody(), st.env.pool.PoolInfo().Pool.TotalStaked, "stake custody matches total staked")
	}
}
