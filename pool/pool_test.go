// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/reverts"
	"github.com/vechain/rewardpool/store"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{Params: continuousParams(100, 0)})
	assert.Error(t, err)

	env := newTestEnv(t, continuousParams(100, 0))
	_, err = New(Config{
		Params:    ledger.Params{Engine: ledger.EngineContinuous},
		Stake:     env.stake,
		Reward:    env.reward,
		Authority: env.auth,
	})
	assert.Error(t, err, "zero duration")
}

func TestContinuousScenario(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))

	NewSequence(env).
		At(0).
		Notify(1000).
		Stake(alice, 100).
		At(50).
		Earned(alice, 500).
		At(150).
		Earned(alice, 1000).
		At(500).
		Earned(alice, 1000).
		Claim(alice).
		RewardBalance(alice, 1000).
		Earned(alice, 0).
		Run(t)

	assert.True(t, env.reward.Custody().IsZero())
}

func TestPeriodOverlap(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))

	NewSequence(env).
		At(0).
		Notify(1000).
		Stake(alice, 100).
		At(50).
		Notify(1000).
		AddFunc(func(t *testing.T) {
			info := env.pool.PoolInfo()
			assert.Equal(t, u(15), info.Pool.RewardRate)
			assert.Equal(t, uint64(150), info.Pool.PeriodFinish)
		}).
		Earned(alice, 500).
		At(150).
		Earned(alice, 2000).
		Exit(alice).
		RewardBalance(alice, 2000).
		Balance(alice, 0).
		Run(t)
}

func TestLateStakerAfterEmptyPeriod(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))

	NewSequence(env).
		At(0).
		Notify(1000).
		At(200).
		Stake(alice, 100).
		Earned(alice, 0).
		At(201).
		Earned(alice, 0).
		Exit(alice).
		RewardBalance(alice, 0).
		Balance(alice, 0).
		At(300).
		Notify(1000).
		AddFunc(func(t *testing.T) {
			// the unstreamed first period is not folded into the new rate
			assert.Equal(t, u(10), env.pool.PoolInfo().Pool.RewardRate)
			assert.Equal(t, u(2000), env.reward.Custody())
		}).
		Run(t)
}

func TestDurationsOutOfRange(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))
	for _, params := range []ledger.Params{
		continuousParams(100, math.MaxUint64-5),
		continuousParams(math.MaxUint64-5, 0),
		fixedAPYParams(1000, ledger.MaxDuration+1, 0),
	} {
		_, err := New(Config{Params: params, Stake: env.stake, Reward: env.reward, Authority: env.auth})
		assert.Error(t, err, "%+v", params)
	}
}

func TestSharedRewards(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))

	NewSequence(env).
		At(0).
		Notify(1000).
		Stake(alice, 100).
		At(40).
		Stake(bob, 300).
		At(100).
		Earned(alice, 550).
		Earned(bob, 450).
		Run(t)
}

func TestLockInBoundary(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 100))

	NewSequence(env).
		At(1000).
		Stake(alice, 100).
		AddFunc(func(t *testing.T) {
			assert.Equal(t, uint64(1101), env.pool.UnlockTime(alice))
		}).
		At(1100).
		Fails(reverts.ErrLocked, func(p *Pool) error { return p.Withdraw(alice, u(100)) }).
		Fails(reverts.ErrLocked, func(p *Pool) error { return p.Exit(alice) }).
		Fails(reverts.ErrLocked, func(p *Pool) error { return p.Claim(alice) }).
		At(1101).
		Withdraw(alice, 100).
		Balance(alice, 0).
		Run(t)
}

func TestTopUpExtendsLock(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 100))

	NewSequence(env).
		At(1000).
		Stake(alice, 100).
		At(1100).
		Stake(alice, 100).
		AddFunc(func(t *testing.T) {
			// halfway between the old date and now
			assert.Equal(t, uint64(1050), env.pool.Account(alice).StakeDate)
			assert.Equal(t, uint64(1151), env.pool.UnlockTime(alice))
		}).
		At(1150).
		Fails(reverts.ErrLocked, func(p *Pool) error { return p.Withdraw(alice, u(1)) }).
		At(1151).
		Withdraw(alice, 200).
		Run(t)
}

func TestWithdrawMoreThanBalance(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))

	NewSequence(env).
		At(10).
		Stake(alice, 100).
		At(20).
		Fails(reverts.ErrInsufficientFunds, func(p *Pool) error { return p.Withdraw(alice, u(101)) }).
		Balance(alice, 100).
		Run(t)
}

func TestRoundTrip(t *testing.T) {
	for _, params := range []ledger.Params{continuousParams(100, 0), fixedAPYParams(3000, 600, 0)} {
		t.Run(string(params.Engine), func(t *testing.T) {
			env := newTestEnv(t, params)
			NewSequence(env).
				At(10).
				Stake(alice, 100).
				At(11).
				Withdraw(alice, 100).
				Balance(alice, 0).
				Earned(alice, 0).
				Run(t)

			assert.Equal(t, u(initialFunds), env.stake.BalanceOf(alice))
		})
	}
}

func TestFixedAPYScenario(t *testing.T) {
	env := newTestEnv(t, fixedAPYParams(3000, 600, 0))

	ether := u(1e18)
	stake := new(uint256.Int).Mul(u(5000), ether)
	budget := new(uint256.Int).Mul(u(1000), ether)
	require.NoError(t, env.stake.Mint(alice, stake))
	require.NoError(t, env.reward.Mint(distributor, budget))

	gross := new(uint256.Int).Mul(stake, u(3000*600))
	gross.Div(gross, u(31_536_000*10_000))

	env.clock.Set(1000)
	require.NoError(t, env.pool.NotifyReward(distributor, budget))
	require.NoError(t, env.pool.Stake(alice, stake))

	env.clock.Set(1600)
	earned, err := env.pool.Earned(alice)
	require.NoError(t, err)
	assert.Equal(t, gross, earned)

	require.NoError(t, env.pool.Claim(alice))
	assert.Equal(t, gross, env.reward.BalanceOf(alice))

	require.NoError(t, env.pool.Claim(alice))
	assert.Equal(t, gross, env.reward.BalanceOf(alice), "claiming twice pays once")

	env.clock.Set(100_000)
	require.NoError(t, env.pool.Claim(alice))
	assert.Equal(t, gross, env.reward.BalanceOf(alice), "capped at the reward duration")

	left := new(uint256.Int).Sub(budget, gross)
	assert.Equal(t, left, env.pool.PoolInfo().Pool.RemainingReward)
}

func TestFixedAPYBudgetShort(t *testing.T) {
	env := newTestEnv(t, fixedAPYParams(10_000, 31_536_000, 0))

	NewSequence(env).
		At(0).
		Notify(1).
		Stake(alice, 1000).
		At(31_536_000).
		Earned(alice, 1000).
		Claim(alice).
		RewardBalance(alice, 0).
		Earned(alice, 1000).
		Notify(999).
		Claim(alice).
		RewardBalance(alice, 1000).
		Run(t)
}

func TestZeroAmountIsNoop(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 100))

	ch := make(chan *events.Event, 8)
	sub := env.pool.SubscribeEvent(ch)
	defer sub.Unsubscribe()

	env.clock.Set(1000)
	assert.NoError(t, env.pool.Stake(alice, u(0)))
	assert.NoError(t, env.pool.Withdraw(alice, u(0)))
	assert.NoError(t, env.pool.Exit(alice))
	assert.NoError(t, env.pool.Claim(alice))

	assert.Equal(t, 0, env.pool.PoolInfo().Accounts)
	assert.Empty(t, ch)
}

func TestUnauthorized(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))
	require.NoError(t, env.reward.Mint(alice, u(500)))

	err := env.pool.NotifyReward(alice, u(500))
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.Equal(t, u(500), env.reward.BalanceOf(alice))

	err = env.pool.SetDistributor(alice, alice, true)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	require.NoError(t, env.pool.SetDistributor(owner, alice, true))
	require.NoError(t, env.pool.NotifyReward(alice, u(500)))
	assert.Equal(t, u(5), env.pool.PoolInfo().Pool.RewardRate)

	require.NoError(t, env.pool.SetDistributor(owner, alice, false))
	assert.ErrorIs(t, env.pool.NotifyReward(alice, u(0)), reverts.ErrUnauthorized)
}

func TestRateOverflowRejected(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))
	huge := new(uint256.Int).Lsh(u(1), 200)
	require.NoError(t, env.reward.Mint(distributor, huge))

	err := env.pool.NotifyReward(distributor, huge)
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	info := env.pool.PoolInfo()
	assert.True(t, info.Pool.RewardRate.IsZero())
	assert.Equal(t, uint64(0), info.Pool.PeriodFinish)
}

// failingTransferer fails every outgoing transfer.
type failingTransferer struct {
	Transferer
}

func (f *failingTransferer) TransferOut(thor.Address, *uint256.Int) error {
	return reverts.Newf(reverts.KindInsufficientFunds, "transfer refused")
}

func TestTransferFailureIsAtomic(t *testing.T) {
	var rewardBook Transferer
	env := newTestEnv(t, continuousParams(100, 0), func(cfg *Config) {
		rewardBook = cfg.Reward
		cfg.Reward = &failingTransferer{cfg.Reward}
	})
	require.NotNil(t, rewardBook)

	ch := make(chan *events.Event, 16)
	sub := env.pool.SubscribeEvent(ch)
	defer sub.Unsubscribe()

	env.clock.Set(0)
	require.NoError(t, env.pool.NotifyReward(distributor, u(1000)))
	require.NoError(t, env.pool.Stake(alice, u(100)))
	for len(ch) > 0 {
		<-ch
	}

	// staking more than alice holds
	err := env.pool.Stake(alice, u(initialFunds))
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)
	assert.Equal(t, u(100), env.pool.Account(alice).Balance)

	env.clock.Set(50)
	before := env.pool.Account(alice)
	beforeInfo := env.pool.PoolInfo()

	// the stake goes out, then the reward transfer fails
	err = env.pool.Exit(alice)
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)

	assert.Equal(t, before, env.pool.Account(alice))
	assert.Equal(t, beforeInfo, env.pool.PoolInfo())
	assert.Equal(t, u(initialFunds-100), env.stake.BalanceOf(alice), "stake transfer undone")
	assert.Equal(t, u(100), env.stake.Custody())
	assert.NoError(t, env.pool.CheckInvariant())
	assert.Empty(t, ch, "no events for failed operations")

	earned, err := env.pool.Earned(alice)
	require.NoError(t, err)
	assert.Equal(t, u(500), earned)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))
	ch := make(chan *events.Event, 16)
	sub := env.pool.SubscribeEvent(ch)
	defer sub.Unsubscribe()

	env.clock.Set(7)
	require.NoError(t, env.pool.NotifyReward(distributor, u(1000)))
	require.NoError(t, env.pool.Stake(alice, u(100)))
	env.clock.Set(107)
	require.NoError(t, env.pool.Exit(alice))

	want := []*events.Event{
		{Kind: events.RewardFunded, Account: distributor, Amount: u(1000), Time: 7},
		{Kind: events.StakeDateUpdated, Account: alice, StakeDate: 7, Time: 7},
		{Kind: events.Staked, Account: alice, Amount: u(100), Time: 7},
		{Kind: events.Withdrawn, Account: alice, Amount: u(100), Time: 107},
		{Kind: events.RewardPaid, Account: alice, Amount: u(1000), Time: 107},
	}
	for _, w := range want {
		select {
		case got := <-ch:
			assert.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("missing event %v", w)
		}
	}
}

func TestJournal(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	s, err := store.New(db, 64)
	require.NoError(t, err)

	env := newTestEnv(t, continuousParams(100, 0), func(cfg *Config) {
		cfg.Journal = s
	})
	NewSequence(env).
		At(0).
		Notify(1000).
		Stake(alice, 100).
		Stake(bob, 300).
		At(60).
		Exit(bob).
		Run(t)

	state, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, env.pool.PoolInfo().Pool, state.Pool())
	// byte order: the shorter name has more leading zero bytes
	assert.Equal(t, []thor.Address{bob, alice}, state.Addresses())
	acc, _ := state.Lookup(alice)
	assert.Equal(t, env.pool.Account(alice), acc)
	acc, _ = state.Lookup(bob)
	assert.True(t, acc.Balance.IsZero())

	// a pool restored from the journal carries on
	restored, err := New(Config{
		Params:    continuousParams(100, 0),
		State:     state,
		Stake:     env.stake,
		Reward:    env.reward,
		Authority: env.auth,
		Clock:     env.clock,
	})
	require.NoError(t, err)
	want, err := env.pool.Earned(alice)
	require.NoError(t, err)
	got, err := restored.Earned(alice)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRandomOperationsKeepInvariant(t *testing.T) {
	for _, params := range []ledger.Params{continuousParams(1000, 5), fixedAPYParams(1200, 5000, 5)} {
		t.Run(string(params.Engine), func(t *testing.T) {
			env := newTestEnv(t, params)
			addrs := make([]thor.Address, 4)
			for i := range addrs {
				addrs[i] = datagen.RandAddress()
				require.NoError(t, env.stake.Mint(addrs[i], u(initialFunds)))
			}

			env.clock.Set(1)
			require.NoError(t, env.pool.NotifyReward(distributor, u(100_000)))
			for i := range 500 {
				env.clock.Set(uint64(2 + i*3))
				addr := addrs[datagen.RandIntN(len(addrs))]
				amount := datagen.RandAmount(5000)
				switch datagen.RandIntN(5) {
				case 0, 1:
					_ = env.pool.Stake(addr, amount)
				case 2:
					_ = env.pool.Withdraw(addr, amount)
				case 3:
					_ = env.pool.Claim(addr)
				case 4:
					_ = env.pool.Exit(addr)
				}
				require.NoError(t, env.pool.CheckInvariant())
				require.Equal(t, env.stake.Custody(), env.pool.PoolInfo().Pool.TotalStaked)
			}

			// nothing is created out of thin air
			var paid uint256.Int
			for _, addr := range addrs {
				paid.Add(&paid, env.reward.BalanceOf(addr))
			}
			assert.False(t, paid.Gt(u(100_000)))
		})
	}
}

func TestConcurrentStakes(t *testing.T) {
	env := newTestEnv(t, continuousParams(100, 0))
	env.clock.Set(1)

	var wg sync.WaitGroup
	for _, addr := range []thor.Address{alice, bob, carol} {
		wg.Add(1)
		go func(addr thor.Address) {
			defer wg.Done()
			for range 100 {
				assert.NoError(t, env.pool.Stake(addr, u(10)))
			}
		}(addr)
	}
	wg.Wait()

	assert.Equal(t, u(3000), env.pool.PoolInfo().Pool.TotalStaked)
	assert.NoError(t, env.pool.CheckInvariant())
}
