// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testpool builds a pool wired to in-memory collaborators for tests
// of the packages above it.
package testpool

import (
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/authority"
	"github.com/vechain/rewardpool/custody"
	"github.com/vechain/rewardpool/dsa"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/thor"
)

// devKey derives a fixed private key from name.
func devKey(name string) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(thor.Blake2b([]byte(name)).Bytes())
	if err != nil {
		panic(err)
	}
	return key
}

var (
	OwnerKey       = devKey("owner")
	DistributorKey = devKey("distributor")
	AliceKey       = devKey("alice")
	BobKey         = devKey("bob")

	Owner       = dsa.Address(OwnerKey)
	Distributor = dsa.Address(DistributorKey)
	Alice       = dsa.Address(AliceKey)
	Bob         = dsa.Address(BobKey)
)

// SignedRequest builds a request signed by key at the current time.
func SignedRequest(t testing.TB, key *ecdsa.PrivateKey, method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, utils.SignRequest(req, []byte(body), key, time.Now()))
	return req
}

// InitialFunds is minted to every test participant.
const InitialFunds = 1_000_000

// Clock is a settable pool.Clock.
type Clock struct {
	now atomic.Uint64
}

func (c *Clock) Now() uint64    { return c.now.Load() }
func (c *Clock) Set(now uint64) { c.now.Store(now) }

type Env struct {
	Pool   *pool.Pool
	Clock  *Clock
	Stake  *custody.Book
	Reward *custody.Book
	Auth   *authority.Set
}

// Continuous returns the parameters of a continuous-rate pool.
func Continuous(duration, lockIn uint64) ledger.Params {
	return ledger.Params{Engine: ledger.EngineContinuous, RewardDuration: duration, LockInDuration: lockIn}
}

// New creates a pool with alice and bob funded on the stake asset and the
// distributor funded on the reward asset.
func New(t testing.TB, params ledger.Params) *Env {
	env := &Env{
		Clock:  &Clock{},
		Stake:  custody.New("STK"),
		Reward: custody.New("RWD"),
		Auth:   authority.New(Owner, Distributor),
	}
	for _, addr := range []thor.Address{Alice, Bob} {
		require.NoError(t, env.Stake.Mint(addr, uint256.NewInt(InitialFunds)))
	}
	require.NoError(t, env.Reward.Mint(Distributor, uint256.NewInt(InitialFunds)))

	p, err := pool.New(pool.Config{
		Params:    params,
		Stake:     env.Stake,
		Reward:    env.Reward,
		Authority: env.Auth,
		Clock:     env.Clock,
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	env.Pool = p
	return env
}
