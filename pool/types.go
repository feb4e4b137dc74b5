// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/thor"
)

// Transferer moves one asset between a participant and the pool.
type Transferer interface {
	TransferIn(from thor.Address, amount *uint256.Int) error
	TransferOut(to thor.Address, amount *uint256.Int) error
}

// Authority answers who may fund rewards and who may manage funders.
type Authority interface {
	IsOwner(addr thor.Address) bool
	IsDistributor(addr thor.Address) bool
	SetDistributor(addr thor.Address, enabled bool)
}

// Clock reports the current time in seconds.
type Clock interface {
	Now() uint64
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// Journal receives the records changed by each committed operation.
type Journal interface {
	Commit(p *ledger.Pool, accounts map[thor.Address]*ledger.Account) error
}

// Info is a snapshot of the pool.
type Info struct {
	Params   ledger.Params
	Pool     *ledger.Pool
	Accounts int
}
