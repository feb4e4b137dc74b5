// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody keeps the balances of one fungible asset held by
// participants and by the pool.
package custody

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/reverts"
	"github.com/vechain/rewardpool/thor"
)

// Book is an in-memory ledger of a single asset. Transfers move value between
// a participant and the pool's custody balance.
type Book struct {
	lock     sync.Mutex
	asset    string
	custody  *uint256.Int
	balances map[thor.Address]*uint256.Int
}

func New(asset string) *Book {
	return &Book{
		asset:    asset,
		custody:  new(uint256.Int),
		balances: make(map[thor.Address]*uint256.Int),
	}
}

func (b *Book) Asset() string { return b.asset }

func (b *Book) balance(addr thor.Address) *uint256.Int {
	if bal, ok := b.balances[addr]; ok {
		return bal
	}
	return new(uint256.Int)
}

// Mint credits amount to addr out of thin air.
func (b *Book) Mint(addr thor.Address, amount *uint256.Int) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	bal, err := fixedpoint.Add(b.balance(addr), amount)
	if err != nil {
		return reverts.Newf(reverts.KindOverflow, "%s: balance overflow", b.asset)
	}
	b.balances[addr] = bal
	return nil
}

func (b *Book) BalanceOf(addr thor.Address) *uint256.Int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.balance(addr).Clone()
}

// Custody returns the amount held by the pool.
func (b *Book) Custody() *uint256.Int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.custody.Clone()
}

// TransferIn moves amount from addr into custody.
func (b *Book) TransferIn(from thor.Address, amount *uint256.Int) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	bal := b.balance(from)
	if bal.Lt(amount) {
		return reverts.Newf(reverts.KindInsufficientFunds, "%s: insufficient balance", b.asset)
	}
	custody, err := fixedpoint.Add(b.custody, amount)
	if err != nil {
		return reverts.Newf(reverts.KindOverflow, "%s: custody overflow", b.asset)
	}
	b.balances[from] = new(uint256.Int).Sub(bal, amount)
	b.custody = custody
	return nil
}

// TransferOut moves amount from custody to addr.
func (b *Book) TransferOut(to thor.Address, amount *uint256.Int) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.custody.Lt(amount) {
		return reverts.Newf(reverts.KindInsufficientFunds, "%s: insufficient custody", b.asset)
	}
	bal, err := fixedpoint.Add(b.balance(to), amount)
	if err != nil {
		return reverts.Newf(reverts.KindOverflow, "%s: balance overflow", b.asset)
	}
	b.custody = new(uint256.Int).Sub(b.custody, amount)
	b.balances[to] = bal
	return nil
}
