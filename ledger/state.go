// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

// State is the whole ledger of one pool. It is not safe for concurrent use;
// the owner serializes access.
type State struct {
	pool     *Pool
	accounts map[thor.Address]*Account
}

// NewState returns an empty ledger.
func NewState() *State {
	return &State{
		pool:     NewPool(),
		accounts: make(map[thor.Address]*Account),
	}
}

// Pool returns the live pool record.
func (s *State) Pool() *Pool {
	return s.pool
}

// SetPool replaces the pool record, used when loading from storage.
func (s *State) SetPool(p *Pool) {
	s.pool = p
}

// Lookup returns the account without creating it.
func (s *State) Lookup(addr thor.Address) (*Account, bool) {
	acc, ok := s.accounts[addr]
	return acc, ok
}

// Account returns the live account, creating a zero record on first touch.
func (s *State) Account(addr thor.Address) *Account {
	acc, ok := s.accounts[addr]
	if !ok {
		acc = NewAccount()
		s.accounts[addr] = acc
	}
	return acc
}

// SetAccount stores acc under addr, used when loading from storage.
func (s *State) SetAccount(addr thor.Address, acc *Account) {
	s.accounts[addr] = acc
}

// Remove drops the account if it holds nothing.
func (s *State) Remove(addr thor.Address) {
	if acc, ok := s.accounts[addr]; ok && acc.IsEmpty() {
		delete(s.accounts, addr)
	}
}

// Len returns the number of accounts.
func (s *State) Len() int {
	return len(s.accounts)
}

// Addresses returns all known accounts in byte order.
func (s *State) Addresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i].Bytes()) < string(addrs[j].Bytes())
	})
	return addrs
}

// CheckInvariant verifies that the pool total equals the sum of all balances.
func (s *State) CheckInvariant() error {
	sum := new(uint256.Int)
	for _, acc := range s.accounts {
		sum.Add(sum, acc.Balance)
	}
	if !sum.Eq(s.pool.TotalStaked) {
		return fmt.Errorf("total staked %s does not match sum of balances %s", s.pool.TotalStaked.Dec(), sum.Dec())
	}
	return nil
}

// Tx journals the records an operation touches so the operation can be
// undone as a whole.
type Tx struct {
	state    *State
	pool     *Pool
	original map[thor.Address]*Account // nil value: account did not exist
	order    []thor.Address
}

// Begin opens a transaction on s.
func (s *State) Begin() *Tx {
	return &Tx{
		state:    s,
		pool:     s.pool.Copy(),
		original: make(map[thor.Address]*Account),
	}
}

// Pool returns the live pool record.
func (tx *Tx) Pool() *Pool {
	return tx.state.pool
}

// Account returns the live account after journaling its pre-transaction value.
func (tx *Tx) Account(addr thor.Address) *Account {
	if _, seen := tx.original[addr]; !seen {
		if acc, ok := tx.state.accounts[addr]; ok {
			tx.original[addr] = acc.Copy()
		} else {
			tx.original[addr] = nil
		}
		tx.order = append(tx.order, addr)
	}
	return tx.state.Account(addr)
}

// Touched returns the accounts accessed through tx, in access order.
func (tx *Tx) Touched() []thor.Address {
	return tx.order
}

// Rollback restores every journaled record.
func (tx *Tx) Rollback() {
	tx.state.pool = tx.pool
	for addr, acc := range tx.original {
		if acc == nil {
			delete(tx.state.accounts, addr)
		} else {
			tx.state.accounts[addr] = acc
		}
	}
}
