// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"bytes"
	"sort"
	"sync"

	"github.com/vechain/rewardpool/thor"
)

// Set is an in-memory owner plus distributor list.
type Set struct {
	lock         sync.RWMutex
	owner        thor.Address
	distributors map[thor.Address]bool
}

// New create a new set owned by owner.
func New(owner thor.Address, distributors ...thor.Address) *Set {
	s := &Set{
		owner:        owner,
		distributors: make(map[thor.Address]bool),
	}
	for _, d := range distributors {
		s.distributors[d] = true
	}
	return s
}

func (s *Set) Owner() thor.Address { return s.owner }

func (s *Set) IsOwner(addr thor.Address) bool {
	return addr == s.owner
}

func (s *Set) IsDistributor(addr thor.Address) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.distributors[addr]
}

// SetDistributor grants or revokes the distributor role.
func (s *Set) SetDistributor(addr thor.Address, enabled bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if enabled {
		s.distributors[addr] = true
	} else {
		delete(s.distributors, addr)
	}
}

// Distributors returns the current distributors in address order.
func (s *Set) Distributors() []thor.Address {
	s.lock.RLock()
	defer s.lock.RUnlock()

	list := make([]thor.Address, 0, len(s.distributors))
	for d := range s.distributors {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i][:], list[j][:]) < 0
	})
	return list
}
