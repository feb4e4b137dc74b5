// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

type entry struct {
	Address thor.Address
	Balance *uint256.Int
}

type snapshot struct {
	Custody  *uint256.Int
	Balances []entry
}

// Encode returns the RLP encoding of the book, balances in address order.
func (b *Book) Encode() ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	s := snapshot{Custody: b.custody}
	for addr, bal := range b.balances {
		if bal.IsZero() {
			continue
		}
		s.Balances = append(s.Balances, entry{addr, bal})
	}
	sort.Slice(s.Balances, func(i, j int) bool {
		return bytes.Compare(s.Balances[i].Address[:], s.Balances[j].Address[:]) < 0
	})
	return rlp.EncodeToBytes(&s)
}

// Decode replaces the content of the book.
func (b *Book) Decode(data []byte) error {
	var s snapshot
	if err := rlp.DecodeBytes(data, &s); err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.custody = s.Custody
	b.balances = make(map[thor.Address]*uint256.Int, len(s.Balances))
	for _, e := range s.Balances {
		b.balances[e.Address] = e.Balance
	}
	return nil
}
