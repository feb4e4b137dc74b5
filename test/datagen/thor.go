// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

// RandAmount returns an amount in [1, n].
func RandAmount(n uint64) *uint256.Int {
	return uint256.NewInt(uint64(RandIntN(int(n))) + 1)
}
