// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Account for marshal account
type Account struct {
	Balance       *math.HexOrDecimal256 `json:"balance"`
	Earned        *math.HexOrDecimal256 `json:"earned"`
	Accrued       *math.HexOrDecimal256 `json:"accrued"`
	RewardClaimed *math.HexOrDecimal256 `json:"rewardClaimed"`
	StakeDate     uint64                `json:"stakeDate"`
	UnlockTime    uint64                `json:"unlockTime"`
}

// AmountRequest is the body of stake and withdraw requests.
type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}
