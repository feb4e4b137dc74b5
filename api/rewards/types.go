// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// NotifyRequest is the body of a signed reward notification.
type NotifyRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Funding is the reward schedule after a notification.
type Funding struct {
	RewardRate      *math.HexOrDecimal256 `json:"rewardRate"`
	PeriodFinish    uint64                `json:"periodFinish"`
	RemainingReward *math.HexOrDecimal256 `json:"remainingReward"`
}
