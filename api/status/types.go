// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package status

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/thor"
)

type Params struct {
	ID             thor.Bytes32 `json:"id"`
	Engine         string       `json:"engine"`
	RewardDuration uint64       `json:"rewardDuration"`
	LockInDuration uint64       `json:"lockInDuration"`
	APYBasisPoints uint64       `json:"apyBasisPoints,omitempty"`
}

// Pool for marshal pool info
type Pool struct {
	Params              Params                `json:"params"`
	TotalStaked         *math.HexOrDecimal256 `json:"totalStaked"`
	RewardRate          *math.HexOrDecimal256 `json:"rewardRate"`
	RewardPerUnitStored *math.HexOrDecimal256 `json:"rewardPerUnitStored"`
	LastUpdateTime      uint64                `json:"lastUpdateTime"`
	PeriodFinish        uint64                `json:"periodFinish"`
	RemainingReward     *math.HexOrDecimal256 `json:"remainingReward"`
	Accounts            int                   `json:"accounts"`
}

func convertPool(info *pool.Info) *Pool {
	return &Pool{
		Params: Params{
			ID:             info.Params.ID(),
			Engine:         string(info.Params.Engine),
			RewardDuration: info.Params.RewardDuration,
			LockInDuration: info.Params.LockInDuration,
			APYBasisPoints: info.Params.APYBasisPoints,
		},
		TotalStaked:         utils.Amount(info.Pool.TotalStaked),
		RewardRate:          utils.Amount(info.Pool.RewardRate),
		RewardPerUnitStored: utils.Amount(info.Pool.RewardPerUnitStored),
		LastUpdateTime:      info.Pool.LastUpdateTime,
		PeriodFinish:        info.Pool.PeriodFinish,
		RemainingReward:     utils.Amount(info.Pool.RemainingReward),
		Accounts:            info.Accounts,
	}
}
