// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/thor"
)

type Event struct {
	Seq       uint64                `json:"seq"`
	Kind      string                `json:"kind"`
	Account   thor.Address          `json:"account"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	StakeDate uint64                `json:"stakeDate,omitempty"`
	Time      uint64                `json:"time"`
}

func convertRecord(rec *eventdb.Record) *Event {
	return &Event{
		Seq:       rec.Seq,
		Kind:      rec.Kind.String(),
		Account:   rec.Account,
		Amount:    utils.Amount(rec.Amount),
		StakeDate: rec.StakeDate,
		Time:      rec.Time,
	}
}
