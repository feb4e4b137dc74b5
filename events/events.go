// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines what a pool reports about committed state changes.
package events

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

// Kind of event.
type Kind uint8

const (
	RewardFunded Kind = iota + 1
	Staked
	Withdrawn
	RewardPaid
	StakeDateUpdated
)

var kindNames = map[Kind]string{
	RewardFunded:     "RewardFunded",
	Staked:           "Staked",
	Withdrawn:        "Withdrawn",
	RewardPaid:       "RewardPaid",
	StakeDateUpdated: "StakeDateUpdated",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is emitted once the operation producing it has committed.
// Amount is nil for StakeDateUpdated, which carries StakeDate instead.
type Event struct {
	Kind      Kind
	Account   thor.Address
	Amount    *uint256.Int
	StakeDate uint64
	Time      uint64
}

func (e *Event) String() string {
	if e.Kind == StakeDateUpdated {
		return fmt.Sprintf("%v(%v, stakeDate=%d) @%d", e.Kind, e.Account, e.StakeDate, e.Time)
	}
	return fmt.Sprintf("%v(%v, %v) @%d", e.Kind, e.Account, e.Amount, e.Time)
}
