// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lockin computes the time-weighted stake date shared by both accrual
// engines and enforces the withdrawal lock-in against it.
package lockin

import (
	"math"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/reverts"
)

// WeightedStakeDate returns the reference date after amt is added on top of
// oldBalance. The effective age of the whole position is the balance weighted
// average of the previous age and zero:
//
//	newDate = prevDate + (now - prevDate) * amt / (oldBalance + amt)
//
// The result is always within [prevDate, now]. A first deposit collapses to now.
func WeightedStakeDate(prevDate, now uint64, oldBalance, amt *uint256.Int) uint64 {
	if now <= prevDate {
		return prevDate
	}
	total, overflow := new(uint256.Int).AddOverflow(oldBalance, amt)
	if overflow || total.IsZero() {
		return prevDate
	}
	elapsed := uint256.NewInt(now - prevDate)
	// elapsed*amt/total <= elapsed since amt <= total, so neither error can occur
	shift, err := fixedpoint.MulDiv(elapsed, amt, total)
	if err != nil {
		return prevDate
	}
	return prevDate + shift.Uint64()
}

// UnlockTime returns the first timestamp at which a position is withdrawable.
// It saturates at math.MaxUint64, meaning never.
func UnlockTime(stakeDate, lockInDuration uint64) uint64 {
	end, carry := bits.Add64(stakeDate, lockInDuration, 0)
	if carry != 0 || end == math.MaxUint64 {
		return math.MaxUint64
	}
	return end + 1
}

// Check fails with a locked revert while now <= stakeDate + lockInDuration.
func Check(stakeDate, lockInDuration, now uint64) error {
	end, carry := bits.Add64(stakeDate, lockInDuration, 0)
	if carry != 0 || now <= end {
		return reverts.Newf(reverts.KindLocked, "funds are locked until %d", UnlockTime(stakeDate, lockInDuration))
	}
	return nil
}
