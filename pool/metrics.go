// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/metrics"
)

var (
	metricOps           = metrics.LazyLoadCounterVec("pool_ops_count", []string{"op"})
	metricOpsFailed     = metrics.LazyLoadCounterVec("pool_ops_failed_count", []string{"op", "reason"})
	metricJournalErrors = metrics.LazyLoadCounter("pool_journal_errors_count")
	metricTotalStaked   = metrics.LazyLoadGauge("pool_total_staked")
	metricRewardRate    = metrics.LazyLoadGauge("pool_reward_rate")
	metricAccounts      = metrics.LazyLoadGauge("pool_accounts")
)

// gaugeValue saturates v into a gauge value.
func gaugeValue(v *uint256.Int) int64 {
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Uint64())
}
