// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// HitRate returns the ratio of hits over lookups, zero before any lookup.
func (cs *Stats) HitRate() float64 {
	hit, miss := cs.hit.Load(), cs.miss.Load()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}

// Stats returns the hit and miss counts, and whether the hit rate moved by
// at least 0.1% since the previous call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.hit.Load(), cs.miss.Load()
	rate := float64(0)
	if hit+miss > 0 {
		rate = float64(hit) / float64(hit+miss)
	}
	permille := int32(rate * 1000)
	return cs.permille.Swap(permille) != permille, hit, miss
}
