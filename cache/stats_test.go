// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	var cs Stats
	assert.Equal(t, float64(0), cs.HitRate())

	changed, hit, miss := cs.Stats()
	assert.False(t, changed)
	assert.Zero(t, hit)
	assert.Zero(t, miss)

	cs.Hit()
	cs.Miss()
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
	assert.Equal(t, 0.5, cs.HitRate())

	// same rate
	cs.Hit()
	cs.Miss()
	changed, _, _ = cs.Stats()
	assert.False(t, changed)

	assert.Equal(t, int64(3), cs.Hit())
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
}
