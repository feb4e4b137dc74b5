// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/thor"
)

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	var evs []*events.Event
	for i := range uint64(10) {
		who := alice
		if i%2 == 1 {
			who = bob
		}
		evs = append(evs, &events.Event{Kind: events.Staked, Account: who, Amount: uint256.NewInt(i * 100), Time: i})
	}
	evs = append(evs, &events.Event{Kind: events.StakeDateUpdated, Account: alice, StakeDate: 3, Time: 10})
	require.NoError(t, db.Insert(ctx, evs))
	require.NoError(t, db.Insert(ctx, nil))

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, evs[3], all[3].Event)
	assert.Nil(t, all[10].Amount)
	assert.Equal(t, uint64(3), all[10].StakeDate)

	kind := events.Staked
	recs, err := db.Filter(ctx, &eventdb.Filter{
		Account: &alice,
		Kind:    &kind,
		Range:   &eventdb.Range{From: 2, To: 8},
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Offset: 0, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(8), recs[0].Time)
	assert.Equal(t, uint64(6), recs[1].Time)

	recs, err = db.Filter(ctx, &eventdb.Filter{Range: &eventdb.Range{From: 9}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, bob, recs[0].Account)
}
