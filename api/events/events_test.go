// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func newRouter(t *testing.T, limit uint64) *mux.Router {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var evs []*events.Event
	for i := range uint64(6) {
		who := alice
		if i%2 == 1 {
			who = bob
		}
		evs = append(evs,
			&events.Event{Kind: events.StakeDateUpdated, Account: who, StakeDate: i * 10, Time: i * 10},
			&events.Event{Kind: events.Staked, Account: who, Amount: uint256.NewInt(100 + i), Time: i * 10},
		)
	}
	require.NoError(t, db.Insert(context.Background(), evs))

	router := mux.NewRouter()
	New(db, limit).Mount(router, "/events")
	return router
}

func get(t *testing.T, router *mux.Router, query string) ([]*Event, int) {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events"+query, nil))
	if rr.Code != http.StatusOK {
		return nil, rr.Code
	}
	var list []*Event
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	return list, rr.Code
}

func TestFilter(t *testing.T) {
	router := newRouter(t, 0)

	all, _ := get(t, router, "")
	require.Len(t, all, 12)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, "StakeDateUpdated", all[0].Kind)
	assert.Nil(t, all[0].Amount)

	staked, _ := get(t, router, "?kind=Staked&account="+bob.String())
	require.Len(t, staked, 3)
	for i, ev := range staked {
		assert.Equal(t, bob, ev.Account)
		assert.Equal(t, uint64(101+2*i), (*big.Int)(ev.Amount).Uint64())
	}

	ranged, _ := get(t, router, "?kind=Staked&from=10&to=30")
	require.Len(t, ranged, 3)
	assert.Equal(t, uint64(10), ranged[0].Time)
	assert.Equal(t, uint64(30), ranged[2].Time)

	open, _ := get(t, router, "?kind=Staked&from=40")
	require.Len(t, open, 2)

	page, _ := get(t, router, "?order=desc&limit=2&offset=1")
	require.Len(t, page, 2)
	assert.Equal(t, uint64(11), page[0].Seq)
	assert.Equal(t, uint64(10), page[1].Seq)
}

func TestLimit(t *testing.T) {
	router := newRouter(t, 5)

	list, _ := get(t, router, "")
	assert.Len(t, list, 5)

	_, code := get(t, router, "?limit=6")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestBadQuery(t *testing.T) {
	router := newRouter(t, 0)

	for _, query := range []string{
		"?account=0x01",
		"?kind=Minted",
		"?from=abc",
		"?from=20&to=10",
		"?order=random",
		"?limit=-1",
	} {
		_, code := get(t, router, query)
		assert.Equal(t, http.StatusBadRequest, code, query)
	}
}
