// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/test/testpool"
)

func TestRoutes(t *testing.T) {
	env := testpool.New(t, testpool.Continuous(100, 0))

	without := httptest.NewServer(New(env.Pool, nil, Options{AllowedOrigins: "*"}))
	defer without.Close()
	_, code := httpGet(t, without.URL+"/events")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, without.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, code)

	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	go db.Follow(context.Background(), env.Pool)

	with := httptest.NewServer(New(env.Pool, db, Options{AllowedOrigins: "*"}))
	defer with.Close()

	body, code := httpGet(t, with.URL+"/events")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))

	body = []byte(`{"amount":"10"}`)
	req, err := http.NewRequest(http.MethodPost, with.URL+"/accounts/"+testpool.Bob.String()+"/stake", bytes.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, utils.SignRequest(req, body, testpool.BobKey, time.Now()))
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, uint64(10), env.Pool.Account(testpool.Bob).Balance.Uint64())
}

func TestCORS(t *testing.T) {
	env := testpool.New(t, testpool.Continuous(100, 0))
	ts := httptest.NewServer(New(env.Pool, nil, Options{AllowedOrigins: "https://app.example"}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/pool", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://app.example", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://other.example")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
