// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package status

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/pool"
)

type Status struct {
	pool *pool.Pool
}

func New(pool *pool.Pool) *Status {
	return &Status{pool}
}

func (s *Status) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, convertPool(s.pool.PoolInfo()))
}

func (s *Status) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
}
