// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/admin/apilogs"
	"github.com/vechain/rewardpool/api/admin/distributors"
	"github.com/vechain/rewardpool/api/admin/loglevel"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/pool"

	healthAPI "github.com/vechain/rewardpool/api/admin/health"
)

func New(
	logLevel *slog.LevelVar,
	apiLogs *atomic.Bool,
	health *health.Health,
	p *pool.Pool,
	lister distributors.Lister,
) http.HandlerFunc {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(subRouter, "/loglevel")
	apilogs.New(apiLogs).Mount(subRouter, "/apilogs")
	healthAPI.New(health).Mount(subRouter, "/health")
	distributors.New(p, lister, utils.NewAuthenticator()).Mount(subRouter, "/distributors")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
