// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/accounts"
	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/middleware"
	"github.com/vechain/rewardpool/api/rewards"
	"github.com/vechain/rewardpool/api/status"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/pool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EventsLimit          uint64
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

// New return api router. The events resource is only mounted with a non nil
// eventDB.
func New(p *pool.Pool, eventDB *eventdb.EventDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	auth := utils.NewAuthenticator()

	status.New(p).
		Mount(router, "/pool")
	accounts.New(p, auth).
		Mount(router, "/accounts")
	rewards.New(p, auth).
		Mount(router, "/rewards")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", utils.SignatureHeader, utils.TimestampHeader}),
	)(handler)

	return handler.ServeHTTP
}
