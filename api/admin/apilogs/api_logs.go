// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/log"
)

var logger = log.WithContext("pkg", "apilogs")

// LogStatus reports whether every API request is logged.
type LogStatus struct {
	Enabled *bool `json:"enabled"`
}

// APILogs toggles the request logger of the public API at runtime.
type APILogs struct {
	enabled *atomic.Bool
}

func New(enabled *atomic.Bool) *APILogs {
	return &APILogs{enabled}
}

func (a *APILogs) status() LogStatus {
	enabled := a.enabled.Load()
	return LogStatus{&enabled}
}

func (a *APILogs) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, a.status())
}

func (a *APILogs) handleSet(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if req.Enabled == nil {
		return utils.BadRequest(errors.New("body: enabled is required"))
	}
	if prev := a.enabled.Swap(*req.Enabled); prev != *req.Enabled {
		logger.Info("api logs updated", "enabled", *req.Enabled)
	}
	return utils.WriteJSON(w, a.status())
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSet))
}
