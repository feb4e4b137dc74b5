// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/pool"
)

type Rewards struct {
	pool *pool.Pool
	auth *utils.Authenticator
}

func New(pool *pool.Pool, auth *utils.Authenticator) *Rewards {
	return &Rewards{pool, auth}
}

// handleNotify funds rewards from the distributor that signed the request.
func (r *Rewards) handleNotify(w http.ResponseWriter, req *http.Request) error {
	caller, data, err := r.auth.Caller(req)
	if err != nil {
		return err
	}
	var body NotifyRequest
	if err := utils.ParseJSON(bytes.NewReader(data), &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := r.pool.NotifyReward(caller, amount); err != nil {
		return utils.RevertError(err)
	}

	info := r.pool.PoolInfo()
	return utils.WriteJSON(w, &Funding{
		RewardRate:      utils.Amount(info.Pool.RewardRate),
		PeriodFinish:    info.Pool.PeriodFinish,
		RemainingReward: utils.Amount(info.Pool.RemainingReward),
	})
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /rewards").
		HandlerFunc(utils.WrapHandlerFunc(r.handleNotify))
}
