// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/thor"
)

type Accounts struct {
	pool *pool.Pool
	auth *utils.Authenticator
}

func New(pool *pool.Pool, auth *utils.Authenticator) *Accounts {
	return &Accounts{pool, auth}
}

func (a *Accounts) account(addr thor.Address) (*Account, error) {
	earned, err := a.pool.Earned(addr)
	if err != nil {
		return nil, err
	}
	acc := a.pool.Account(addr)
	return &Account{
		Balance:       utils.Amount(acc.Balance),
		Earned:        utils.Amount(earned),
		Accrued:       utils.Amount(acc.Accrued),
		RewardClaimed: utils.Amount(acc.RewardClaimed),
		StakeDate:     acc.StakeDate,
		UnlockTime:    a.pool.UnlockTime(addr),
	}, nil
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	acc, err := a.account(addr)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, acc)
}

// handleAction runs an account operation signed by the account itself and
// responds the updated account.
func (a *Accounts) handleAction(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	action := mux.Vars(req)["action"]
	switch action {
	case "stake", "withdraw", "claim", "exit":
	default:
		return utils.HTTPError(errors.Errorf("unknown action %q", action), http.StatusNotFound)
	}

	caller, data, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	if caller != addr {
		return utils.Forbidden(errors.Errorf("signer %v is not the account", caller))
	}

	switch action {
	case "stake", "withdraw":
		var body AmountRequest
		if err := utils.ParseJSON(bytes.NewReader(data), &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		amount, err := utils.ParseAmount(body.Amount)
		if err != nil {
			return utils.BadRequest(err)
		}
		if action == "stake" {
			err = a.pool.Stake(caller, amount)
		} else {
			err = a.pool.Withdraw(caller, amount)
		}
		if err != nil {
			return utils.RevertError(err)
		}
	case "claim":
		if err := a.pool.Claim(caller); err != nil {
			return utils.RevertError(err)
		}
	case "exit":
		if err := a.pool.Exit(caller); err != nil {
			return utils.RevertError(err)
		}
	}

	acc, err := a.account(addr)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/{action}").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/{action}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAction))
}
