// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributors

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/thor"
)

// Lister lists the addresses currently allowed to fund rewards.
type Lister interface {
	Distributors() []thor.Address
}

// Request is the body of a distributor update, signed by the owner.
type Request struct {
	Distributor *thor.Address `json:"distributor"`
	Enabled     bool          `json:"enabled"`
}

type Response struct {
	Distributors []thor.Address `json:"distributors"`
}

type Distributors struct {
	pool   *pool.Pool
	lister Lister
	auth   *utils.Authenticator
}

func New(pool *pool.Pool, lister Lister, auth *utils.Authenticator) *Distributors {
	return &Distributors{pool, lister, auth}
}

func (d *Distributors) list(w http.ResponseWriter) error {
	list := d.lister.Distributors()
	if list == nil {
		list = []thor.Address{}
	}
	return utils.WriteJSON(w, Response{Distributors: list})
}

func (d *Distributors) handleGetDistributors(w http.ResponseWriter, _ *http.Request) error {
	return d.list(w)
}

func (d *Distributors) handleSetDistributor(w http.ResponseWriter, req *http.Request) error {
	caller, data, err := d.auth.Caller(req)
	if err != nil {
		return err
	}
	var body Request
	if err := utils.ParseJSON(bytes.NewReader(data), &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Distributor == nil {
		return utils.BadRequest(errors.New("distributor: required"))
	}
	if err := d.pool.SetDistributor(caller, *body.Distributor, body.Enabled); err != nil {
		return utils.RevertError(err)
	}
	return d.list(w)
}

func (d *Distributors) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("get-distributors").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDistributors))
	sub.Path("").
		Methods(http.MethodPost).
		Name("post-distributors").
		HandlerFunc(utils.WrapHandlerFunc(d.handleSetDistributor))
}
