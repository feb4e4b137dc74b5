// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/thor"
)

// DefaultLimit is the page size when the query names none.
const DefaultLimit = 100

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the history resource. limit caps the page size.
func New(db *eventdb.EventDB, limit uint64) *Events {
	if limit == 0 {
		limit = DefaultLimit
	}
	return &Events{db, limit}
}

func parseUint(query map[string][]string, name string) (uint64, bool, error) {
	values, ok := query[name]
	if !ok || len(values) == 0 || values[0] == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(values[0], 10, 64)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, true, nil
}

func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Order:   eventdb.ASC,
		Options: &eventdb.Options{Limit: min(DefaultLimit, e.limit)},
	}

	if s := query.Get("account"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = addr
	}
	if s := query.Get("kind"); s != "" {
		kind, err := events.ParseKind(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "kind"))
		}
		filter.Kind = &kind
	}
	switch order := query.Get("order"); order {
	case "", "asc":
	case "desc":
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unsupported %q", order))
	}

	from, hasFrom, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if hasTo && to < from {
			return nil, utils.BadRequest(errors.New("to: less than from"))
		}
		filter.Range = &eventdb.Range{From: from, To: to}
	}

	limit, hasLimit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	if hasLimit {
		if limit > e.limit {
			return nil, utils.Forbidden(errors.Errorf("limit: exceeds %d", e.limit))
		}
		filter.Options.Limit = limit
	}
	offset, _, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	filter.Options.Offset = offset
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	recs, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	list := make([]*Event, 0, len(recs))
	for _, rec := range recs {
		list = append(list, convertRecord(rec))
	}
	return utils.WriteJSON(w, list)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
