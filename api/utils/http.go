// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/reverts"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// RevertError responds a failed pool operation with the status matching its
// revert kind. Other errors are returned as is.
func RevertError(err error) error {
	kind, ok := reverts.KindOf(err)
	if !ok {
		return err
	}
	switch kind {
	case reverts.KindUnauthorized:
		return Forbidden(err)
	case reverts.KindLocked:
		return HTTPError(err, http.StatusConflict)
	case reverts.KindInsufficientFunds:
		return HTTPError(err, http.StatusPaymentRequired)
	default:
		return BadRequest(err)
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			var he *httpError
			if errors.As(err, &he) {
				if he.cause != nil {
					http.Error(w, he.cause.Error(), he.status)
				} else {
					w.WriteHeader(he.status)
				}
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParseAmount converts a JSON amount. A missing amount is an error.
func ParseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("amount: required")
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("amount: negative")
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("amount: exceeds 256 bits")
	}
	return amount, nil
}

// Amount converts an amount for JSON output.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}
