// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"crypto/ecdsa"
	"encoding/binary"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/dsa"
	"github.com/vechain/rewardpool/thor"
)

// Headers carrying the caller's signature of a mutating request.
const (
	SignatureHeader = "X-Signature"
	TimestampHeader = "X-Signature-Timestamp"
)

const (
	maxSignedBody   = 64 * 1024
	signatureMaxAge = 5 * time.Minute
	seenSignatures  = 16384
)

// SigningHash is the hash a caller signs to authorize a request.
func SigningHash(method, path string, timestamp int64, body []byte) thor.Bytes32 {
	return thor.Blake2b(
		[]byte(method+" "+path),
		binary.BigEndian.AppendUint64(nil, uint64(timestamp)),
		body,
	)
}

// SignRequest signs req, whose body is body, with key at timestamp.
func SignRequest(req *http.Request, body []byte, key *ecdsa.PrivateKey, timestamp time.Time) error {
	sig, err := dsa.Sign(SigningHash(req.Method, req.URL.Path, timestamp.Unix(), body), key)
	if err != nil {
		return err
	}
	req.Header.Set(TimestampHeader, strconv.FormatInt(timestamp.Unix(), 10))
	req.Header.Set(SignatureHeader, hexutil.Encode(sig))
	return nil
}

// Authenticator resolves the caller of a signed request. A signed request is
// accepted once, within signatureMaxAge of its timestamp.
type Authenticator struct {
	now func() time.Time

	lock sync.Mutex
	seen *cache.LRU
}

// NewAuthenticator creates an authenticator on the wall clock.
func NewAuthenticator() *Authenticator {
	return newAuthenticator(time.Now)
}

func newAuthenticator(now func() time.Time) *Authenticator {
	seen, _ := cache.NewLRU(seenSignatures)
	return &Authenticator{now: now, seen: seen}
}

func unauthorized(err error) error {
	return HTTPError(err, http.StatusUnauthorized)
}

// Caller reads the whole body of req and returns it with the signer.
func (a *Authenticator) Caller(req *http.Request) (thor.Address, []byte, error) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxSignedBody+1))
	if err != nil {
		return thor.Address{}, nil, BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body) > maxSignedBody {
		return thor.Address{}, nil, HTTPError(errors.New("body: too large"), http.StatusRequestEntityTooLarge)
	}

	sig, err := hexutil.Decode(req.Header.Get(SignatureHeader))
	if err != nil || len(sig) != dsa.SignatureLength {
		return thor.Address{}, nil, unauthorized(errors.Errorf("%s: a %d byte hex signature is required", SignatureHeader, dsa.SignatureLength))
	}
	timestamp, err := strconv.ParseInt(req.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return thor.Address{}, nil, unauthorized(errors.Errorf("%s: unix seconds required", TimestampHeader))
	}
	if age := a.now().Sub(time.Unix(timestamp, 0)); age > signatureMaxAge || age < -signatureMaxAge {
		return thor.Address{}, nil, unauthorized(errors.Errorf("%s: %d is outside the accepted window", TimestampHeader, timestamp))
	}

	hash := SigningHash(req.Method, req.URL.Path, timestamp, body)
	signer, err := dsa.Signer(hash, sig)
	if err != nil {
		return thor.Address{}, nil, unauthorized(errors.WithMessage(err, "signature"))
	}

	// keyed by what was signed, not by the signature bytes, which are malleable
	key := thor.Blake2b(hash[:], signer[:])
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.seen.Contains(key) {
		return thor.Address{}, nil, unauthorized(errors.New("signature: already used"))
	}
	a.seen.Add(key, struct{}{})
	return signer, body, nil
}
