// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store persists the committed ledger of a pool in a kv store.
package store

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/thor"
)

var logger = log.WithContext("pkg", "store")

var (
	poolKey         = []byte("p")
	paramsKey       = []byte("c")
	distributorsKey = []byte("d")
	accountBucket = kv.Bucket("a")
	bookBucket    = kv.Bucket("k")
)

// Store reads and writes ledger records. Account encodings, as last
// persisted, are kept in an LRU so unchanged accounts are not rewritten.
type Store struct {
	db       kv.Store
	accounts kv.Getter
	cache    *cache.LRU
}

// New creates a store over db.
func New(db kv.Store, cacheSize int) (*Store, error) {
	c, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "account cache")
	}
	return &Store{
		db:       db,
		accounts: accountBucket.NewGetter(db),
		cache:    c,
	}, nil
}

// get returns nil without error when key is absent.
func get(g kv.Getter, key []byte) ([]byte, error) {
	data, err := g.Get(key)
	if err != nil {
		if g.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Params returns the persisted pool parameters, or nil for a fresh store.
func (s *Store) Params() (*ledger.Params, error) {
	data, err := get(s.db, paramsKey)
	if err != nil || data == nil {
		return nil, errors.Wrap(err, "get params")
	}
	var params ledger.Params
	if err := rlp.DecodeBytes(data, &params); err != nil {
		return nil, errors.Wrap(err, "decode params")
	}
	return &params, nil
}

// SetParams records the parameters the ledger was created with.
func (s *Store) SetParams(params ledger.Params) error {
	data, err := rlp.EncodeToBytes(&params)
	if err != nil {
		return err
	}
	return s.db.Put(paramsKey, data)
}

// Book returns the encoded custody book of asset, nil when none.
func (s *Store) Book(asset string) ([]byte, error) {
	data, err := get(bookBucket.NewGetter(s.db), []byte(asset))
	return data, errors.Wrapf(err, "get book %s", asset)
}

// Distributors returns the persisted distributor list. ok is false when no
// list was ever committed.
func (s *Store) Distributors() (list []thor.Address, ok bool, err error) {
	data, err := get(s.db, distributorsKey)
	if err != nil || data == nil {
		return nil, false, errors.Wrap(err, "get distributors")
	}
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return nil, false, errors.Wrap(err, "decode distributors")
	}
	return list, true, nil
}

// Records are written in the same batch as a ledger change.
type Records struct {
	Books        map[string][]byte // encoded custody books by asset
	Distributors []thor.Address    // nil keeps the stored list
}

func (r *Records) put(batch kv.Putter) error {
	books := bookBucket.NewPutter(batch)
	for asset, data := range r.Books {
		if err := books.Put([]byte(asset), data); err != nil {
			return err
		}
	}
	if r.Distributors == nil {
		return nil
	}
	data, err := rlp.EncodeToBytes(r.Distributors)
	if err != nil {
		return errors.Wrap(err, "encode distributors")
	}
	return batch.Put(distributorsKey, data)
}

// Pool returns the persisted pool record, zero when none.
func (s *Store) Pool() (*ledger.Pool, error) {
	data, err := get(s.db, poolKey)
	if err != nil {
		return nil, errors.Wrap(err, "get pool")
	}
	var p ledger.Pool
	if err := p.Decode(data); err != nil {
		return nil, errors.Wrap(err, "decode pool")
	}
	return &p, nil
}

func (s *Store) encodedAccount(addr thor.Address) ([]byte, error) {
	v, err := s.cache.GetOrLoad(addr, func(any) (any, error) {
		return get(s.accounts, addr.Bytes())
	})
	if err != nil {
		return nil, err
	}
	if changed, hit, miss := s.cache.Stats().Stats(); changed {
		logger.Debug("account cache stats", "hit", hit, "miss", miss, "rate", s.cache.Stats().HitRate())
	}
	return v.([]byte), nil
}

// Account returns the persisted account, zero when none.
func (s *Store) Account(addr thor.Address) (*ledger.Account, error) {
	data, err := s.encodedAccount(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get account")
	}
	var acc ledger.Account
	if err := acc.Decode(data); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return &acc, nil
}

// Load rebuilds the whole ledger.
func (s *Store) Load() (*ledger.State, error) {
	p, err := s.Pool()
	if err != nil {
		return nil, err
	}
	state := ledger.NewState()
	state.SetPool(p)

	iter := accountBucket.NewIterable(s.db).NewIterator(kv.Range{})
	defer iter.Release()
	for iter.Next() {
		var acc ledger.Account
		if err := acc.Decode(iter.Value()); err != nil {
			return nil, errors.Wrapf(err, "decode account %x", iter.Key())
		}
		state.SetAccount(thor.BytesToAddress(iter.Key()), &acc)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate accounts")
	}
	if err := state.CheckInvariant(); err != nil {
		return nil, errors.Wrap(err, "corrupted ledger")
	}
	logger.Debug("ledger loaded", "accounts", len(state.Addresses()), "totalStaked", p.TotalStaked)
	return state, nil
}

// Commit writes the pool, the given accounts and rec in one batch. Empty
// accounts are deleted.
func (s *Store) Commit(p *ledger.Pool, accounts map[thor.Address]*ledger.Account, rec *Records) error {
	poolData, err := p.Encode()
	if err != nil {
		return errors.Wrap(err, "encode pool")
	}

	batch := s.db.NewBatch()
	putter := accountBucket.NewPutter(batch)
	if err := batch.Put(poolKey, poolData); err != nil {
		return err
	}

	written := make(map[thor.Address][]byte, len(accounts))
	for addr, acc := range accounts {
		data, err := acc.Encode()
		if err != nil {
			return errors.Wrapf(err, "encode account %v", addr)
		}
		if prev, ok := s.cache.Get(addr); ok && bytes.Equal(prev.([]byte), data) {
			continue
		}
		if len(data) == 0 {
			err = putter.Delete(addr.Bytes())
		} else {
			err = putter.Put(addr.Bytes(), data)
		}
		if err != nil {
			return err
		}
		written[addr] = data
	}
	if rec != nil {
		if err := rec.put(batch); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	for addr, data := range written {
		s.cache.Add(addr, data)
	}
	return nil
}
