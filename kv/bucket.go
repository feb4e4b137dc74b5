// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) withKey(key []byte, fn func(k []byte) error) error {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], b...), key...)
	return fn(buf.k)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			err = b.withKey(key, func(k []byte) error {
				val, err = src.Get(k)
				return err
			})
			return
		},
		func(key []byte) (has bool, err error) {
			err = b.withKey(key, func(k []byte) error {
				has, err = src.Has(k)
				return err
			})
			return
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			return b.withKey(key, func(k []byte) error { return src.Put(k, val) })
		},
		func(key []byte) error {
			return b.withKey(key, func(k []byte) error { return src.Delete(k) })
		},
	}
}

// NewIterable creates an iterable over the bucket only. Keys returned by
// its iterators have the bucket stripped.
func (b Bucket) NewIterable(src Iterable) Iterable {
	return NewIteratorFunc(func(r Range) Iterator {
		start := append([]byte(b), r.Start...)
		var limit []byte
		if len(r.Limit) == 0 {
			limit = util.BytesPrefix([]byte(b)).Limit
		} else {
			limit = append([]byte(b), r.Limit...)
		}
		return &bucketIterator{src.NewIterator(Range{Start: start, Limit: limit}), len(b)}
	})
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

// Key strips the bucket.
func (i *bucketIterator) Key() []byte { return i.Iterator.Key()[i.prefixLen:] }

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
