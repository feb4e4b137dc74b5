// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb keeps the ledger in goleveldb. Every write is synced, so a
// committed batch survives a crash of the process or the host.
package lvldb

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

var logger = log.WithContext("pkg", "lvldb")

var (
	metricBatchWrites   = metrics.LazyLoadCounter("ledgerdb_batch_writes_count")
	metricBatchOps      = metrics.LazyLoadCounter("ledgerdb_batch_ops_count")
	metricBatchDuration = metrics.LazyLoadHistogramVec("ledgerdb_batch_write_duration_ms", []string{"result"}, []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000})
)

var _ kv.StoreCloser = (*LevelDB)(nil)

// minCacheMB is small on purpose: ledger records are a few hundred bytes and
// hot accounts are cached above the database.
const minCacheMB = 8

// Options tunes a persistent ledger database.
type Options struct {
	CacheMB int // block cache plus write buffers, at least minCacheMB
}

var (
	writeOpt = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
)

// LevelDB is a kv.Store over goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the ledger database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open ledger storage %v", path)
	}
	ldb, err := open(stg, opts.CacheMB)
	if err != nil {
		stg.Close()
		return nil, err
	}
	logger.Debug("ledger database opened", "path", path, "cacheMB", max(opts.CacheMB, minCacheMB))
	return ldb, nil
}

// NewMem creates a database that lives as long as the process.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), 0)
}

func open(stg storage.Storage, cacheMB int) (*LevelDB, error) {
	cacheMB = max(cacheMB, minCacheMB)
	db, err := leveldb.Open(stg, &opt.Options{
		BlockCacheCapacity: cacheMB / 2 * opt.MiB,
		WriteBuffer:        cacheMB / 4 * opt.MiB,
		Filter:             filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open ledger database")
	}
	return &LevelDB{db: db}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error matched by IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// NewBatch starts an atomic group of writes.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{db: ldb.db}
}

// NewIterator iterates over keys in [r.Start, r.Limit).
func (ldb *LevelDB) NewIterator(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

type batch struct {
	db  *leveldb.DB
	ops leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.ops.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops.Delete(key)
	return nil
}

func (b *batch) Len() int {
	return b.ops.Len()
}

// Write applies all queued ops at once and empties the batch. Nothing is
// applied when it fails.
func (b *batch) Write() error {
	n := b.ops.Len()
	if n == 0 {
		return nil
	}
	start := time.Now()
	err := b.db.Write(&b.ops, &writeOpt)

	result := "ok"
	if err != nil {
		result = "failed"
	} else {
		b.ops.Reset()
		metricBatchWrites().Add(1)
		metricBatchOps().Add(int64(n))
	}
	metricBatchDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"result": result})
	return pkgerrors.Wrap(err, "write ledger batch")
}
