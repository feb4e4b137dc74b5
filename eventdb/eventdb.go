// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/thor"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind INTEGER NOT NULL,
	account BLOB(20) NOT NULL,
	amount TEXT,
	stakeDate INTEGER NOT NULL,
	time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS event_account ON event(account, seq);
CREATE INDEX IF NOT EXISTS event_time ON event(time);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range of event time, both ends included. A zero To is open.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match anything.
type Filter struct {
	Account *thor.Address
	Kind    *events.Kind
	Range   *Range
	Order   OrderType
	Options *Options
}

// Record is a stored event.
type Record struct {
	Seq uint64
	*events.Event
}

// EventDB keeps the history of pool events.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open a event db
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one connection, so that an in-memory db is shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert appends events in one transaction.
func (db *EventDB) Insert(ctx context.Context, evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		var amount any
		if ev.Amount != nil {
			amount = ev.Amount.Dec()
		}
		if _, err = tx.ExecContext(ctx, "INSERT INTO event(kind, account, amount, stakeDate, time) VALUES (?, ?, ?, ?, ?)",
			uint8(ev.Kind),
			ev.Account.Bytes(),
			amount,
			ev.StakeDate,
			ev.Time); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter return events with options
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT seq, kind, account, amount, stakeDate, time FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT seq, kind, account, amount, stakeDate, time FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To > 0 {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if filter.Kind != nil {
		args = append(args, uint8(*filter.Kind))
		stmt += " AND kind = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			seq       uint64
			kind      uint8
			account   []byte
			amount    sql.NullString
			stakeDate uint64
			time      uint64
		)
		if err := rows.Scan(&seq, &kind, &account, &amount, &stakeDate, &time); err != nil {
			return nil, err
		}
		ev := &events.Event{
			Kind:      events.Kind(kind),
			Account:   thor.BytesToAddress(account),
			StakeDate: stakeDate,
			Time:      time,
		}
		if amount.Valid {
			if ev.Amount, err = uint256.FromDecimal(amount.String); err != nil {
				return nil, errors.Wrapf(err, "event %d amount", seq)
			}
		}
		records = append(records, &Record{seq, ev})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Path return db's path
func (db *EventDB) Path() string {
	return db.path
}

// Close close sqlite
func (db *EventDB) Close() error {
	return db.db.Close()
}
