// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

var (
	logger = log.WithContext("pkg", "eventdb")

	metricStoredEvents = metrics.LazyLoadCounter("eventdb_stored_count")
	metricInsertErrors = metrics.LazyLoadCounter("eventdb_insert_errors_count")
)

const maxBatch = 256

// Source publishes committed events.
type Source interface {
	SubscribeEvent(ch chan<- *events.Event) event.Subscription
}

// Follow stores every event published by src until ctx is done or the
// subscription ends. Events pending at the same time are stored in one
// transaction. A failed insert is logged and the batch dropped.
func (db *EventDB) Follow(ctx context.Context, src Source) error {
	ch := make(chan *events.Event, maxBatch)
	sub := src.SubscribeEvent(ch)
	if sub == nil {
		return errors.New("event source closed")
	}
	defer sub.Unsubscribe()

	batch := make([]*events.Event, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case ev := <-ch:
			batch = append(batch[:0], ev)
		drain:
			for len(batch) < maxBatch {
				select {
				case ev := <-ch:
					batch = append(batch, ev)
				default:
					break drain
				}
			}
			if err := db.Insert(ctx, batch); err != nil {
				metricInsertErrors().Add(1)
				logger.Warn("failed to store events", "count", len(batch), "err", err)
				continue
			}
			metricStoredEvents().Add(int64(len(batch)))
		}
	}
}
