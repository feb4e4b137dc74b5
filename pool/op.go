// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/events"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/reverts"
	"github.com/vechain/rewardpool/thor"
)

// op is one operation in progress.
type op struct {
	tx     *ledger.Tx
	now    uint64
	events []*events.Event
	undo   []func() error
}

func (o *op) emit(ev *events.Event) {
	ev.Time = o.now
	o.events = append(o.events, ev)
}

func (o *op) transferIn(t Transferer, from thor.Address, amount *uint256.Int) error {
	if err := t.TransferIn(from, amount); err != nil {
		return err
	}
	o.undo = append(o.undo, func() error { return t.TransferOut(from, amount) })
	return nil
}

func (o *op) transferOut(t Transferer, to thor.Address, amount *uint256.Int) error {
	if err := t.TransferOut(to, amount); err != nil {
		return err
	}
	o.undo = append(o.undo, func() error { return t.TransferIn(to, amount) })
	return nil
}

// revert undoes completed transfers, last first.
func (o *op) revert(name string) {
	for i := len(o.undo) - 1; i >= 0; i-- {
		if err := o.undo[i](); err != nil {
			logger.Error("failed to undo transfer", "op", name, "err", err)
		}
	}
}

func failReason(err error) string {
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

// exec runs fn under the pool lock. On failure every change made by fn is
// undone; on success the change is journaled and its events published.
func (p *Pool) exec(name string, fn func(o *op) error) error {
	p.lock.Lock()

	o := &op{
		tx:  p.state.Begin(),
		now: p.clock.Now(),
	}
	if err := fn(o); err != nil {
		o.revert(name)
		o.tx.Rollback()
		p.prune(o.tx)
		p.lock.Unlock()

		metricOpsFailed().AddWithLabel(1, map[string]string{"op": name, "reason": failReason(err)})
		logger.Debug("operation failed", "op", name, "err", err)
		return err
	}
	p.persist(o.tx)
	p.prune(o.tx)
	p.updateGauges()

	// hand over to the send lock so that events keep commit order
	p.sendLock.Lock()
	p.lock.Unlock()
	defer p.sendLock.Unlock()

	metricOps().AddWithLabel(1, map[string]string{"op": name})
	for _, ev := range o.events {
		logger.Debug(ev.Kind.String(), "account", ev.Account, "amount", ev.Amount, "stakeDate", ev.StakeDate, "time", ev.Time)
		p.feed.Send(ev)
	}
	return nil
}

func (p *Pool) persist(tx *ledger.Tx) {
	if p.journal == nil {
		return
	}
	touched := tx.Touched()
	accounts := make(map[thor.Address]*ledger.Account, len(touched))
	for _, addr := range touched {
		accounts[addr] = tx.Account(addr)
	}
	if err := p.journal.Commit(tx.Pool(), accounts); err != nil {
		metricJournalErrors().Add(1)
		logger.Error("failed to journal ledger", "err", err)
	}
}

// prune forgets accounts an operation left empty.
func (p *Pool) prune(tx *ledger.Tx) {
	for _, addr := range tx.Touched() {
		p.state.Remove(addr)
	}
}

func (p *Pool) updateGauges() {
	pool := p.state.Pool()
	metricTotalStaked().Set(gaugeValue(pool.TotalStaked))
	metricRewardRate().Set(gaugeValue(pool.RewardRate))
	metricAccounts().Set(int64(p.state.Len()))
}
