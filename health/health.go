// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/thor"
)

type Journal struct {
	LastCommit *time.Time `json:"lastCommit"`
	Commits    uint64     `json:"commits"`
	LastError  string     `json:"lastError,omitempty"`
}

type Status struct {
	Healthy bool     `json:"healthy"`
	Journal *Journal `json:"journal"`
}

// Health tracks whether committed operations reach the journal.
type Health struct {
	lock       sync.RWMutex
	lastCommit time.Time
	commits    uint64
	lastErr    error
}

// Committed records the outcome of one journal write.
func (h *Health) Committed(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err != nil {
		h.lastErr = err
		return
	}
	h.lastCommit = time.Now()
	h.commits++
	h.lastErr = nil
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	j := &Journal{Commits: h.commits}
	if !h.lastCommit.IsZero() {
		ts := h.lastCommit
		j.LastCommit = &ts
	}
	if h.lastErr != nil {
		j.LastError = h.lastErr.Error()
	}
	return &Status{
		Healthy: h.lastErr == nil,
		Journal: j,
	}
}

// Track wraps j so that every commit outcome is recorded in h.
func (h *Health) Track(j pool.Journal) pool.Journal {
	return &trackedJournal{j, h}
}

type trackedJournal struct {
	journal pool.Journal
	health  *Health
}

func (t *trackedJournal) Commit(p *ledger.Pool, accounts map[thor.Address]*ledger.Account) error {
	err := t.journal.Commit(p, accounts)
	t.health.Committed(err)
	return err
}
