// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package test holds helpers shared by tests across packages.
package test

import (
	"fmt"
	"time"
)

// Retry calls fn every retryPeriod until it succeeds or maxWaitTime passes.
func Retry(fn func() error, retryPeriod, maxWaitTime time.Duration) error {
	deadline := time.Now().Add(maxWaitTime)
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("retry timeout, latest err: %w", err)
		}
		time.Sleep(retryPeriod)
	}
}
