// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api"
	"github.com/vechain/rewardpool/api/admin"
	"github.com/vechain/rewardpool/authority"
	"github.com/vechain/rewardpool/config"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/pool"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "rewardpool",
		Usage:     "Staking reward pool ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAdminFlag,
			adminAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			disableNTPFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.String(configFlag.Name) == "" {
		return fmt.Errorf("missing required flag --%s", configFlag.Name)
	}
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	instanceDir := "Memory"
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx.String(dataDirFlag.Name), cfg.Params()); err != nil {
			return err
		}
	}

	cacheSize, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return fmt.Errorf("parse %s flag: %w", cacheFlag.Name, err)
	}
	ledgerDB, st, err := openLedger(instanceDir, cacheSize)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger database..."); ledgerDB.Close() }()

	eventDB, err := openEventDB(instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	books := newBooks()
	state, distributors, err := restore(st, cfg, books)
	if err != nil {
		return err
	}

	auth := authority.New(cfg.Owner, distributors...)
	poolHealth := &health.Health{}
	p, err := pool.New(pool.Config{
		Params:    cfg.Params(),
		State:     state,
		Stake:     books.stake,
		Reward:    books.reward,
		Authority: auth,
		Journal:   poolHealth.Track(&ledgerJournal{st, books, auth}),
	})
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing pool..."); p.Close() }()

	bgCtx, cancel := context.WithCancel(exitSignal)
	var group errgroup.Group
	defer func() {
		cancel()
		if err := group.Wait(); err != nil {
			logger.Warn("background task failed", "err", err)
		}
	}()
	group.Go(func() error { return eventDB.Follow(bgCtx, p) })
	if !ctx.Bool(disableNTPFlag.Name) {
		group.Go(func() error {
			checkClockOffset()
			return nil
		})
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiURL, closeAPI, err := startAPIServer(
		ctx.String(apiAddrFlag.Name),
		api.New(p, eventDB, api.Options{
			AllowedOrigins:       ctx.String(apiCorsFlag.Name),
			EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
			EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
			EnableReqLogger:      apiLogs,
			SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
			Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		}),
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	adminURL := "disabled"
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := startAPIServer(
			ctx.String(adminAddrFlag.Name),
			admin.New(logLevel, apiLogs, poolHealth, p, auth),
			0,
		)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeAdmin() }()
		adminURL = url
	}

	printStartupMessage(auth, p.PoolInfo(), instanceDir, apiURL, adminURL)

	<-exitSignal.Done()
	return nil
}
