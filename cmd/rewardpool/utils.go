// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api/utils/fpath"
	"github.com/vechain/rewardpool/authority"
	"github.com/vechain/rewardpool/config"
	"github.com/vechain/rewardpool/custody"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/ledger"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/pool"
	"github.com/vechain/rewardpool/store"
	"github.com/vechain/rewardpool/thor"
)

const maxClockOffset = 5 * time.Second

func defaultDataDir() string {
	if home, err := fpath.HomeDir(); err == nil {
		return filepath.Join(home, ".rewardpool")
	}
	return ""
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must be <= %d", val, math.MaxInt)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("parse %s flag: %w", verbosityFlag.Name, err)
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(verbosity))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor)
	}
	log.SetDefault(handler)
	return logLevel, nil
}

// makeInstanceDir returns the directory of the ledger created with params.
// Ledgers of different parameters never share a directory.
func makeInstanceDir(dataDir string, params ledger.Params) (string, error) {
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%s-%x", params.Engine, params.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// openLedger opens the ledger database of instanceDir, or an in-memory one
// when instanceDir is "Memory".
func openLedger(instanceDir string, cacheSize int) (*lvldb.LevelDB, *store.Store, error) {
	var (
		db  *lvldb.LevelDB
		err error
	)
	if instanceDir == "Memory" {
		db, err = lvldb.NewMem()
	} else {
		db, err = lvldb.New(filepath.Join(instanceDir, "ledger.db"), lvldb.Options{})
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "open ledger database")
	}
	st, err := store.New(db, cacheSize)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, st, nil
}

func openEventDB(instanceDir string) (*eventdb.EventDB, error) {
	var (
		db  *eventdb.EventDB
		err error
	)
	if instanceDir == "Memory" {
		db, err = eventdb.NewMem()
	} else {
		db, err = eventdb.New(filepath.Join(instanceDir, "events.db"))
	}
	return db, errors.Wrap(err, "open event database")
}

const (
	stakeAsset  = "stake"
	rewardAsset = "reward"
)

type books struct {
	stake  *custody.Book
	reward *custody.Book
}

func newBooks() *books {
	return &books{custody.New(stakeAsset), custody.New(rewardAsset)}
}

func (b *books) all() []*custody.Book {
	return []*custody.Book{b.stake, b.reward}
}

// seed mints the configured balances.
func (b *books) seed(seeds []config.Seed) error {
	for _, s := range seeds {
		stake, err := config.Amount(s.Stake)
		if err != nil {
			return errors.WithMessagef(err, "seed %v stake", s.Address)
		}
		reward, err := config.Amount(s.Reward)
		if err != nil {
			return errors.WithMessagef(err, "seed %v reward", s.Address)
		}
		if err := b.stake.Mint(s.Address, stake); err != nil {
			return err
		}
		if err := b.reward.Mint(s.Address, reward); err != nil {
			return err
		}
	}
	return nil
}

// records returns the encoded books, ready to commit.
func (b *books) records() (*store.Records, error) {
	rec := &store.Records{Books: make(map[string][]byte, 2)}
	for _, book := range b.all() {
		data, err := book.Encode()
		if err != nil {
			return nil, errors.Wrapf(err, "encode book %s", book.Asset())
		}
		rec.Books[book.Asset()] = data
	}
	return rec, nil
}

// restore returns the ledger persisted in st with its distributors, and fills
// b with the custody books it was saved with. A fresh store is initialized
// from cfg and seeded.
func restore(st *store.Store, cfg *config.Config, b *books) (*ledger.State, []thor.Address, error) {
	params := cfg.Params()
	stored, err := st.Params()
	if err != nil {
		return nil, nil, err
	}

	if stored == nil {
		if err := b.seed(cfg.Seeds); err != nil {
			return nil, nil, err
		}
		rec, err := b.records()
		if err != nil {
			return nil, nil, err
		}
		rec.Distributors = append([]thor.Address{}, cfg.Distributors...)
		if err := st.Commit(ledger.NewPool(), nil, rec); err != nil {
			return nil, nil, errors.Wrap(err, "save seeds")
		}
		// params go last: an interrupted init is retried from scratch
		if err := st.SetParams(params); err != nil {
			return nil, nil, errors.Wrap(err, "save params")
		}
		logger.Info("ledger initialized", "engine", params.Engine, "seeds", len(cfg.Seeds))
		return ledger.NewState(), rec.Distributors, nil
	}

	if *stored != params {
		return nil, nil, errors.Errorf("config parameters %+v differ from the stored ledger %+v", params, *stored)
	}
	state, err := st.Load()
	if err != nil {
		return nil, nil, err
	}
	for _, book := range b.all() {
		data, err := st.Book(book.Asset())
		if err != nil {
			return nil, nil, err
		}
		if data == nil {
			continue
		}
		if err := book.Decode(data); err != nil {
			return nil, nil, errors.Wrapf(err, "decode book %s", book.Asset())
		}
	}
	if b.stake.Custody().Cmp(state.Pool().TotalStaked) < 0 {
		return nil, nil, errors.New("stake custody is less than total staked")
	}
	distributors, ok, err := st.Distributors()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		distributors = cfg.Distributors
	} else if len(cfg.Distributors) > 0 {
		logger.Warn("distributors are managed by the owner once the ledger exists, config list ignored", "stored", len(distributors))
	}
	logger.Info("ledger restored", "accounts", len(state.Addresses()), "totalStaked", state.Pool().TotalStaked)
	return state, distributors, nil
}

// ledgerJournal persists each commit together with the custody books it
// moved value in and the distributor list, in one batch.
type ledgerJournal struct {
	store *store.Store
	books *books
	auth  *authority.Set
}

var _ pool.Journal = (*ledgerJournal)(nil)

func (j *ledgerJournal) Commit(p *ledger.Pool, accounts map[thor.Address]*ledger.Account) error {
	rec, err := j.books.records()
	if err != nil {
		return err
	}
	rec.Distributors = j.auth.Distributors()
	return j.store.Commit(p, accounts, rec)
}

func startAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timed out")
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var group errgroup.Group
	group.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		if err := group.Wait(); err != nil {
			logger.Warn("server stopped", "addr", addr, "err", err)
		}
	}, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected, reward accrual follows the local clock", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// handleExitSignal returns a context done on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(auth *authority.Set, info *pool.Info, instanceDir, apiURL, adminURL string) {
	fmt.Printf(`Starting %v
    Engine       [ %v ]
    Durations    [ reward %vs, lock-in %vs ]
    Ledger       [ %v %v accounts, %v staked ]
    Owner        [ %v ]
    Distributors [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Admin portal [ %v ]
`,
		fmt.Sprintf("rewardpool/v%s/%s/%s", fullVersion(), runtime.GOOS, runtime.Version()),
		info.Params.Engine,
		info.Params.RewardDuration, info.Params.LockInDuration,
		info.Params.ID().AbbrevString(), info.Accounts, info.Pool.TotalStaked,
		auth.Owner(),
		len(auth.Distributors()),
		instanceDir,
		apiURL,
		adminURL)
}
