package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/blockext/internal/config"
	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/prefs"
	"github.com/five82/blockext/internal/push"
	"github.com/five82/blockext/internal/state"
	"github.com/five82/blockext/internal/syncengine"
	"github.com/five82/blockext/internal/ui"
)

// settleGrace is added to the request timeout when waiting for the last
// commit on exit.
const settleGrace = time.Second

// Options configure the blockext application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/blockext/prefs.toml
}

// Env holds the non-interactive parts of a session: configuration, the log
// file and the REST client.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *extapi.Client
	Session string

	logFile io.Closer
}

// Open loads configuration, opens the log file and builds the REST client.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	session := uuid.NewString()
	logger, logFile, err := openLogger(cfg.LogFile, cfg.LogLevel, session)
	if err != nil {
		return nil, err
	}

	client, err := extapi.NewClient(cfg.APIBase,
		extapi.WithSession(session),
		extapi.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	logger.Info("session started",
		"api_base", client.BaseURL().String(),
		"push_url", cfg.PushURL,
		"quiet_period", cfg.QuietPeriod,
	)
	return &Env{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: session,
		logFile: logFile,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// Run boots the blockext TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.Config
	logger := env.Logger
	userPrefs := prefs.Load(opts.PrefsPath)

	store := state.NewStore(cfg.Catalog())
	engine := syncengine.New(env.Client, store, syncengine.Options{
		QuietPeriod: cfg.QuietPeriod,
		DropNetZero: cfg.DropNetZero,
		Logger:      logger,
	})

	resync := newResyncer(env.Client, engine.Apply, logger, cfg.ReconnectDelay)

	pushOpts := push.Options{
		URL:     cfg.PushURL,
		Topic:   cfg.PushTopic,
		Backoff: cfg.ReconnectDelay,
		Header:  http.Header{extapi.SessionHeader: []string{env.Session}},
		Logger:  logger,
		OnState: store.SetConnection,
	}
	if cfg.ResyncOnReconnect {
		pushOpts.OnResubscribe = resync.Request
	}
	listener, err := push.New(pushOpts)
	if err != nil {
		return fmt.Errorf("init push listener: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = engine.Run(runCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		resync.run(runCtx)
	}()
	resync.Request()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = listener.Run(runCtx, engine.Apply)
	}()

	uiErr := ui.Run(runCtx, ui.Options{
		Store:         store,
		Engine:        engine,
		Remote:        env.Client,
		ThemeName:     userPrefs.Theme,
		ConfirmDelete: userPrefs.ConfirmDelete,
		PrefsPath:     opts.PrefsPath,
		Logger:        logger,
	})

	settleCtx, settleCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+settleGrace)
	if err := engine.Settle(settleCtx); err != nil {
		logger.Warn("exiting with uncommitted changes", "error", err)
	}
	settleCancel()

	cancel()
	wg.Wait()
	logger.Info("session ended")
	return uiErr
}
