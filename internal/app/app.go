// Package app wires the runtime together: logger, command registry,
// extension loader, prefix resolver, dispatcher, failure reporter, and the
// shard group manager. The registry is created here and passed by reference
// into everything that needs it; nothing in the tree reaches for ambient
// global state.
package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/vk/shardbotgo/internal/ctxlog"
	"github.com/vk/shardbotgo/internal/dispatch"
	"github.com/vk/shardbotgo/internal/extension"
	"github.com/vk/shardbotgo/internal/gateway"
	"github.com/vk/shardbotgo/internal/prefix"
	"github.com/vk/shardbotgo/internal/registry"
	"github.com/vk/shardbotgo/internal/report"
	"github.com/vk/shardbotgo/internal/shardgroup"
)

// App encapsulates one shard-group instance's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	config *Config
	logger *slog.Logger

	registry   *registry.Registry
	loader     *extension.Loader
	resolver   *prefix.Resolver
	reporter   *report.Reporter
	dispatcher *dispatch.Dispatcher
	manager    *shardgroup.Manager

	redis      *redis.Client
	httpServer *http.Server

	readyMu sync.RWMutex
	ready   *shardgroup.Readiness
}

// NewApp constructs a fully wired instance. The transport may be nil, in
// which case the socket.io gateway transport is built from the config; tests
// inject fakes. modules may be nil to select the built-in extension set.
func NewApp(outW io.Writer, cfg *Config, transport gateway.Transport, modules map[string]extension.Module) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()

	if modules == nil {
		modules = coreExtensions()
	}
	deps := &extension.Deps{Registry: reg, Instance: cfg.Instance}
	loader := extension.NewLoader(cfg.ExtensionsPath, reg, modules, deps)

	// The store connection is established once here and torn down in Run's
	// cleanup; prefix lookups share it for the process lifetime.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	resolver := prefix.NewResolver(prefix.NewRedisStore(rdb), cfg.StoreTimeout)

	reporter := report.New(cfg.WebhookURL, cfg.SupportURL, cfg.Instance)
	dispatcher := dispatch.New(reg, resolver, reporter, cfg.MaxInflight)

	if transport == nil {
		transport = gateway.NewSocketIO(cfg.GatewayURL, cfg.ShardCount, cfg.InsecureSkipVerify)
	}

	a := &App{
		outW:       outW,
		config:     cfg,
		logger:     logger,
		registry:   reg,
		loader:     loader,
		resolver:   resolver,
		reporter:   reporter,
		dispatcher: dispatcher,
		redis:      rdb,
	}

	manager, err := shardgroup.New(cfg.Assignment(), transport, dispatcher, reg, a.setReady)
	if err != nil {
		// NewConfig already validated the assignment; reaching this is a
		// programmer error in the wiring.
		panic(err)
	}
	a.manager = manager

	logger.Debug("App wiring complete.", "shards", len(cfg.ShardIDs))
	return a
}

// Registry returns the application's command registry. Primarily for tests.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Loader returns the extension loader. Primarily for tests.
func (a *App) Loader() *extension.Loader {
	return a.loader
}

func (a *App) setReady(r shardgroup.Readiness) {
	a.readyMu.Lock()
	a.ready = &r
	a.readyMu.Unlock()
}

func (a *App) readiness() *shardgroup.Readiness {
	a.readyMu.RLock()
	defer a.readyMu.RUnlock()
	return a.ready
}

// loggerContext returns a context carrying the instance logger.
func (a *App) loggerContext(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
