package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/sync/errgroup"

	httpadapter "farmtycoon/internal/adapter/http"
	"farmtycoon/internal/adapter/journal"
	"farmtycoon/internal/adapter/journal/zstdlog"
	metricsinmem "farmtycoon/internal/adapter/metrics/inmemory"
	gormrepo "farmtycoon/internal/adapter/repo/gorm"
	"farmtycoon/internal/adapter/repo/memory"
	"farmtycoon/internal/adapter/stream/ws"
	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/notify"
	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/app/replay"
	"farmtycoon/internal/config"
	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
	"farmtycoon/internal/domain/terrain"
)

const shutdownTimeout = 5 * time.Second

type application struct {
	engine  game.Engine
	handler httpadapter.Handler
	stream  *ws.Server
	closers []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		hlog.Fatalf("build app: %v", err)
	}
	defer a.close()

	if err := run(ctx, cfg, a); err != nil {
		hlog.Errorf("server stopped: %v", err)
	}
}

func buildApp(ctx context.Context, cfg config.Config) (*application, error) {
	store := memory.NewStore()
	primary := memory.NewJournalRepo(store)
	journalRepo, closers, err := buildJournal(ctx, cfg, primary)
	if err != nil {
		return nil, err
	}

	random := farm.DefaultRandom()
	if cfg.Seed != 0 {
		// Seeded generators are not goroutine safe; every draw happens
		// inside the memory store's transaction lock.
		random = farm.NewSeededRandom(uint64(cfg.Seed))
	}
	land := terrain.CreateDefault(grid.Size, grid.Size)
	recorder := metricsinmem.NewRecorder()
	hub := notify.NewHub(notify.RealClock(), cfg.NotifyDurationMs)

	engine := game.Engine{
		TxManager: memory.NewTxManager(store),
		States:    memory.NewFarmStateRepo(store),
		Journal:   journalRepo,
		Metrics:   recorder,
		Notifier:  hub,
		Terrain:   land,
		Spawner:   farm.Spawner{Rand: random, Now: time.Now},
		Rand:      random,
		Tuning:    cfg.Tuning,
		Now:       time.Now,
	}

	return &application{
		engine: engine,
		handler: httpadapter.Handler{
			Engine:   engine,
			ReplayUC: replay.UseCase{Journal: journalRepo},
			Notices:  hub,
			Terrain:  land,
			KPI:      recorder,
		},
		stream:  ws.NewServer(engine, hub, cfg.StateInterval),
		closers: closers,
	}, nil
}

// buildJournal always keeps the in-memory journal for reads and mirrors
// appends to Postgres and zstd files when configured.
func buildJournal(ctx context.Context, cfg config.Config, primary ports.JournalRepository) (ports.JournalRepository, []func() error, error) {
	fan := journal.Fanout{Primary: primary}
	var closers []func() error

	if cfg.DBDSN != "" {
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations()); err != nil {
			_ = gormrepo.Close(db)
			return nil, nil, fmt.Errorf("migrate journal: %w", err)
		}
		fan.Sinks = append(fan.Sinks, journal.Sink{
			Name: "postgres",
			Repo: gormrepo.NewJournalRepo(db),
			Tx:   gormrepo.NewTxManager(db),
		})
		closers = append(closers, func() error { return gormrepo.Close(db) })
		hlog.Infof("journal: mirroring to postgres")
	}
	if cfg.JournalDir != "" {
		w := zstdlog.NewWriter(cfg.JournalDir)
		fan.Sinks = append(fan.Sinks, journal.Sink{Name: "zstd", Repo: w})
		closers = append(closers, w.Close)
		hlog.Infof("journal: mirroring to %s", cfg.JournalDir)
	}

	if len(fan.Sinks) == 0 {
		return primary, nil, nil
	}
	return fan, closers, nil
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			hlog.Warnf("close: %v", err)
		}
	}
}

func run(ctx context.Context, cfg config.Config, a *application) error {
	h := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	a.handler.RegisterRoutes(h)

	streamSrv := &http.Server{
		Addr:              cfg.WSAddr,
		Handler:           a.stream.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	loop := game.Loop{
		Engine:   a.engine,
		Interval: time.Second / time.Duration(cfg.TickHz),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		hlog.Infof("farm api listening on %s", cfg.HTTPAddr)
		if err := h.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		hlog.Infof("farm stream listening on %s", cfg.WSAddr)
		if err := streamSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("stream: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(h.Shutdown(shutdownCtx), streamSrv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
