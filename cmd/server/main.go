package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mazelabs/maze-referee/internal/config"
	"github.com/mazelabs/maze-referee/internal/httpapi"
	"github.com/mazelabs/maze-referee/internal/hub"
	"github.com/mazelabs/maze-referee/internal/referee"
	"github.com/mazelabs/maze-referee/internal/session"
	"github.com/mazelabs/maze-referee/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var zl *zap.Logger
	if cfg.LogDevelopment {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sink session.ResultSink
	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalw("open result store", "err", err)
		}
		sink = st
		logger.Infow("result store connected")
	}

	h := hub.NewHub(ctx, hub.Deps{
		Referee: referee.Config{
			Rows:        cfg.BoardRows,
			Cols:        cfg.BoardCols,
			MoveTimeout: cfg.MoveTimeout,
			MaxRounds:   cfg.MaxRounds,
			ExtraGoals:  cfg.ExtraGoals,
			Logger:      logger,
		},
		Store:          sink,
		DefaultPlayers: cfg.PlayersWant,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: httpapi.SetupRoutes(h),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down")
		h.Inbox() <- hub.ShutdownHub{}
		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("server exited", "err", err)
	}
}
