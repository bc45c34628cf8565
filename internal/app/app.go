package app

import (
	"context"
	"log/slog"

	"github.com/pulsecheck/core/internal/config"
	http_init "github.com/pulsecheck/core/internal/delivery/http/init"
	http_session "github.com/pulsecheck/core/internal/delivery/http/session"
	ws_session "github.com/pulsecheck/core/internal/delivery/ws/session"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

func Go(cfg *config.Config) {
	logger := slog.Default()

	hub := ws_session.NewHub(ws_session.WithHubLogger(logger))

	sessionUC := usecase_session.New(hub,
		usecase_session.WithLogger(logger),
		usecase_session.WithCapacity(cfg.Rooms.Capacity),
		usecase_session.WithTTL(cfg.Rooms.TTL),
	)

	sweeper := usecase_session.NewSweeper(sessionUC, cfg.Rooms.SweepInterval,
		usecase_session.WithSweeperLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_session.New(sessionUC, http_session.WithLogger(logger)))
	controllerPool.Add(ws_session.NewController(hub, sessionUC, ws_session.WithLogger(logger)))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
