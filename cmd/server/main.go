package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/api"
	"github.com/lalith-99/huddle/internal/config"
	"github.com/lalith-99/huddle/internal/email"
	"github.com/lalith-99/huddle/internal/observ"
	"github.com/lalith-99/huddle/internal/scheduler"
	"github.com/lalith-99/huddle/internal/service"
	"github.com/lalith-99/huddle/internal/store"
	"github.com/lalith-99/huddle/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	st := store.New()

	mailer := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, logger)
	sched := scheduler.New(logger)
	hub := ws.NewHub(logger)
	go hub.Run()

	svc := service.New(st, logger, cfg.JWTSecret, cfg.SnapshotPath, mailer, sched, hub)
	if err := svc.Load(); err != nil {
		return err
	}

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	api.RegisterRoutes(srv, svc, hub, logger)

	logger.Info("starting Huddle",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)
	return srv.Run(":" + cfg.Port)
}
