package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pg "controle-gado/internal/adapters/storage/postgres"
	"controle-gado/internal/config"
	"controle-gado/internal/platform/logger"
	"controle-gado/internal/router"
	"controle-gado/internal/scheduler"

	"go.uber.org/zap"
)

// @title Controle de Gado API
// @version 1.0
// @description Gestão de rebanho de corte: animais, pesagens, sanidade, reprodução e relatórios.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFile := flag.String("env", "", "arquivo .env opcional")
	devAuth := flag.Bool("dev-auth", false, "desliga a verificação de sessão (headers X-Debug-*)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = log.Sync() }()

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatal("falha ao conectar no postgres", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		log.Info("storage postgres conectado")
	}

	app, err := router.New(router.Options{
		DB:             db,
		Log:            logger.Named(log, "router"),
		SessionTTLDays: cfg.Session.TTLDays,
		DevAuth:        *devAuth,
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	})
	if err != nil {
		log.Fatal("falha ao montar a aplicação", zap.Error(err))
	}

	if cfg.Alerts.Enabled {
		sched := scheduler.New(logger.Named(log, "scheduler"), app.Health, app.Reports, cfg.Alerts.HorizonDays)
		if err := sched.Start(cfg.Alerts.CronSchedule); err != nil {
			log.Fatal("falha ao iniciar o scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("servidor iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("erro no servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("desligando")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown forçado", zap.Error(err))
	}
}
