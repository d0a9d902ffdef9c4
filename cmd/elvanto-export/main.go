package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elvanto-export/internal/config"
	httpapi "elvanto-export/internal/http"
	"elvanto-export/internal/logger"
	"elvanto-export/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Local dev convenience; deployments set real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "elvanto-export")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	exportSvc := service.NewExportService(cfg, log)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterPeopleRoutes(httpapi.NewPeopleHandler(exportSvc, log))
	router.RegisterExportRoutes(httpapi.NewExportHandler(log))

	handler := httpapi.CORS(cfg.Env, httpapi.RequestLog(log, router))
	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}
