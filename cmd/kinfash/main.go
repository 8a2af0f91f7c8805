package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kinfash-api/api/internal/container"
	"kinfash-api/api/internal/routers"
	"kinfash-api/api/pkg/util"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := util.LoadConfig()
	if err != nil {
		util.Logger.Fatal().Err(err).Msg("Failed to load config")
	}
	util.InitLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceContainer := container.NewServiceContainer(ctx, cfg)
	router := routers.InitRoute(serviceContainer)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		util.LogError("Server shutdown failed", err)
	}
	serviceContainer.Close(shutdownCtx)
}
