package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/mockapi"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	server := mockapi.New(mockapi.Options{
		Secret:   []byte(cfg.MockAPI.JWTSecret),
		TokenTTL: cfg.MockAPI.JWTTTL,
		Name:     cfg.AppName + "-mockapi",
	}, zapLogger)

	go func() {
		zapLogger.Info("mock api started", zap.String("address", cfg.MockAPIAddress()))
		if err := server.ListenAndServe(cfg.MockAPIAddress()); err != nil {
			zapLogger.Fatal("mock api crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
