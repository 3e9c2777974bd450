package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"execdesk/internal/backend"
	"execdesk/internal/common/cache"
	"execdesk/internal/web"
	"execdesk/internal/web/repository"
	"execdesk/internal/web/service"
	"execdesk/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/web.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	addr := flag.String("addr", "", "Listen address, overrides server.addr")
	baseURL := flag.String("base", "", "Backend base URL, overrides backend.baseURL")
	timeout := flag.Duration("timeout", 0, "Backend request timeout, overrides backend.timeout")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		appCfg.Server.Addr = *addr
	}
	if *baseURL != "" {
		appCfg.Backend.BaseURL = *baseURL
	}
	if *timeout > 0 {
		appCfg.Backend.Timeout = *timeout
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)

	local := cache.NewLRUCache[repository.Snapshot](appCfg.ViewStore.LocalSize, appCfg.ViewStore.TTL)
	var ready web.Pinger
	var snapshots *repository.SnapshotRepository
	if appCfg.ViewStore.Driver == viewStoreRedis {
		redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			logger.Error(context.Background(), "init redis failed", zap.Error(err))
			return
		}
		defer func() { _ = redisCache.Close() }()
		ready = redisCache
		snapshots = repository.NewSnapshotRepository(local, redisCache, appCfg.ViewStore.TTL, appCfg.Redis.ReadTimeout)
	} else {
		snapshots = repository.NewSnapshotRepository(local, nil, appCfg.ViewStore.TTL, 0)
	}

	client := backend.New(appCfg.Backend.BaseURL, appCfg.Backend.Timeout)
	router, err := web.NewRouter(web.Options{
		SubmitService:  service.NewSubmitService(client),
		ListService:    service.NewListService(client, snapshots),
		Ready:          ready,
		MetricsEnabled: appCfg.Metrics.Enabled,
		MetricsPath:    appCfg.Metrics.Path,
	})
	if err != nil {
		logger.Error(context.Background(), "build router failed", zap.Error(err))
		return
	}

	httpServer := &http.Server{
		Addr:           appCfg.Server.Addr,
		Handler:        web.NewHandler(router),
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxHeaderBytes: appCfg.Server.MaxHeaderBytes,
	}

	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "web server started",
			zap.String("addr", appCfg.Server.Addr),
			zap.String("backend", appCfg.Backend.BaseURL),
			zap.String("view_store", appCfg.ViewStore.Driver),
		)
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}
