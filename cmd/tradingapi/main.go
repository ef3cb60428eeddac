package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"log/slog"

	"github.com/shreyachouhan03/tradingapi/internal/catalog"
	"github.com/shreyachouhan03/tradingapi/internal/config"
	"github.com/shreyachouhan03/tradingapi/internal/engine"
	"github.com/shreyachouhan03/tradingapi/internal/handlers"
	"github.com/shreyachouhan03/tradingapi/internal/service"
	"github.com/shreyachouhan03/tradingapi/internal/storage"
	"github.com/shreyachouhan03/tradingapi/libs/health"
	"github.com/shreyachouhan03/tradingapi/libs/httpmiddleware"
	"github.com/shreyachouhan03/tradingapi/libs/logging"
	"github.com/shreyachouhan03/tradingapi/libs/metrics"
	"github.com/shreyachouhan03/tradingapi/libs/trace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.App.LogLevel, cfg.App.ServiceName, cfg.App.Env)

	shutdownTracer, err := trace.InitTracer(cfg.App.ServiceName, cfg.App.Env)
	if err != nil {
		logger.Error("tracer init failed", "error", err)
	} else {
		defer func() {
			_ = shutdownTracer(context.Background())
		}()
	}

	if cfg.App.Env == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)
	orderMetrics := service.NewMetrics(registry)

	ready := health.NewManager(false)

	instruments, err := cfg.CatalogInstruments()
	if err != nil {
		logger.Error("catalog config invalid", "error", err)
		os.Exit(1)
	}
	var cat *catalog.Catalog
	if len(instruments) > 0 {
		cat = catalog.New(instruments)
	} else {
		cat = catalog.Default()
	}
	logger.Info("catalog loaded", "instruments", cat.Len())

	orders := storage.NewOrderStore()
	trades := storage.NewTradeLedger()
	portfolio := storage.NewPortfolioLedger()
	eng := engine.New(rand.New(rand.NewSource(time.Now().UnixNano())), cfg.MarketSlippageBps)

	orderSvc := service.NewOrderService(cat, orders, trades, portfolio, eng, logger, orderMetrics)

	handler := handlers.New(orderSvc, logger)
	router := gin.New()
	router.Use(httpmiddleware.RequestID())
	router.Use(httpmiddleware.Logger(logger))
	router.Use(httpmiddleware.Recovery(logger))
	router.Use(trace.Middleware(cfg.App.ServiceName))

	router.GET("/healthz", health.LivenessHandler)
	router.GET("/readyz", health.ReadinessHandler(ready))
	router.GET(cfg.App.MetricsPath, gin.WrapH(metrics.Handler(registry)))

	handler.Register(router, cfg.AuthToken, cfg.CallerID)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.HTTP.Host, cfg.App.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.HTTP.ReadTimeout,
		WriteTimeout: cfg.App.HTTP.WriteTimeout,
		IdleTimeout:  cfg.App.HTTP.IdleTimeout,
	}

	ready.SetReady(true)

	go func() {
		logger.Info("trading-api http starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	waitForShutdown(httpServer, ready, logger)
}

func waitForShutdown(httpServer *http.Server, ready *health.Manager, logger *slog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown started")
	ready.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
