//go:build !integration

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"bitbucket.org/crgw/redis-connector/internal/config"
	"bitbucket.org/crgw/redis-connector/internal/telemetry"
	"bitbucket.org/crgw/redis-connector/internal/tools/caching"
	"bitbucket.org/crgw/redis-connector/internal/tools/lazy"
	"bitbucket.org/crgw/redis-connector/internal/tools/logging"
	"bitbucket.org/crgw/redis-connector/internal/tools/redisconnector"
	"bitbucket.org/crgw/redis-connector/internal/web"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func serverApp(httpServer *http.Server, logger *zerolog.Logger, stop <-chan os.Signal) int {
	var shutdown atomic.Bool
	done := make(chan error, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown.Store(true)
		logger.Info().Msg("Shutting down server...")
		_ = httpServer.Shutdown(context.Background())
	}()

	err := <-done
	if err != nil && !shutdown.Load() {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

func failurePolicy() lazy.Policy {
	if os.Getenv("REDIS_CACHE_CONNECT_FAILURE") == "true" {
		return lazy.CacheFailure
	}
	return lazy.RetryOnFailure
}

func run() int {
	_ = godotenv.Load(".env")
	log := logging.New(os.Getenv("LOG_LEVEL"))

	provider := config.EnvProvider{}

	registry := prometheus.NewRegistry()
	collector, err := telemetry.NewPrometheusCollector(registry)
	if err != nil {
		log.Error().Err(err).Msg("Unable to register metrics")
		return 1
	}

	dialer := redisconnector.NewGoRedisDialer(log, collector, provider.Current())

	connector, err := redisconnector.New(provider, dialer, redisconnector.WithFailurePolicy(failurePolicy()))
	if err != nil {
		var configErr *redisconnector.ConfigurationError
		if errors.As(err, &configErr) {
			log.Error().Strs("missing", configErr.Fields).Msg("Invalid redis configuration")
		} else {
			log.Error().Err(err).Msg("Unable to create redis connector")
		}
		return 1
	}
	defer func() {
		if err := connector.Close(); err != nil {
			log.Error().Err(err).Msg("Unable to close redis connections")
		}
	}()

	appRouter := web.SetupRouter(log, connector, caching.NewRedisCache(connector), registry)

	var host string
	if os.Getenv("TEST") == "true" {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, os.Getenv("PORT")),
		Handler: appRouter,
	}

	// Notify stop channel if SIGINT or SIGTERM is received
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	return serverApp(httpServer, log, stop)
}

func main() {
	os.Exit(run())
}
