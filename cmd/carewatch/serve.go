package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"carewatch/internal/server"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API and the compliance monitor",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	engine, err := newEngine(ctx, config, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer engine.Close()

	var keys server.KeySetProvider
	var jwksURL string
	if config.CognitoIssuerURL != "" {
		jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
		if err != nil {
			return fmt.Errorf("failed to initialize jwk cache: %w", err)
		}

		jwksURL = fmt.Sprintf("%s/.well-known/jwks.json", strings.TrimSuffix(config.CognitoIssuerURL, "/"))

		err = jwkCache.Register(ctx, jwksURL)
		if err != nil {
			return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
		}
		keys = jwkCache
	} else {
		logger.Warn("COGNITO_ISSUER_URL not set, API is unauthenticated")
	}

	srv := server.New(
		config,
		logger,
		engine.workers,
		engine.dispatchLog,
		engine.evaluator,
		engine.reporter,
		engine.monitor,
		prometheus.DefaultGatherer,
		keys,
		jwksURL,
	)

	engine.monitor.Start(ctx)
	defer engine.monitor.Stop()

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
