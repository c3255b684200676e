package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passenger-satisfaction-go/internal/api"
	"passenger-satisfaction-go/internal/config"
	"passenger-satisfaction-go/internal/logger"
	"passenger-satisfaction-go/internal/normalizer"
	"passenger-satisfaction-go/internal/predictor"
	"passenger-satisfaction-go/internal/processor"
	"passenger-satisfaction-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)
	log.WithField("category_policy", cfg.CategoryPolicy.String()).Info("starting service")

	var p predictor.Predictor
	if cfg.UseMockPredictor {
		p = predictor.NewHeuristic()
	} else {
		p = predictor.NewHTTPClient(cfg.PredictorURL, cfg.PredictorTimeout, log.Component("predictor"))
	}
	log.WithField("predictor", p.Name()).Info("predictor ready")

	results, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open result store")
	}
	defer results.Close()

	svc := processor.New(
		normalizer.New(cfg.CategoryPolicy, log.Component("normalizer")),
		p,
		results,
		cfg.ResultTTL,
		log.Component("processor"),
	)
	h := api.NewHandler(svc, log, cfg.MaxUploadBytes)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	log.Info("stopped")
}

func openStore(cfg config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory result store")
		return store.NewMemory(), nil
	}
	rs := store.NewRedis(store.RedisOptions{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		_ = rs.Close()
		return nil, err
	}
	log.WithField("redis_addr", cfg.RedisAddr).Info("using redis result store")
	return rs, nil
}
