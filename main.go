package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "jobboard/internal/config"
	intdb "jobboard/internal/db"
	router "jobboard/internal/http"
	"jobboard/internal/metrics"
	"jobboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(env.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = intdb.EnsureSchema(ctx, db)
	cancel()
	if err != nil {
		logrus.WithError(err).Fatal("failed to prepare schema")
	}

	files, err := storage.NewLocal(env.UploadDir, env.MaxUploadSize)
	if err != nil {
		logrus.WithError(err).Fatal("failed to prepare upload dir")
	}

	r := router.NewRouter(env, files, metrics.New())

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", env.AppAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown failed")
	}

	logrus.Info("server stopped")
}
