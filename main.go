// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/auth"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/db"
	"github.com/danielhkuo/ballot-report/logging"
	"github.com/danielhkuo/ballot-report/middleware"
	"github.com/danielhkuo/ballot-report/report"
	"github.com/danielhkuo/ballot-report/router"
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("ballot source setup failed", zap.Error(err))
	}
	defer closeSource()

	session, err := report.NewSession(ctx, source, logger)
	if err != nil {
		logger.Fatal("initial ballot load failed", zap.Error(err))
	}

	users, err := auth.LoadUsers(cfg.UsersFile)
	if err != nil {
		logger.Fatal("users file load failed", zap.String("path", cfg.UsersFile), zap.Error(err))
	}
	logger.Info("users loaded", zap.Int("count", users.Len()))

	// Create router
	mux := router.NewRouter(session, users, cfg, logger)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigins, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	logger.Info("Listening", zap.Int("port", cfg.Port), zap.String("source", source.Describe()))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server closed", zap.Error(err))
	} else {
		logger.Info("Server closed")
	}
}

// openSource picks the ballot source. With a database configured the CSV,
// when given, is imported first and the database becomes the source.
func openSource(ctx context.Context, cfg cliparse.Config, logger *zap.Logger) (ballots.Source, func(), error) {
	if cfg.DatabaseURL == "" {
		return ballots.FileSource{Path: cfg.DataPath}, func() {}, nil
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeConn := func() { conn.Close() }

	if err := db.CreateSchema(conn); err != nil {
		closeConn()
		return nil, nil, err
	}
	logger.Info("Database schema ready", zap.String("type", cfg.DatabaseType))

	if cfg.DataPath != "" {
		if err := importCSV(ctx, conn, cfg.DataPath, logger); err != nil {
			closeConn()
			return nil, nil, err
		}
	}

	return db.Source{DB: conn, Name: cfg.DatabaseType}, closeConn, nil
}

func importCSV(ctx context.Context, conn *sql.DB, path string, logger *zap.Logger) error {
	store, err := ballots.LoadFile(path)
	if err != nil {
		return err
	}
	runID, err := db.ImportBallots(ctx, conn, store)
	if err != nil {
		return err
	}
	logger.Info("ballots imported",
		zap.String("run_id", runID),
		zap.String("path", path),
		zap.Int("ballots", store.Len()),
		zap.String("version", store.Version()),
	)
	return nil
}
