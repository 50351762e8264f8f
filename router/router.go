// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/auth"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/handlers"
	"github.com/danielhkuo/ballot-report/middleware"
	"github.com/danielhkuo/ballot-report/report"
)

func NewRouter(session *report.Session, users *auth.Users, cfg cliparse.Config, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, cfg, logger)
	reportHandler := handlers.NewReportHandler(session, cfg, logger)
	pageHandler := handlers.NewPageHandler(session, cfg, logger)

	logged := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(logger, h)
	}
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(logger, middleware.RequireSession(cfg.SessionSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions
	mux.HandleFunc("POST /login", logged(authHandler.Login))
	mux.HandleFunc("POST /logout", logged(authHandler.Logout))

	// Report API
	mux.HandleFunc("GET /api/summary", private(reportHandler.Summary))
	mux.HandleFunc("GET /api/diversity", private(reportHandler.Diversity))
	mux.HandleFunc("GET /api/consistency/{metric}", private(reportHandler.Consistency))
	mux.HandleFunc("GET /api/pairs/candidates", private(reportHandler.CandidatePairs))
	mux.HandleFunc("GET /api/pairs/parties", private(reportHandler.PartyPairs))
	mux.HandleFunc("GET /api/heatmap", private(reportHandler.Heatmap))
	mux.HandleFunc("GET /api/patterns", private(reportHandler.Patterns))
	mux.HandleFunc("GET /api/patterns/minority-candidates", private(reportHandler.MinorityCandidates))
	mux.HandleFunc("GET /api/patterns/{signature}/dominance", private(reportHandler.Dominance))
	mux.HandleFunc("GET /api/loyalty/parties", private(reportHandler.LoyalParties))
	mux.HandleFunc("GET /api/districts", private(reportHandler.Districts))
	mux.HandleFunc("GET /api/districts/{no}/pairs", private(reportHandler.DistrictPairs))
	mux.HandleFunc("POST /api/reload", private(reportHandler.Reload))

	// Report pages
	mux.HandleFunc("GET /reports/{page}", private(pageHandler.Render))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballot-report API v1"))
	})

	return mux
}
