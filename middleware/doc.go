// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(logger, handler))

Each request gets an X-Request-ID (reused when the client sends one) and a
single zap entry with method, path, status, bytes and duration.

# Sessions

Protect dashboard routes:

	mux.HandleFunc("GET /api/summary",
		middleware.WithLogging(logger, middleware.RequireSession(salt, h.Summary)))

The token comes from the "session" cookie or an "Authorization: Bearer"
header. Handlers read the user with UsernameFrom(r.Context()).

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins, mux),
	}

Only listed origins are echoed back, with credentials allowed. "*" in the
list allows any origin without credentials.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for hashed client IPs in login logs.
*/
package middleware
