// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballot report dashboard.

The dashboard loads a cleaned table of ballots, each holding four city
choices and two district choices tagged with a party, and serves
co-occurrence statistics over it as JSON and as go-echarts report pages.

# Starting the Server

	BALLOTS_CSV=ballots.csv SESSION_SALT=... go run .

Or keep the ballots in SQLite or PostgreSQL. The CSV, when given, is imported
into the database at startup and reloads read from the database:

	go run . -data ballots.csv -d ballots.db -t sqlite

A .env file in the working directory is loaded first; real environment
variables win over it.

# Configuration

Required settings:

  - BALLOTS_CSV (-data) or DATABASE_URL (-d): ballot source
  - SESSION_SALT (-session-salt): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - USERS_FILE (-users): Users file (default: users.yaml)
  - SESSION_TTL (-session-ttl): Session lifetime (default: 12h)
  - TOP_K (-top): Default ranked table length (default: 15)
  - LOG_LEVEL, LOG_ENCODING: zap level and json/console encoding

# Architecture

  - ballots: CSV ingestion and the immutable ballot store
  - db: SQL ballot store
  - analysis: candidate-party index, metrics, pair counts, party patterns
  - report: memoised report queries over the current store
  - charts: go-echarts report pages
  - handlers, router, middleware: HTTP surface
  - auth: users file and session tokens
  - cliparse, logging: configuration and zap logger
*/
package main
