// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the cleaned ballot table.

# Connecting

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite):

	conn, err := db.Open("sqlite", "ballots.db")
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call CreateSchema multiple times - uses IF NOT EXISTS.

# Tables

  - ballot: one row per CSV data row, NULL for empty cells
  - import_run: ID, source, content version and size of each import

# Import and Load

	runID, err := db.ImportBallots(ctx, conn, store)
	store, err := db.LoadBallots(ctx, conn, "db:ballots")

ImportBallots replaces the ballot table inside one transaction. Source
adapts a connection to ballots.Source so the report session can reload
from the database.
*/
package db
