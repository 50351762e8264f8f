// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballot report
dashboard.

# Handler Types

Each handler is a struct with its dependencies injected by a constructor:

  - AuthHandler: login and logout against the users file
  - ReportHandler: JSON report queries and reload
  - PageHandler: HTML report pages rendered with go-echarts

	authHandler := handlers.NewAuthHandler(users, cfg, logger)
	reportHandler := handlers.NewReportHandler(session, cfg, logger)

# Query Parameters

contest selects "city" (default) or "district". k limits ranked tables;
absent means cfg.TopK and 0 means every row.

# Errors

Bad parameters answer 400, unknown metrics, signatures and pages 404.
A reload that fails answers 500 and the previous ballots stay in service.
*/
package handlers
