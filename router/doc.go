// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballot report dashboard.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(session, users, cfg, logger)

# Endpoints

Public:

	GET  /health - Liveness
	POST /login  - Exchange credentials for a session token (cookie and body)
	POST /logout - Clear the session cookie

Report API (session required):

	GET  /api/summary                              - Dataset summary
	GET  /api/diversity?contest=                   - Distinct parties per ballot
	GET  /api/consistency/{metric}                 - True/false metric split
	GET  /api/pairs/candidates?contest=&k=         - Top candidate pairs
	GET  /api/pairs/parties?contest=&k=            - Top party pairs
	GET  /api/heatmap?contest=                     - Party co-occurrence matrix
	GET  /api/patterns                             - Party pattern distribution
	GET  /api/patterns/{signature}/dominance?k=    - Parties shaping one pattern
	GET  /api/patterns/minority-candidates?k=      - Minority candidates on 3-1 ballots
	GET  /api/loyalty/parties                      - Fully loyal ballots per party
	GET  /api/districts                            - District numbers
	GET  /api/districts/{no}/pairs?k=              - Candidate pairs in one district
	POST /api/reload                               - Reload the ballot source

Report pages (session required):

	GET /reports/{page} - overview, party-mixing, candidate-behavior,
	                      alignment, patterns

Every route except /health and / is wrapped in middleware.WithLogging.
*/
package router
