// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report answers dashboard queries over the current ballot store.

	session, err := report.NewSession(ctx, ballots.FileSource{Path: path}, logger)
	pairs := session.TopPartyPairs(models.ContestCity, 10)

Every derived structure is memoised per store version. Reload swaps the
store and clears the cache; a failed reload keeps the old store.
*/
package report
