// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballots loads the cleaned ballot table and holds it in memory.

# Loading

	store, err := ballots.LoadFile("data/ballots.csv")

Headers are matched case-insensitively and a UTF-8 byte order mark is
ignored. Null spellings (empty, NaN, NA, N/A, null, None) become "".
district_no accepts "12" and "12.0".

A table that has neither the city nor the district columns fails with
ErrMissingColumns. A row that is too short for a contest keeps that contest
unusable; the load continues.

# Store

A Store is immutable. Version is an xxhash of the content, so two loads of
the same table share a version. FilterDistrict returns an empty slice for a
district that does not exist.

# Sources

Source abstracts where a Store comes from. FileSource reads a CSV; the db
package provides a SQL backed one.
*/
package ballots
