// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines ballot records, enums, and the request, response and
result-table types of the API.

# Ballots

A Ballot holds four city Slots and two district Slots. A Slot is a candidate
and the party they ran for; an empty string is a null cell. CityValid and
DistrictValid say whether each contest can be used on that ballot.

# Enums

	ContestCity, ContestDistrict        // ParseContest, "" means city
	DimensionCandidate, DimensionParty  // label used for co-occurrence
	MetricCitySingleParty, MetricDistrictSingleParty,
	MetricCrossContestAlignment, MetricFullLoyalty  // ParseMetric

# Result Tables

  - Distribution: labelled counts with percentages over a ballot subset
  - Breakdown: true/false split of a metric
  - RankedPairs: top-K co-occurring pairs
  - Heatmap: square party co-occurrence matrix
  - DatasetSummary: size, version and index conflicts of the loaded table

Every table carries Total and Empty so an empty subset is a normal result,
never an error.

# Request and Response Types

  - LoginRequest, LoginResponse
  - ReloadResponse, DistrictsResponse
  - ErrorResponse: error, message
*/
package models
