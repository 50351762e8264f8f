// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type LoginResponse struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReloadResponse struct {
	Version  string    `json:"version"`
	Ballots  int       `json:"ballots"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

type DistrictsResponse struct {
	Districts []int `json:"districts"`
}

// Report result tables

// DistributionRow is one category of a distribution.
// Keys carries the structured group key when Label is a rendering of several values.
type DistributionRow struct {
	Label      string   `json:"label"`
	Keys       []string `json:"keys,omitempty"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// Distribution is a categorical count table over a ballot subset.
// Total is the size of the subset; Empty is set when Total is zero.
type Distribution struct {
	Name  string            `json:"name"`
	Total int               `json:"total"`
	Empty bool              `json:"empty"`
	Rows  []DistributionRow `json:"rows"`
}

// Breakdown is the true/false split of a boolean metric
type Breakdown struct {
	Metric          Metric  `json:"metric"`
	Total           int     `json:"total"`
	Empty           bool    `json:"empty"`
	TrueCount       int     `json:"true_count"`
	FalseCount      int     `json:"false_count"`
	TruePercentage  float64 `json:"true_percentage"`
	FalsePercentage float64 `json:"false_percentage"`
}

// PairRow is one ranked unordered pair; A sorts before B
type PairRow struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	LabelA     string  `json:"label_a"`
	LabelB     string  `json:"label_b"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RankedPairs is a top-K co-occurrence table.
// Percentage on each row is the share of the Total ballots carrying the pair.
type RankedPairs struct {
	Contest   Contest   `json:"contest"`
	Dimension Dimension `json:"dimension"`
	District  *int      `json:"district,omitempty"`
	Total     int       `json:"total"`
	Empty     bool      `json:"empty"`
	Pairs     []PairRow `json:"pairs"`
}

// Heatmap is a square symmetric co-occurrence matrix over party labels
type Heatmap struct {
	Contest Contest  `json:"contest"`
	Labels  []string `json:"labels"`
	Cells   [][]int  `json:"cells"`
	Max     int      `json:"max"`
}

type IndexConflict struct {
	Candidate string `json:"candidate"`
	Previous  string `json:"previous"`
	Party     string `json:"party"`
	Row       int    `json:"row"`
}

type DatasetSummary struct {
	Version             string          `json:"version"`
	Ballots             int             `json:"ballots"`
	Skipped             int             `json:"skipped"`
	CityBallots         int             `json:"city_ballots"`
	DistrictBallots     int             `json:"district_ballots"`
	Candidates          int             `json:"candidates"`
	Parties             int             `json:"parties"`
	Districts           int             `json:"districts"`
	MeanCityParties     float64         `json:"mean_city_parties"`
	StdDevCityParties   float64         `json:"stddev_city_parties"`
	IndexConflicts      []IndexConflict `json:"index_conflicts,omitempty"`
	IndexConflictsTotal int             `json:"index_conflicts_total"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
