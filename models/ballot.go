// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownContest = errors.New("unknown contest")
	ErrUnknownMetric  = errors.New("unknown metric")
)

// Contest identifies one of the two contests printed on a ballot
type Contest string

const (
	ContestCity     Contest = "city"
	ContestDistrict Contest = "district"
)

// Slot counts per contest
const (
	CitySlots     = 4
	DistrictSlots = 2
)

// ParseContest maps a query value to a Contest. Empty means city.
func ParseContest(s string) (Contest, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ContestCity):
		return ContestCity, nil
	case string(ContestDistrict):
		return ContestDistrict, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContest, s)
}

// Dimension selects which label of a slot is used for co-occurrence
type Dimension string

const (
	DimensionCandidate Dimension = "candidate"
	DimensionParty     Dimension = "party"
)

// Slot is one choice position: a candidate and the party they ran for.
// Empty strings mean the source cell was null.
type Slot struct {
	Candidate string `json:"candidate,omitempty"`
	Party     string `json:"party,omitempty"`
}

func (s Slot) HasCandidate() bool { return s.Candidate != "" }
func (s Slot) HasParty() bool     { return s.Party != "" }

// Label returns the slot's label for the given dimension
func (s Slot) Label(d Dimension) string {
	if d == DimensionParty {
		return s.Party
	}
	return s.Candidate
}

// Ballot is one validated row of the source table.
// CityValid and DistrictValid report whether the contest can take part in
// aggregations; they are decided once at ingestion.
type Ballot struct {
	Row           int                 `json:"row"`
	City          [CitySlots]Slot     `json:"city"`
	District      [DistrictSlots]Slot `json:"district"`
	DistrictNo    *int                `json:"district_no,omitempty"`
	CityValid     bool                `json:"city_valid"`
	DistrictValid bool                `json:"district_valid"`
}

// Slots returns the slots of a contest
func (b *Ballot) Slots(c Contest) []Slot {
	if c == ContestDistrict {
		return b.District[:]
	}
	return b.City[:]
}

// Valid reports whether the contest is usable on this ballot
func (b *Ballot) Valid(c Contest) bool {
	if c == ContestDistrict {
		return b.DistrictValid
	}
	return b.CityValid
}

// InDistrict reports whether the ballot was cast in district no
func (b *Ballot) InDistrict(no int) bool {
	return b.DistrictNo != nil && *b.DistrictNo == no
}

// Metric names a boolean per-ballot consistency metric
type Metric string

const (
	MetricCitySingleParty       Metric = "city_single_party"
	MetricDistrictSingleParty   Metric = "district_single_party"
	MetricCrossContestAlignment Metric = "cross_contest_alignment"
	MetricFullLoyalty           Metric = "full_loyalty"
)

// Metrics lists every consistency metric in report order
func Metrics() []Metric {
	return []Metric{
		MetricCitySingleParty,
		MetricDistrictSingleParty,
		MetricCrossContestAlignment,
		MetricFullLoyalty,
	}
}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}
