// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"github.com/danielhkuo/ballot-report/models"
)

// distinctLabels returns the sorted distinct non-null labels of slots
func distinctLabels(slots []models.Slot, d models.Dimension) []string {
	var out []string
	for _, s := range slots {
		l := s.Label(d)
		if l == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == l {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	insertionSort(out)
	return out
}

// insertionSort keeps tiny label sets allocation free
func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// DistinctPartyCount counts distinct non-null parties in a contest
func DistinctPartyCount(b *models.Ballot, c models.Contest) int {
	return len(distinctLabels(b.Slots(c), models.DimensionParty))
}

// CityDistinctPartyCount is in [1,4] for every usable city contest
func CityDistinctPartyCount(b *models.Ballot) int {
	return DistinctPartyCount(b, models.ContestCity)
}

func DistrictDistinctPartyCount(b *models.Ballot) int {
	return DistinctPartyCount(b, models.ContestDistrict)
}

// CitySingleParty reports whether all non-null city choices share a party
func CitySingleParty(b *models.Ballot) bool {
	return CityDistinctPartyCount(b) == 1
}

// DistrictSingleParty reports whether both district choices name the same
// party. A null party never matches.
func DistrictSingleParty(b *models.Ballot) bool {
	p := b.District[0].Party
	return p != "" && p == b.District[1].Party
}

// CrossContestAlignment reports whether the party of the first district
// choice appears among the city choices
func CrossContestAlignment(b *models.Ballot) bool {
	p := b.District[0].Party
	if p == "" {
		return false
	}
	for _, s := range b.City {
		if s.Party == p {
			return true
		}
	}
	return false
}

// FullLoyalty reports whether all six choices belong to one party
func FullLoyalty(b *models.Ballot) bool {
	if !CitySingleParty(b) || !DistrictSingleParty(b) {
		return false
	}
	return cityParty(b) == b.District[0].Party
}

// cityParty returns the first non-null city party
func cityParty(b *models.Ballot) string {
	for _, s := range b.City {
		if s.HasParty() {
			return s.Party
		}
	}
	return ""
}

// Evaluator binds a metric to its predicate and the contests it reads
type Evaluator struct {
	Metric   models.Metric
	Eval     func(*models.Ballot) bool
	Contests []models.Contest
}

// Applies reports whether every contest the metric reads is usable
func (e Evaluator) Applies(b *models.Ballot) bool {
	for _, c := range e.Contests {
		if !b.Valid(c) {
			return false
		}
	}
	return true
}

var (
	cityOnly     = []models.Contest{models.ContestCity}
	districtOnly = []models.Contest{models.ContestDistrict}
	bothContests = []models.Contest{models.ContestCity, models.ContestDistrict}
)

// MetricEvaluator returns the evaluator for a metric name
func MetricEvaluator(m models.Metric) (Evaluator, error) {
	switch m {
	case models.MetricCitySingleParty:
		return Evaluator{Metric: m, Eval: CitySingleParty, Contests: cityOnly}, nil
	case models.MetricDistrictSingleParty:
		return Evaluator{Metric: m, Eval: DistrictSingleParty, Contests: districtOnly}, nil
	case models.MetricCrossContestAlignment:
		return Evaluator{Metric: m, Eval: CrossContestAlignment, Contests: bothContests}, nil
	case models.MetricFullLoyalty:
		return Evaluator{Metric: m, Eval: FullLoyalty, Contests: bothContests}, nil
	}
	return Evaluator{}, models.ErrUnknownMetric
}

// LoyalParty returns the single party of a fully loyal ballot
func LoyalParty(b *models.Ballot) (string, bool) {
	if !FullLoyalty(b) {
		return "", false
	}
	return b.District[0].Party, true
}
