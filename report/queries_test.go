// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/models"
	"github.com/danielhkuo/ballot-report/testutil"
)

func sampleSession(t *testing.T) *Session {
	t.Helper()
	return NewStaticSession(testutil.SampleStore(t), zap.NewNop())
}

func percentages(d models.Distribution) []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Percentage
	}
	return out
}

func counts(d models.Distribution) map[string]int {
	out := make(map[string]int, len(d.Rows))
	for _, r := range d.Rows {
		out[r.Label] = r.Count
	}
	return out
}

func TestPartyDiversityDistribution(t *testing.T) {
	s := sampleSession(t)

	city := s.PartyDiversityDistribution(models.ContestCity)
	assert.Equal(t, 5, city.Total)
	assert.False(t, city.Empty)
	require.Len(t, city.Rows, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{city.Rows[0].Label, city.Rows[1].Label, city.Rows[2].Label, city.Rows[3].Label})
	assert.Equal(t, map[string]int{"1": 1, "2": 2, "3": 1, "4": 1}, counts(city))
	assert.InDelta(t, 40.0, city.Rows[1].Percentage, 1e-9)

	district := s.PartyDiversityDistribution(models.ContestDistrict)
	assert.Equal(t, 6, district.Total)
	assert.Equal(t, map[string]int{"1": 2, "2": 4}, counts(district))
}

func TestDistributions_PercentagesClose(t *testing.T) {
	s := sampleSession(t)

	dists := map[string]models.Distribution{
		"city diversity":     s.PartyDiversityDistribution(models.ContestCity),
		"district diversity": s.PartyDiversityDistribution(models.ContestDistrict),
		"patterns":           s.PatternDistribution(),
		"loyal parties":      s.LoyalPartyDistribution(),
		"minority":           s.MinorityCandidateBreakdown(0),
	}
	for _, sig := range analysis.BreakdownSignatures() {
		d, err := s.DominanceBreakdown(sig, 0)
		require.NoError(t, err)
		dists["dominance "+string(sig)] = d
	}

	for name, d := range dists {
		sum := 0
		for _, r := range d.Rows {
			sum += r.Count
		}
		assert.Equal(t, d.Total, sum, name)
		assert.InDelta(t, 100.0, floats.Sum(percentages(d)), 0.1, name)
	}
}

func TestConsistencyBreakdown(t *testing.T) {
	s := sampleSession(t)

	tests := []struct {
		metric    models.Metric
		wantTrue  int
		wantFalse int
	}{
		{models.MetricCitySingleParty, 1, 4},
		{models.MetricDistrictSingleParty, 2, 4},
		{models.MetricCrossContestAlignment, 4, 1},
		{models.MetricFullLoyalty, 1, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			b, err := s.ConsistencyBreakdown(tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrue, b.TrueCount)
			assert.Equal(t, tt.wantFalse, b.FalseCount)
			assert.Equal(t, tt.wantTrue+tt.wantFalse, b.Total)
			assert.InDelta(t, 100.0, b.TruePercentage+b.FalsePercentage, 0.1)
		})
	}

	_, err := s.ConsistencyBreakdown("turnout")
	assert.True(t, errors.Is(err, models.ErrUnknownMetric))
}

func TestConsistencyBreakdown_DistrictSingleParty(t *testing.T) {
	district := []models.Slot{testutil.S("Xena Xu", "X"), testutil.S("Yuri Yoon", "X")}
	store := ballots.NewStore("pair", []models.Ballot{
		testutil.MakeBallot(1, nil, district, testutil.IntPtr(1)),
		testutil.MakeBallot(2, nil, district, testutil.IntPtr(1)),
	})
	s := NewStaticSession(store, zap.NewNop())

	b, err := s.ConsistencyBreakdown(models.MetricDistrictSingleParty)
	require.NoError(t, err)
	assert.Equal(t, models.Breakdown{
		Metric:          models.MetricDistrictSingleParty,
		Total:           2,
		TrueCount:       2,
		FalseCount:      0,
		TruePercentage:  100,
		FalsePercentage: 0,
	}, b)
}

func TestConsistencyBreakdown_Empty(t *testing.T) {
	s := NewStaticSession(ballots.NewStore("empty", nil), zap.NewNop())

	b, err := s.ConsistencyBreakdown(models.MetricFullLoyalty)
	require.NoError(t, err)
	assert.True(t, b.Empty)
	assert.Equal(t, 0, b.Total)
	assert.Zero(t, b.TruePercentage)
}

func TestTopPartyPairs(t *testing.T) {
	s := sampleSession(t)

	got := s.TopPartyPairs(models.ContestCity, 3)
	assert.Equal(t, 5, got.Total)
	require.Len(t, got.Pairs, 3)
	assert.Equal(t, models.PairRow{A: "A", B: "B", LabelA: "A", LabelB: "B", Count: 4, Percentage: 80}, got.Pairs[0])
	assert.Equal(t, "C", got.Pairs[1].B)
	assert.Equal(t, "B", got.Pairs[2].A)

	district := s.TopPartyPairs(models.ContestDistrict, 0)
	assert.Equal(t, 6, district.Total)
	require.Len(t, district.Pairs, 3)
	assert.Equal(t, "B", district.Pairs[0].A)
	assert.Equal(t, "C", district.Pairs[0].B)
	assert.Equal(t, 2, district.Pairs[0].Count)
}

func TestTopCandidatePairs(t *testing.T) {
	s := sampleSession(t)

	city := s.TopCandidatePairs(models.ContestCity, 2)
	require.Len(t, city.Pairs, 2)
	assert.Equal(t, "Alice Adams", city.Pairs[0].A)
	assert.Equal(t, "Bob Brown", city.Pairs[0].B)
	assert.Equal(t, "Adams (A)", city.Pairs[0].LabelA)
	assert.Equal(t, "Brown (A)", city.Pairs[0].LabelB)
	assert.Equal(t, 3, city.Pairs[0].Count)
	assert.InDelta(t, 60.0, city.Pairs[0].Percentage, 1e-9)
	assert.Equal(t, "Gina Green", city.Pairs[1].B)
	assert.Equal(t, "Green (B)", city.Pairs[1].LabelB)

	district := s.TopCandidatePairs(models.ContestDistrict, 1)
	require.Len(t, district.Pairs, 1)
	assert.Equal(t, "Evans [A]", district.Pairs[0].LabelA)
	assert.Equal(t, "Ford [A]", district.Pairs[0].LabelB)
}

func TestDistrictPairBreakdown(t *testing.T) {
	s := sampleSession(t)

	got := s.DistrictPairBreakdown(2, 0)
	require.NotNil(t, got.District)
	assert.Equal(t, 2, *got.District)
	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Pairs, 3)
	for _, p := range got.Pairs {
		assert.Equal(t, 1, p.Count)
	}
	assert.Equal(t, "Eve Evans", got.Pairs[0].A)

	one := s.DistrictPairBreakdown(1, 0)
	assert.Equal(t, 2, one.Total)
	assert.Len(t, one.Pairs, 2)
}

func TestDistrictPairBreakdown_UnknownDistrict(t *testing.T) {
	s := sampleSession(t)

	got := s.DistrictPairBreakdown(999, 10)
	require.NotNil(t, got.District)
	assert.Equal(t, 999, *got.District)
	assert.True(t, got.Empty)
	assert.Equal(t, 0, got.Total)
	assert.NotNil(t, got.Pairs)
	assert.Empty(t, got.Pairs)

	for no := 1000; no < 1100; no++ {
		s.DistrictPairBreakdown(no, 10)
	}
	_, cached := s.cache.Load(s.Store().Version() + "/district-pairs/999")
	assert.False(t, cached, "unknown districts are not cached")

	s.DistrictPairBreakdown(2, 10)
	_, cached = s.cache.Load(s.Store().Version() + "/district-pairs/2")
	assert.True(t, cached)
}

func TestPartyHeatmap(t *testing.T) {
	s := sampleSession(t)

	city := s.PartyHeatmap(models.ContestCity)
	assert.Equal(t, []string{"A", "B", "C", "D"}, city.Labels)
	assert.Equal(t, 4, city.Max)
	assert.Equal(t, 4, city.Cells[0][1])
	assert.Equal(t, 4, city.Cells[1][0])

	district := s.PartyHeatmap(models.ContestDistrict)
	assert.Equal(t, []string{"A", "B", "C", "E"}, district.Labels)
	assert.Equal(t, 2, district.Max)

	assert.Equal(t, 4, s.HeatmapScaleMax())
}

func TestPatternDistribution(t *testing.T) {
	s := sampleSession(t)

	got := s.PatternDistribution()
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, map[string]int{"3-1": 1, "2-2": 1, "1-1-1-1": 1, "2-1-1": 1, "4": 1}, counts(got))
}

func TestPatternDistribution_ThreeBallots(t *testing.T) {
	store := ballots.NewStore("three", []models.Ballot{
		testutil.CityParties(1, "A", "A", "A", "B"),
		testutil.CityParties(2, "A", "A", "B", "B"),
		testutil.CityParties(3, "A", "B", "C", "D"),
	})
	s := NewStaticSession(store, zap.NewNop())

	assert.Equal(t, map[string]int{"3-1": 1, "2-2": 1, "1-1-1-1": 1}, counts(s.PatternDistribution()))

	d, err := s.DominanceBreakdown(analysis.SignatureThreeOne, 0)
	require.NoError(t, err)
	require.Len(t, d.Rows, 1)
	assert.Equal(t, []string{"A", "B"}, d.Rows[0].Keys)
	assert.Equal(t, 1, d.Total)
}

func TestDominanceBreakdown(t *testing.T) {
	s := sampleSession(t)

	tests := []struct {
		sig   analysis.Signature
		label string
	}{
		{analysis.SignatureThreeOne, "A → B"},
		{analysis.SignatureTwoTwo, "A = B"},
		{analysis.SignatureTwoOneOne, "B → (A, C)"},
		{analysis.SignatureAllDistinct, "(A, B, C, D)"},
		{analysis.SignaturePure, "A"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sig), func(t *testing.T) {
			d, err := s.DominanceBreakdown(tt.sig, 0)
			require.NoError(t, err)
			require.Len(t, d.Rows, 1)
			assert.Equal(t, tt.label, d.Rows[0].Label)
			assert.InDelta(t, 100.0, d.Rows[0].Percentage, 1e-9)
		})
	}

	_, err := s.DominanceBreakdown("9-9", 0)
	assert.True(t, errors.Is(err, analysis.ErrUnknownSignature))
}

func TestDominanceBreakdown_TopK(t *testing.T) {
	store := ballots.NewStore("dominance", []models.Ballot{
		testutil.CityParties(1, "A", "A", "A", "B"),
		testutil.CityParties(2, "A", "A", "A", "B"),
		testutil.CityParties(3, "C", "C", "C", "A"),
		testutil.CityParties(4, "B", "D", "D", "D"),
	})
	s := NewStaticSession(store, zap.NewNop())

	full, err := s.DominanceBreakdown(analysis.SignatureThreeOne, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A → B", "C → A", "D → B"}, []string{full.Rows[0].Label, full.Rows[1].Label, full.Rows[2].Label})
	assert.InDelta(t, 50.0, full.Rows[0].Percentage, 1e-9)

	top, err := s.DominanceBreakdown(analysis.SignatureThreeOne, 1)
	require.NoError(t, err)
	require.Len(t, top.Rows, 1)
	assert.Equal(t, 4, top.Total)

	// limiting a cached result must not truncate it
	again, err := s.DominanceBreakdown(analysis.SignatureThreeOne, 0)
	require.NoError(t, err)
	assert.Len(t, again.Rows, 3)
}

func TestMinorityCandidateBreakdown(t *testing.T) {
	s := sampleSession(t)

	got := s.MinorityCandidateBreakdown(0)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Diaz (B) → A", got.Rows[0].Label)
	assert.Equal(t, []string{"Dana Diaz", "B", "A"}, got.Rows[0].Keys)
	assert.Equal(t, 1, got.Total)
}

func TestLoyalPartyDistribution(t *testing.T) {
	s := sampleSession(t)

	got := s.LoyalPartyDistribution()
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, map[string]int{"A": 1}, counts(got))
}

func TestSummary(t *testing.T) {
	s := sampleSession(t)

	got := s.Summary()
	assert.Equal(t, s.Store().Version(), got.Version)
	assert.Equal(t, 7, got.Ballots)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 5, got.CityBallots)
	assert.Equal(t, 6, got.DistrictBallots)
	assert.Equal(t, 9, got.Candidates)
	assert.Equal(t, 5, got.Parties)
	assert.Equal(t, 3, got.Districts)
	assert.InDelta(t, 2.4, got.MeanCityParties, 1e-9)
	assert.InDelta(t, math.Sqrt(1.3), got.StdDevCityParties, 1e-9)
	assert.Zero(t, got.IndexConflictsTotal)

	assert.Equal(t, []int{1, 2, 3}, s.Districts())
}

func TestEmptyStore(t *testing.T) {
	s := NewStaticSession(ballots.NewStore("empty", nil), zap.NewNop())

	assert.True(t, s.PatternDistribution().Empty)
	assert.NotNil(t, s.PatternDistribution().Rows)
	assert.True(t, s.PartyDiversityDistribution(models.ContestCity).Empty)
	assert.True(t, s.TopPartyPairs(models.ContestCity, 5).Empty)
	assert.True(t, s.LoyalPartyDistribution().Empty)
	assert.Equal(t, 0, s.HeatmapScaleMax())

	d, err := s.DominanceBreakdown(analysis.SignatureTwoTwo, 5)
	require.NoError(t, err)
	assert.True(t, d.Empty)

	summary := s.Summary()
	assert.Zero(t, summary.MeanCityParties)
	assert.Zero(t, summary.StdDevCityParties)
}
