// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballot-report/models"
	"github.com/danielhkuo/ballot-report/testutil"
)

func TestCountPairs_DeduplicatesLabels(t *testing.T) {
	ballots := []models.Ballot{testutil.CityParties(1, "A", "A", "B", "C")}

	table := CountPairs(ballots, models.ContestCity, models.DimensionParty)

	want := []PairCount{
		{Pair: Pair{A: "A", B: "B"}, Count: 1},
		{Pair: Pair{A: "A", B: "C"}, Count: 1},
		{Pair: Pair{A: "B", B: "C"}, Count: 1},
	}
	if diff := cmp.Diff(want, table.Ranked()); diff != "" {
		t.Errorf("Ranked() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, table.Count("A", "A"))
	assert.Equal(t, 1, table.Ballots())
}

func TestCountPairs_CityParties(t *testing.T) {
	table := CountPairs(testutil.SampleStore(t).Ballots(), models.ContestCity, models.DimensionParty)

	want := []PairCount{
		{Pair: Pair{A: "A", B: "B"}, Count: 4},
		{Pair: Pair{A: "A", B: "C"}, Count: 2},
		{Pair: Pair{A: "B", B: "C"}, Count: 2},
		{Pair: Pair{A: "A", B: "D"}, Count: 1},
		{Pair: Pair{A: "B", B: "D"}, Count: 1},
		{Pair: Pair{A: "C", B: "D"}, Count: 1},
	}
	if diff := cmp.Diff(want, table.Ranked()); diff != "" {
		t.Errorf("Ranked() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 5, table.Ballots())
	assert.Equal(t, 11, table.Total())
	assert.Equal(t, []string{"A", "B", "C", "D"}, table.Labels())
}

func TestPairTable_Symmetry(t *testing.T) {
	table := CountPairs(testutil.SampleStore(t).Ballots(), models.ContestCity, models.DimensionCandidate)
	labels := table.Labels()

	for _, a := range labels {
		assert.Equal(t, 0, table.Count(a, a), "diagonal for %s", a)
		for _, b := range labels {
			assert.Equal(t, table.Count(a, b), table.Count(b, a), "count(%s,%s)", a, b)
		}
	}
}

func TestPairTable_Conservation(t *testing.T) {
	sample := testutil.SampleStore(t).Ballots()

	for _, contest := range []models.Contest{models.ContestCity, models.ContestDistrict} {
		for _, dim := range []models.Dimension{models.DimensionCandidate, models.DimensionParty} {
			want := 0
			for i := range sample {
				if !sample[i].Valid(contest) {
					continue
				}
				k := len(distinctLabels(sample[i].Slots(contest), dim))
				want += k * (k - 1) / 2
			}

			table := CountPairs(sample, contest, dim)
			sum := 0
			for _, pc := range table.Ranked() {
				sum += pc.Count
			}
			assert.Equal(t, want, sum, "%s/%s", contest, dim)
			assert.Equal(t, want, table.Total(), "%s/%s", contest, dim)
		}
	}
}

func TestPairTable_DistrictCandidates(t *testing.T) {
	table := CountPairs(testutil.SampleStore(t).Ballots(), models.ContestDistrict, models.DimensionCandidate)

	want := []PairCount{
		{Pair: Pair{A: "Eve Evans", B: "Finn Ford"}, Count: 2},
		{Pair: Pair{A: "Ivy Irwin", B: "Moe Mills"}, Count: 2},
		{Pair: Pair{A: "Eve Evans", B: "Ivy Irwin"}, Count: 1},
		{Pair: Pair{A: "Ivy Irwin", B: "Nora North"}, Count: 1},
	}
	if diff := cmp.Diff(want, table.Ranked()); diff != "" {
		t.Errorf("Ranked() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, table.Ballots())
}

func TestPairTable_TopPairs(t *testing.T) {
	table := CountPairs(testutil.SampleStore(t).Ballots(), models.ContestCity, models.DimensionParty)

	top := table.TopPairs(2)
	require.Len(t, top, 2)
	assert.Equal(t, NewPair("B", "A"), top[0].Pair)
	assert.Equal(t, NewPair("A", "C"), top[1].Pair)

	assert.Len(t, table.TopPairs(0), 6)
	assert.Len(t, table.TopPairs(100), 6)
}

func TestPairTable_Empty(t *testing.T) {
	table := CountPairs(nil, models.ContestDistrict, models.DimensionParty)

	assert.Equal(t, 0, table.Ballots())
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Ranked())
	assert.Empty(t, table.Ranked())
	assert.Empty(t, table.Matrix().Labels)
	assert.Equal(t, 0, table.Matrix().Max())
}

func TestPairTable_Matrix(t *testing.T) {
	table := CountPairs(testutil.SampleStore(t).Ballots(), models.ContestDistrict, models.DimensionParty)
	m := table.Matrix()

	assert.Equal(t, []string{"A", "B", "C", "E"}, m.Labels)
	assert.Equal(t, 2, m.Max())
	assert.Equal(t, 2, m.At("B", "C"))
	assert.Equal(t, 2, m.At("C", "B"))
	assert.Equal(t, 1, m.At("A", "B"))
	assert.Equal(t, 1, m.At("E", "B"))
	assert.Equal(t, 0, m.At("A", "A"))
	assert.Equal(t, 0, m.At("A", "Z"))

	for i := range m.Cells {
		assert.Equal(t, 0, m.Cells[i][i])
	}
}

func TestNewPair(t *testing.T) {
	assert.Equal(t, Pair{A: "A", B: "B"}, NewPair("B", "A"))
	assert.Equal(t, Pair{A: "A", B: "B"}, NewPair("A", "B"))
}
