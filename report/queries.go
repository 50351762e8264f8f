// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/models"
)

// percent is count/total*100 and 0 for an empty subset
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// tally accumulates distribution rows keyed by label
type tally struct {
	rows map[string]*models.DistributionRow
}

func newTally() *tally {
	return &tally{rows: make(map[string]*models.DistributionRow)}
}

func (t *tally) add(label string, keys []string) {
	r, ok := t.rows[label]
	if !ok {
		r = &models.DistributionRow{Label: label, Keys: keys}
		t.rows[label] = r
	}
	r.Count++
}

// byCount orders rows by count descending, then label
func byCount(a, b models.DistributionRow) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Label < b.Label
}

// distribution finalises percentages over total and applies the limit;
// limit <= 0 keeps every row
func (t *tally) distribution(name string, total, limit int, less func(a, b models.DistributionRow) bool) models.Distribution {
	d := models.Distribution{
		Name:  name,
		Total: total,
		Empty: total == 0,
		Rows:  []models.DistributionRow{},
	}
	if d.Empty {
		return d
	}
	for _, r := range t.rows {
		r.Percentage = percent(r.Count, total)
		d.Rows = append(d.Rows, *r)
	}
	sort.Slice(d.Rows, func(i, j int) bool { return less(d.Rows[i], d.Rows[j]) })
	if limit > 0 && limit < len(d.Rows) {
		d.Rows = d.Rows[:limit]
	}
	return d
}

// PartyDiversityDistribution counts ballots by number of distinct parties
// chosen in a contest, ascending by that number
func (s *Session) PartyDiversityDistribution(c models.Contest) models.Distribution {
	return memo(s, "diversity/"+string(c), func(st *ballots.Store) models.Distribution {
		t := newTally()
		total := 0
		all := st.Ballots()
		for i := range all {
			b := &all[i]
			if !b.Valid(c) {
				continue
			}
			total++
			t.add(strconv.Itoa(analysis.DistinctPartyCount(b, c)), nil)
		}
		return t.distribution("party_diversity_"+string(c), total, 0, func(a, b models.DistributionRow) bool {
			ai, _ := strconv.Atoi(a.Label)
			bi, _ := strconv.Atoi(b.Label)
			return ai < bi
		})
	})
}

// ConsistencyBreakdown splits the ballots a metric applies to into true and
// false
func (s *Session) ConsistencyBreakdown(m models.Metric) (models.Breakdown, error) {
	ev, err := analysis.MetricEvaluator(m)
	if err != nil {
		return models.Breakdown{}, err
	}
	return memo(s, "consistency/"+string(m), func(st *ballots.Store) models.Breakdown {
		out := models.Breakdown{Metric: m}
		all := st.Ballots()
		for i := range all {
			b := &all[i]
			if !ev.Applies(b) {
				continue
			}
			out.Total++
			if ev.Eval(b) {
				out.TrueCount++
			} else {
				out.FalseCount++
			}
		}
		out.Empty = out.Total == 0
		out.TruePercentage = percent(out.TrueCount, out.Total)
		out.FalsePercentage = percent(out.FalseCount, out.Total)
		return out
	}), nil
}

// TopCandidatePairs ranks candidates chosen together on one ballot
func (s *Session) TopCandidatePairs(c models.Contest, k int) models.RankedPairs {
	st := s.Store()
	return s.rankPairs(st, s.pairTableFor(st, c, models.DimensionCandidate), k, nil)
}

// TopPartyPairs ranks parties chosen together on one ballot
func (s *Session) TopPartyPairs(c models.Contest, k int) models.RankedPairs {
	st := s.Store()
	return s.rankPairs(st, s.pairTableFor(st, c, models.DimensionParty), k, nil)
}

// DistrictPairBreakdown ranks district candidate pairs among ballots of one
// district only. An unknown district yields an empty result and is not
// cached.
func (s *Session) DistrictPairBreakdown(districtNo, k int) models.RankedPairs {
	st := s.Store()
	no := districtNo
	if !slices.Contains(st.Districts(), districtNo) {
		return models.RankedPairs{
			Contest:   models.ContestDistrict,
			Dimension: models.DimensionCandidate,
			District:  &no,
			Empty:     true,
			Pairs:     []models.PairRow{},
		}
	}
	table := memoFor(s, st, "district-pairs/"+strconv.Itoa(districtNo), func(st *ballots.Store) *analysis.PairTable {
		return analysis.CountPairs(st.FilterDistrict(districtNo), models.ContestDistrict, models.DimensionCandidate)
	})
	return s.rankPairs(st, table, k, &no)
}

func (s *Session) rankPairs(st *ballots.Store, t *analysis.PairTable, k int, district *int) models.RankedPairs {
	out := models.RankedPairs{
		Contest:   t.Contest(),
		Dimension: t.Dimension(),
		District:  district,
		Total:     t.Ballots(),
		Empty:     t.Ballots() == 0,
		Pairs:     []models.PairRow{},
	}
	if out.Empty {
		return out
	}

	label := s.labeler(st, t.Contest(), t.Dimension())
	for _, pc := range t.TopPairs(k) {
		out.Pairs = append(out.Pairs, models.PairRow{
			A:          pc.A,
			B:          pc.B,
			LabelA:     label(pc.A),
			LabelB:     label(pc.B),
			Count:      pc.Count,
			Percentage: percent(pc.Count, out.Total),
		})
	}
	return out
}

// labeler returns the chart label function for a contest and dimension
func (s *Session) labeler(st *ballots.Store, c models.Contest, d models.Dimension) func(string) string {
	if d == models.DimensionParty {
		return func(p string) string { return p }
	}
	if c == models.ContestDistrict {
		idx := s.districtIndexFor(st)
		return func(name string) string {
			p, _ := idx.Lookup(name)
			return analysis.FormatDistrictCandidate(name, p)
		}
	}
	return s.indexFor(st).FormatCandidate
}

// PartyHeatmap is the party co-occurrence matrix of a contest
func (s *Session) PartyHeatmap(c models.Contest) models.Heatmap {
	return s.heatmapFor(s.Store(), c)
}

func (s *Session) heatmapFor(st *ballots.Store, c models.Contest) models.Heatmap {
	m := s.pairTableFor(st, c, models.DimensionParty).Matrix()
	return models.Heatmap{
		Contest: c,
		Labels:  m.Labels,
		Cells:   m.Cells,
		Max:     m.Max(),
	}
}

// HeatmapScaleMax is the common colour scale maximum of both contests so
// the two heatmaps compare directly
func (s *Session) HeatmapScaleMax() int {
	st := s.Store()
	return max(
		s.heatmapFor(st, models.ContestCity).Max,
		s.heatmapFor(st, models.ContestDistrict).Max,
	)
}

// PatternDistribution counts city ballots per signature
func (s *Session) PatternDistribution() models.Distribution {
	return memo(s, "patterns", func(st *ballots.Store) models.Distribution {
		p := s.partitionsFor(st)
		t := newTally()
		for _, sig := range p.Signatures() {
			t.rows[string(sig)] = &models.DistributionRow{Label: string(sig), Count: p.Count(sig)}
		}
		return t.distribution("party_patterns", p.Total(), 0, byCount)
	})
}

// DominanceBreakdown groups one signature's ballots by the parties that
// shape it. Percentages are relative to the partition size.
func (s *Session) DominanceBreakdown(sig analysis.Signature, k int) (models.Distribution, error) {
	full, err := memoErr(s, "dominance/"+string(sig), func(st *ballots.Store) (models.Distribution, error) {
		p := s.partitionsFor(st)
		keys, err := p.Groups(sig)
		if err != nil {
			return models.Distribution{}, err
		}
		t := newTally()
		for _, g := range keys {
			t.add(g.Label, g.Keys)
		}
		return t.distribution("dominance_"+string(sig), p.Count(sig), 0, byCount), nil
	})
	if err != nil {
		return models.Distribution{}, err
	}
	return limitRows(full, k), nil
}

// MinorityCandidateBreakdown ranks candidates who were the single
// different choice on a "3-1" ballot, with the party that dominated it
func (s *Session) MinorityCandidateBreakdown(k int) models.Distribution {
	full := memo(s, "minority-candidates", func(st *ballots.Store) models.Distribution {
		p := s.partitionsFor(st)
		t := newTally()
		for _, d := range p.ThreeOne() {
			name := analysis.LastName(d.MinorityCandidate)
			if name == "" {
				name = analysis.UnknownParty
			}
			t.add(
				fmt.Sprintf("%s (%s) → %s", name, d.Minority, d.Dominant),
				[]string{d.MinorityCandidate, d.Minority, d.Dominant},
			)
		}
		return t.distribution("minority_candidates", p.Count(analysis.SignatureThreeOne), 0, byCount)
	})
	return limitRows(full, k)
}

// LoyalPartyDistribution splits fully loyal ballots by their party
func (s *Session) LoyalPartyDistribution() models.Distribution {
	return memo(s, "loyal-parties", func(st *ballots.Store) models.Distribution {
		t := newTally()
		total := 0
		all := st.Ballots()
		for i := range all {
			b := &all[i]
			if !b.CityValid || !b.DistrictValid {
				continue
			}
			if party, ok := analysis.LoyalParty(b); ok {
				total++
				t.add(party, nil)
			}
		}
		return t.distribution("loyal_parties", total, 0, byCount)
	})
}

// Districts lists district numbers present in the table
func (s *Session) Districts() []int {
	return s.Store().Districts()
}

// Summary describes the loaded table
func (s *Session) Summary() models.DatasetSummary {
	return memo(s, "summary", func(st *ballots.Store) models.DatasetSummary {
		idx := s.indexFor(st)
		conflicts := idx.Conflicts()

		parties := make(map[string]struct{})
		var counts []float64
		all := st.Ballots()
		for i := range all {
			b := &all[i]
			if b.CityValid {
				counts = append(counts, float64(analysis.CityDistinctPartyCount(b)))
			}
			for _, slot := range b.City {
				if slot.HasParty() {
					parties[slot.Party] = struct{}{}
				}
			}
			for _, slot := range b.District {
				if slot.HasParty() {
					parties[slot.Party] = struct{}{}
				}
			}
		}

		out := models.DatasetSummary{
			Version:             st.Version(),
			Ballots:             st.Len(),
			Skipped:             st.Skipped(),
			CityBallots:         st.CountValid(models.ContestCity),
			DistrictBallots:     st.CountValid(models.ContestDistrict),
			Candidates:          idx.Len(),
			Parties:             len(parties),
			Districts:           len(st.Districts()),
			IndexConflictsTotal: len(conflicts),
		}
		if len(conflicts) > maxLoggedConflicts {
			conflicts = conflicts[:maxLoggedConflicts]
		}
		out.IndexConflicts = conflicts
		switch {
		case len(counts) > 1:
			out.MeanCityParties, out.StdDevCityParties = stat.MeanStdDev(counts, nil)
		case len(counts) == 1:
			out.MeanCityParties = counts[0]
		}
		return out
	})
}

type result[T any] struct {
	value T
	err   error
}

// memoErr memoises a computation that may fail; failures are cached too
// since they depend only on the store and key
func memoErr[T any](s *Session, key string, fn func(*ballots.Store) (T, error)) (T, error) {
	r := memo(s, key, func(st *ballots.Store) result[T] {
		v, err := fn(st)
		return result[T]{value: v, err: err}
	})
	return r.value, r.err
}

// limitRows copies a distribution keeping the first k rows
func limitRows(d models.Distribution, k int) models.Distribution {
	if k > 0 && k < len(d.Rows) {
		d.Rows = append([]models.DistributionRow(nil), d.Rows[:k]...)
	}
	return d
}
