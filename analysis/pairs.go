// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"sort"

	"github.com/danielhkuo/ballot-report/models"
)

// Pair is an unordered label pair stored with A < B
type Pair struct {
	A string
	B string
}

// NewPair orders its arguments
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type PairCount struct {
	Pair
	Count int
}

// PairTable counts, for every unordered pair of distinct labels, the
// ballots on which both labels appear within one contest.
// It is immutable once built.
type PairTable struct {
	contest   models.Contest
	dimension models.Dimension
	counts    map[Pair]int
	labels    []string
	ballots   int
	total     int
}

// CountPairs runs one aggregation pass. Labels are de-duplicated per ballot
// before pairing so a repeated label never forms a self pair or counts twice.
// Ballots whose contest is unusable are skipped.
func CountPairs(ballots []models.Ballot, contest models.Contest, dim models.Dimension) *PairTable {
	t := &PairTable{
		contest:   contest,
		dimension: dim,
		counts:    make(map[Pair]int),
	}
	seen := make(map[string]struct{})

	for i := range ballots {
		b := &ballots[i]
		if !b.Valid(contest) {
			continue
		}
		t.ballots++

		labels := distinctLabels(b.Slots(contest), dim)
		for _, l := range labels {
			seen[l] = struct{}{}
		}
		// labels are sorted, so labels[x] < labels[y]
		for x := 0; x < len(labels); x++ {
			for y := x + 1; y < len(labels); y++ {
				t.counts[Pair{A: labels[x], B: labels[y]}]++
				t.total++
			}
		}
	}

	t.labels = sortedKeys(seen)
	return t
}

func (t *PairTable) Contest() models.Contest      { return t.contest }
func (t *PairTable) Dimension() models.Dimension { return t.dimension }

// Count is symmetric and always zero on the diagonal
func (t *PairTable) Count(a, b string) int {
	if a == b {
		return 0
	}
	return t.counts[NewPair(a, b)]
}

// Len is the number of pairs with a non-zero count
func (t *PairTable) Len() int { return len(t.counts) }

// Total is the sum of all pair counts
func (t *PairTable) Total() int { return t.total }

// Ballots is the number of ballots that took part in the pass
func (t *PairTable) Ballots() int { return t.ballots }

// Labels returns every label observed in the contest, sorted
func (t *PairTable) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Ranked returns every pair ordered by count descending, then A, then B
func (t *PairTable) Ranked() []PairCount {
	out := make([]PairCount, 0, len(t.counts))
	for p, c := range t.counts {
		out = append(out, PairCount{Pair: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})
	return out
}

// TopPairs returns the first k ranked pairs; k <= 0 returns all of them
func (t *PairTable) TopPairs(k int) []PairCount {
	ranked := t.Ranked()
	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// Matrix is a dense symmetric view of a PairTable
type Matrix struct {
	Labels []string
	Cells  [][]int
	index  map[string]int
}

// Matrix expands the table over every observed label. Cells for labels that
// never co-occur are 0 and the diagonal is 0.
func (t *PairTable) Matrix() *Matrix {
	n := len(t.labels)
	m := &Matrix{
		Labels: t.Labels(),
		Cells:  make([][]int, n),
		index:  make(map[string]int, n),
	}
	for i, l := range m.Labels {
		m.index[l] = i
		m.Cells[i] = make([]int, n)
	}
	for p, c := range t.counts {
		i, j := m.index[p.A], m.index[p.B]
		m.Cells[i][j] = c
		m.Cells[j][i] = c
	}
	return m
}

// At returns the cell for two labels, 0 when either is unknown
func (m *Matrix) At(a, b string) int {
	i, ok := m.index[a]
	if !ok {
		return 0
	}
	j, ok := m.index[b]
	if !ok {
		return 0
	}
	return m.Cells[i][j]
}

// Max returns the largest cell value
func (m *Matrix) Max() int {
	maxVal := 0
	for _, row := range m.Cells {
		for _, v := range row {
			maxVal = max(maxVal, v)
		}
	}
	return maxVal
}
