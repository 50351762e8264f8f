// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballots

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/ballot-report/models"
)

var (
	ErrEmptyInput     = errors.New("ballot table has no header row")
	ErrMissingColumns = errors.New("ballot table has no contest columns")
)

// Column names of the cleaned ballot table
var (
	CityCandidateColumns     = [models.CitySlots]string{"choice_1", "choice_2", "choice_3", "choice_4"}
	CityPartyColumns         = [models.CitySlots]string{"party_1", "party_2", "party_3", "party_4"}
	DistrictCandidateColumns = [models.DistrictSlots]string{"district_candidate_1", "district_candidate_2"}
	DistrictPartyColumns     = [models.DistrictSlots]string{"district_party_1", "district_party_2"}
)

const DistrictNoColumn = "district_no"

// nullCells are spellings of a missing value produced by common exporters
var nullCells = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

// Normalize trims a cell and maps null spellings to the empty string
func Normalize(cell string) string {
	v := strings.TrimSpace(cell)
	if _, ok := nullCells[strings.ToLower(v)]; ok {
		return ""
	}
	return v
}

// ParseDistrictNo accepts integer or integral float text ("12", "12.0").
// Anything else, including values outside the int range, is treated as null.
func ParseDistrictNo(cell string) *int {
	v := Normalize(cell)
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil
	}
	if f < math.MinInt || f >= math.MaxInt {
		return nil
	}
	n := int(f)
	return &n
}

// header maps column names to record positions; -1 when absent
type header struct {
	cityCandidate     [models.CitySlots]int
	cityParty         [models.CitySlots]int
	districtCandidate [models.DistrictSlots]int
	districtParty     [models.DistrictSlots]int
	districtNo        int
	missing           []string
}

func parseHeader(record []string) header {
	pos := make(map[string]int, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	var h header
	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		h.missing = append(h.missing, name)
		return -1
	}
	for i := range models.CitySlots {
		h.cityCandidate[i] = lookup(CityCandidateColumns[i])
		h.cityParty[i] = lookup(CityPartyColumns[i])
	}
	for i := range models.DistrictSlots {
		h.districtCandidate[i] = lookup(DistrictCandidateColumns[i])
		h.districtParty[i] = lookup(DistrictPartyColumns[i])
	}
	h.districtNo = lookup(DistrictNoColumn)
	return h
}

// covers reports whether every position exists and fits in a row of width n
func covers(n int, positions ...int) bool {
	for _, p := range positions {
		if p < 0 || p >= n {
			return false
		}
	}
	return true
}

func (h header) cityPositions() []int {
	out := append([]int(nil), h.cityCandidate[:]...)
	return append(out, h.cityParty[:]...)
}

func (h header) districtPositions() []int {
	out := append([]int(nil), h.districtCandidate[:]...)
	return append(out, h.districtParty[:]...)
}

func cell(record []string, pos int) string {
	if pos < 0 || pos >= len(record) {
		return ""
	}
	return Normalize(record[pos])
}

// Load reads a ballot table in CSV form. Rows that lack a contest's columns
// keep that contest marked unusable instead of failing the load.
func Load(r io.Reader, source string) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h := parseHeader(first)
	cityCols := covers(len(first), h.cityPositions()...)
	districtCols := covers(len(first), h.districtPositions()...)
	if !cityCols && !districtCols {
		return nil, fmt.Errorf("%w: missing %s", ErrMissingColumns, strings.Join(h.missing, ", "))
	}

	var out []models.Ballot
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		row++

		var city [models.CitySlots]models.Slot
		for i := range city {
			city[i] = models.Slot{
				Candidate: cell(record, h.cityCandidate[i]),
				Party:     cell(record, h.cityParty[i]),
			}
		}
		var district [models.DistrictSlots]models.Slot
		for i := range district {
			district[i] = models.Slot{
				Candidate: cell(record, h.districtCandidate[i]),
				Party:     cell(record, h.districtParty[i]),
			}
		}

		b := NewBallot(row, city, district, ParseDistrictNo(cell(record, h.districtNo)))
		b.CityValid = b.CityValid && cityCols && covers(len(record), h.cityPositions()...)
		b.DistrictValid = b.DistrictValid && districtCols && covers(len(record), h.districtPositions()...)
		out = append(out, b)
	}

	store := NewStore(source, out)
	store.missing = h.missing
	return store, nil
}

// LoadFile reads a ballot CSV from disk
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ballot file: %w", err)
	}
	defer f.Close()

	return Load(f, path)
}

// FileSource loads ballots from a CSV file on every Load
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

func (s FileSource) Describe() string { return "csv:" + s.Path }
