// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballots

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/danielhkuo/ballot-report/models"
)

// Source produces a fresh Store. Implementations read the underlying data
// on every call; callers decide when to reload.
type Source interface {
	Load(ctx context.Context) (*Store, error)
	Describe() string
}

// Store is an immutable in-memory ballot table
type Store struct {
	ballots   []models.Ballot
	version   string
	skipped   int
	source    string
	missing   []string
	districts []int
}

// NewStore wraps already validated ballots. The slice is owned by the store
// afterwards and must not be modified.
func NewStore(source string, ballots []models.Ballot) *Store {
	s := &Store{
		ballots: ballots,
		source:  source,
	}

	seen := make(map[int]struct{})
	for i := range ballots {
		b := &ballots[i]
		if !b.CityValid && !b.DistrictValid {
			s.skipped++
		}
		if b.DistrictNo != nil {
			if _, ok := seen[*b.DistrictNo]; !ok {
				seen[*b.DistrictNo] = struct{}{}
				s.districts = append(s.districts, *b.DistrictNo)
			}
		}
	}
	sort.Ints(s.districts)
	s.version = computeVersion(ballots)

	return s
}

// NewBallot builds a ballot and decides contest usability: a contest is
// usable when at least one of its party cells is non-null.
func NewBallot(row int, city [models.CitySlots]models.Slot, district [models.DistrictSlots]models.Slot, districtNo *int) models.Ballot {
	return models.Ballot{
		Row:           row,
		City:          city,
		District:      district,
		DistrictNo:    districtNo,
		CityValid:     anyParty(city[:]),
		DistrictValid: anyParty(district[:]),
	}
}

func anyParty(slots []models.Slot) bool {
	for _, s := range slots {
		if s.HasParty() {
			return true
		}
	}
	return false
}

// Ballots returns the table. Callers must treat it as read-only.
func (s *Store) Ballots() []models.Ballot { return s.ballots }

func (s *Store) Len() int { return len(s.ballots) }

// Version is a content hash of the table; equal tables share a version.
func (s *Store) Version() string { return s.version }

// Skipped counts rows where neither contest is usable
func (s *Store) Skipped() int { return s.skipped }

func (s *Store) Source() string { return s.source }

// Missing lists header columns that were absent when the store was loaded
func (s *Store) Missing() []string {
	return append([]string(nil), s.missing...)
}

// Districts returns the sorted district numbers present in the table
func (s *Store) Districts() []int {
	return append([]int(nil), s.districts...)
}

// FilterDistrict returns the ballots cast in district no.
// The result is empty, never nil, when the district does not exist.
func (s *Store) FilterDistrict(no int) []models.Ballot {
	out := []models.Ballot{}
	for i := range s.ballots {
		if s.ballots[i].InDistrict(no) {
			out = append(out, s.ballots[i])
		}
	}
	return out
}

// CountValid counts ballots on which the contest is usable
func (s *Store) CountValid(c models.Contest) int {
	n := 0
	for i := range s.ballots {
		if s.ballots[i].Valid(c) {
			n++
		}
	}
	return n
}

func computeVersion(ballots []models.Ballot) string {
	d := xxhash.New()
	for i := range ballots {
		b := &ballots[i]
		d.WriteString(strconv.Itoa(b.Row))
		for _, slot := range b.City {
			d.WriteString("\x1f" + slot.Candidate + "\x1f" + slot.Party)
		}
		for _, slot := range b.District {
			d.WriteString("\x1f" + slot.Candidate + "\x1f" + slot.Party)
		}
		if b.DistrictNo != nil {
			d.WriteString("\x1f" + strconv.Itoa(*b.DistrictNo))
		}
		d.WriteString("\x1e")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
