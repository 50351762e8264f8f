// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/ballot-report/models"
)

// UnknownParty is returned for candidates the index has never seen
const UnknownParty = "UNK"

// CandidateIndex maps candidate names to the party they ran for.
// When a candidate appears under several parties the last observation wins
// (ballot order, then slot order) and every change is kept in Conflicts.
type CandidateIndex struct {
	contest   models.Contest
	parties   map[string]string
	conflicts []models.IndexConflict
}

// BuildCandidateIndex scans every city slot of every ballot once
func BuildCandidateIndex(ballots []models.Ballot) *CandidateIndex {
	return BuildContestIndex(ballots, models.ContestCity)
}

// BuildContestIndex indexes the slots of any contest. Slots with a null
// candidate or a null party are not recorded.
func BuildContestIndex(ballots []models.Ballot, contest models.Contest) *CandidateIndex {
	idx := &CandidateIndex{
		contest: contest,
		parties: make(map[string]string),
	}

	for i := range ballots {
		b := &ballots[i]
		for _, s := range b.Slots(contest) {
			if !s.HasCandidate() || !s.HasParty() {
				continue
			}
			if prev, ok := idx.parties[s.Candidate]; ok && prev != s.Party {
				idx.conflicts = append(idx.conflicts, models.IndexConflict{
					Candidate: s.Candidate,
					Previous:  prev,
					Party:     s.Party,
					Row:       b.Row,
				})
			}
			idx.parties[s.Candidate] = s.Party
		}
	}

	return idx
}

func (idx *CandidateIndex) Contest() models.Contest { return idx.contest }

// Party returns the candidate's party or UnknownParty
func (idx *CandidateIndex) Party(candidate string) string {
	if p, ok := idx.parties[candidate]; ok {
		return p
	}
	return UnknownParty
}

func (idx *CandidateIndex) Lookup(candidate string) (string, bool) {
	p, ok := idx.parties[candidate]
	return p, ok
}

func (idx *CandidateIndex) Len() int { return len(idx.parties) }

// Candidates returns every indexed candidate in sorted order
func (idx *CandidateIndex) Candidates() []string {
	out := make([]string, 0, len(idx.parties))
	for c := range idx.parties {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Parties returns the distinct parties of indexed candidates, sorted
func (idx *CandidateIndex) Parties() []string {
	set := make(map[string]struct{})
	for _, p := range idx.parties {
		set[p] = struct{}{}
	}
	return sortedKeys(set)
}

// Conflicts returns every party change seen while building, in scan order
func (idx *CandidateIndex) Conflicts() []models.IndexConflict {
	return append([]models.IndexConflict(nil), idx.conflicts...)
}

// FormatCandidate renders "LASTNAME (PARTY)" for chart labels
func (idx *CandidateIndex) FormatCandidate(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s)", LastName(name), idx.Party(name))
}

// FormatDistrictCandidate renders "LASTNAME [PARTY]" using the party printed
// next to the district slot
func FormatDistrictCandidate(name, party string) string {
	if name == "" {
		return ""
	}
	if party == "" {
		party = UnknownParty
	}
	return fmt.Sprintf("%s [%s]", LastName(name), party)
}

// LastName returns the final whitespace separated word of a full name
func LastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
