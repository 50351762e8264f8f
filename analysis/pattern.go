// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danielhkuo/ballot-report/models"
)

var ErrUnknownSignature = errors.New("no breakdown for signature")

// Signature is the descending party multiplicity pattern of the city
// choices, e.g. "3-1" for three choices of one party and one of another
type Signature string

const (
	SignaturePure        Signature = "4"
	SignatureThreeOne    Signature = "3-1"
	SignatureTwoTwo      Signature = "2-2"
	SignatureTwoOneOne   Signature = "2-1-1"
	SignatureAllDistinct Signature = "1-1-1-1"
)

// BreakdownSignatures are the signatures with a dominance breakdown
func BreakdownSignatures() []Signature {
	return []Signature{
		SignatureThreeOne,
		SignatureTwoTwo,
		SignatureTwoOneOne,
		SignatureAllDistinct,
		SignaturePure,
	}
}

func ParseSignature(s string) (Signature, error) {
	for _, sig := range BreakdownSignatures() {
		if string(sig) == s {
			return sig, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSignature, s)
}

type partyCount struct {
	party string
	count int
}

// cityPartyCounts counts non-null city parties, most frequent first and
// ties in party order
func cityPartyCounts(b *models.Ballot) []partyCount {
	var out []partyCount
	for _, s := range b.City {
		if !s.HasParty() {
			continue
		}
		found := false
		for i := range out {
			if out[i].party == s.Party {
				out[i].count++
				found = true
				break
			}
		}
		if !found {
			out = append(out, partyCount{party: s.Party, count: 1})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].party < out[j].party
	})
	return out
}

func signatureOf(counts []partyCount) Signature {
	parts := make([]string, len(counts))
	for i, pc := range counts {
		parts[i] = strconv.Itoa(pc.count)
	}
	return Signature(strings.Join(parts, "-"))
}

// Classify returns the signature of a ballot's city choices. Null parties
// are left out, so a ballot with three parties recorded yields "2-1" and
// similar; a ballot with none yields "".
func Classify(b *models.Ballot) Signature {
	return signatureOf(cityPartyCounts(b))
}

// Partitions groups usable city ballots by signature. Extractors only ever
// see the partition of their own signature.
type Partitions struct {
	groups map[Signature][]*models.Ballot
	total  int
}

// PartitionBySignature classifies every usable city ballot exactly once
func PartitionBySignature(ballots []models.Ballot) *Partitions {
	p := &Partitions{groups: make(map[Signature][]*models.Ballot)}
	for i := range ballots {
		b := &ballots[i]
		if !b.CityValid {
			continue
		}
		sig := Classify(b)
		p.groups[sig] = append(p.groups[sig], b)
		p.total++
	}
	return p
}

// Total is the number of classified ballots
func (p *Partitions) Total() int { return p.total }

// Count is the size of one partition
func (p *Partitions) Count(sig Signature) int { return len(p.groups[sig]) }

// Signatures lists non-empty partitions, largest first, ties by signature
func (p *Partitions) Signatures() []Signature {
	out := make([]Signature, 0, len(p.groups))
	for sig := range p.groups {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := len(p.groups[out[i]]), len(p.groups[out[j]])
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	return out
}

// Dominance describes a "3-1" ballot: the party chosen three times, the
// party chosen once and the candidate who carried it
type Dominance struct {
	Row               int
	Dominant          string
	Minority          string
	MinorityCandidate string
}

// ThreeOne extracts dominance from the "3-1" partition
func (p *Partitions) ThreeOne() []Dominance {
	group := p.groups[SignatureThreeOne]
	out := make([]Dominance, 0, len(group))
	for _, b := range group {
		counts := cityPartyCounts(b)
		d := Dominance{
			Row:      b.Row,
			Dominant: counts[0].party,
			Minority: counts[1].party,
		}
		for _, s := range b.City {
			if s.Party == d.Minority {
				d.MinorityCandidate = s.Candidate
				break
			}
		}
		out = append(out, d)
	}
	return out
}

// TwoTwo extracts the two evenly split parties from the "2-2" partition
func (p *Partitions) TwoTwo() []Pair {
	group := p.groups[SignatureTwoTwo]
	out := make([]Pair, 0, len(group))
	for _, b := range group {
		counts := cityPartyCounts(b)
		out = append(out, NewPair(counts[0].party, counts[1].party))
	}
	return out
}

// CoreSplit describes a "2-1-1" ballot: the doubled party and the two others
type CoreSplit struct {
	Core   string
	Others Pair
}

// TwoOneOne extracts core and side parties from the "2-1-1" partition
func (p *Partitions) TwoOneOne() []CoreSplit {
	group := p.groups[SignatureTwoOneOne]
	out := make([]CoreSplit, 0, len(group))
	for _, b := range group {
		counts := cityPartyCounts(b)
		out = append(out, CoreSplit{
			Core:   counts[0].party,
			Others: NewPair(counts[1].party, counts[2].party),
		})
	}
	return out
}

// AllDistinct extracts the sorted party set of the "1-1-1-1" partition
func (p *Partitions) AllDistinct() [][models.CitySlots]string {
	group := p.groups[SignatureAllDistinct]
	out := make([][models.CitySlots]string, 0, len(group))
	for _, b := range group {
		var set [models.CitySlots]string
		for i, pc := range cityPartyCounts(b) {
			set[i] = pc.party
		}
		sort.Strings(set[:])
		out = append(out, set)
	}
	return out
}

// Pure extracts the only party of the "4" partition
func (p *Partitions) Pure() []string {
	group := p.groups[SignaturePure]
	out := make([]string, 0, len(group))
	for _, b := range group {
		out = append(out, b.City[0].Party)
	}
	return out
}

// GroupKey is one ballot's grouping value in a dominance breakdown
type GroupKey struct {
	Label string
	Keys  []string
}

// Groups maps every ballot of a signature's partition to its dominance
// group key. Only signatures listed by BreakdownSignatures are supported.
func (p *Partitions) Groups(sig Signature) ([]GroupKey, error) {
	var out []GroupKey
	switch sig {
	case SignatureThreeOne:
		for _, d := range p.ThreeOne() {
			out = append(out, GroupKey{
				Label: d.Dominant + " → " + d.Minority,
				Keys:  []string{d.Dominant, d.Minority},
			})
		}
	case SignatureTwoTwo:
		for _, pair := range p.TwoTwo() {
			out = append(out, GroupKey{
				Label: pair.A + " = " + pair.B,
				Keys:  []string{pair.A, pair.B},
			})
		}
	case SignatureTwoOneOne:
		for _, cs := range p.TwoOneOne() {
			out = append(out, GroupKey{
				Label: fmt.Sprintf("%s → (%s, %s)", cs.Core, cs.Others.A, cs.Others.B),
				Keys:  []string{cs.Core, cs.Others.A, cs.Others.B},
			})
		}
	case SignatureAllDistinct:
		for _, set := range p.AllDistinct() {
			out = append(out, GroupKey{
				Label: "(" + strings.Join(set[:], ", ") + ")",
				Keys:  append([]string(nil), set[:]...),
			})
		}
	case SignaturePure:
		for _, party := range p.Pure() {
			out = append(out, GroupKey{Label: party, Keys: []string{party}})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignature, sig)
	}
	return out, nil
}
