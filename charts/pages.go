// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/models"
)

var ErrUnknownPage = errors.New("unknown report page")

// Page names a report page
type Page string

const (
	PageOverview          Page = "overview"
	PagePartyMixing       Page = "party-mixing"
	PageCandidateBehavior Page = "candidate-behavior"
	PageAlignment         Page = "alignment"
	PagePatterns          Page = "patterns"
)

// Pages lists the report pages in navigation order
func Pages() []Page {
	return []Page{PageOverview, PagePartyMixing, PageCandidateBehavior, PageAlignment, PagePatterns}
}

func ParsePage(s string) (Page, error) {
	for _, p := range Pages() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Title is the human readable page heading
func (p Page) Title() string {
	switch p {
	case PageOverview:
		return "Overview"
	case PagePartyMixing:
		return "Party Mixing"
	case PageCandidateBehavior:
		return "Candidate Behavior"
	case PageAlignment:
		return "City and District Alignment"
	case PagePatterns:
		return "Party Patterns"
	}
	return string(p)
}

// Reports is the query surface the pages are drawn from
type Reports interface {
	PartyDiversityDistribution(c models.Contest) models.Distribution
	ConsistencyBreakdown(m models.Metric) (models.Breakdown, error)
	TopCandidatePairs(c models.Contest, k int) models.RankedPairs
	TopPartyPairs(c models.Contest, k int) models.RankedPairs
	DistrictPairBreakdown(districtNo, k int) models.RankedPairs
	PartyHeatmap(c models.Contest) models.Heatmap
	HeatmapScaleMax() int
	PatternDistribution() models.Distribution
	DominanceBreakdown(sig analysis.Signature, k int) (models.Distribution, error)
	MinorityCandidateBreakdown(k int) models.Distribution
	LoyalPartyDistribution() models.Distribution
}

// Options tune a rendered page
type Options struct {
	// TopK limits ranked tables; <= 0 shows every row
	TopK int
	// District restricts the candidate behavior district pairs
	District *int
	// AssetsHost overrides where echarts scripts are loaded from
	AssetsHost string
}

type builder struct {
	reports Reports
	opts    Options
}

// Render writes the HTML of one report page
func Render(w io.Writer, r Reports, page Page, o Options) error {
	b := &builder{reports: r, opts: o}

	p := components.NewPage()
	p.PageTitle = "Ballot Report: " + page.Title()
	if o.AssetsHost != "" {
		p.SetAssetsHost(o.AssetsHost)
	}

	var err error
	switch page {
	case PageOverview:
		err = b.overview(p)
	case PagePartyMixing:
		b.partyMixing(p)
	case PageCandidateBehavior:
		b.candidateBehavior(p)
	case PageAlignment:
		err = b.alignment(p)
	case PagePatterns:
		err = b.patterns(p)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if err != nil {
		return err
	}

	if err := p.Render(w); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	return nil
}

func (b *builder) overview(p *components.Page) error {
	p.AddCharts(
		b.distributionBar("Distinct Parties per City Ballot", b.reports.PartyDiversityDistribution(models.ContestCity)),
		b.distributionBar("Distinct Parties per District Ballot", b.reports.PartyDiversityDistribution(models.ContestDistrict)),
	)
	for _, m := range []models.Metric{models.MetricCitySingleParty, models.MetricDistrictSingleParty} {
		br, err := b.reports.ConsistencyBreakdown(m)
		if err != nil {
			return err
		}
		p.AddCharts(b.breakdownPie(metricTitle(m), br))
	}
	return nil
}

func (b *builder) partyMixing(p *components.Page) {
	scale := b.reports.HeatmapScaleMax()
	p.AddCharts(
		b.heatmap("City Party Co-occurrence", b.reports.PartyHeatmap(models.ContestCity), scale),
		b.heatmap("District Party Co-occurrence", b.reports.PartyHeatmap(models.ContestDistrict), scale),
		b.pairsBar("Top City Party Pairs", b.reports.TopPartyPairs(models.ContestCity, b.opts.TopK)),
		b.pairsBar("Top District Party Pairs", b.reports.TopPartyPairs(models.ContestDistrict, b.opts.TopK)),
	)
}

func (b *builder) candidateBehavior(p *components.Page) {
	p.AddCharts(b.pairsBar("Top City Candidate Pairs", b.reports.TopCandidatePairs(models.ContestCity, b.opts.TopK)))
	if b.opts.District != nil {
		no := *b.opts.District
		p.AddCharts(b.pairsBar(
			fmt.Sprintf("Top Candidate Pairs in District %d", no),
			b.reports.DistrictPairBreakdown(no, b.opts.TopK),
		))
		return
	}
	p.AddCharts(b.pairsBar("Top District Candidate Pairs", b.reports.TopCandidatePairs(models.ContestDistrict, b.opts.TopK)))
}

func (b *builder) alignment(p *components.Page) error {
	for _, m := range []models.Metric{models.MetricCrossContestAlignment, models.MetricFullLoyalty} {
		br, err := b.reports.ConsistencyBreakdown(m)
		if err != nil {
			return err
		}
		p.AddCharts(b.breakdownPie(metricTitle(m), br))
	}
	p.AddCharts(b.distributionPie("Fully Loyal Ballots by Party", b.reports.LoyalPartyDistribution()))
	return nil
}

func (b *builder) patterns(p *components.Page) error {
	p.AddCharts(b.distributionPie("City Ballot Party Patterns", b.reports.PatternDistribution()))
	for _, sig := range analysis.BreakdownSignatures() {
		d, err := b.reports.DominanceBreakdown(sig, b.opts.TopK)
		if err != nil {
			return err
		}
		p.AddCharts(b.rankedBar(fmt.Sprintf("Party Combinations in %s Ballots", sig), d))
	}
	p.AddCharts(b.rankedBar("Minority Candidates on 3-1 Ballots", b.reports.MinorityCandidateBreakdown(b.opts.TopK)))
	return nil
}

func metricTitle(m models.Metric) string {
	switch m {
	case models.MetricCitySingleParty:
		return "City Ballots Choosing One Party"
	case models.MetricDistrictSingleParty:
		return "District Ballots Choosing One Party"
	case models.MetricCrossContestAlignment:
		return "District Party Also Chosen in City Contest"
	case models.MetricFullLoyalty:
		return "Same Party in Every Seat"
	}
	return string(m)
}
