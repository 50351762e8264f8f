// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/ballots"
	"github.com/danielhkuo/ballot-report/models"
	"github.com/danielhkuo/ballot-report/report"
	"github.com/danielhkuo/ballot-report/testutil"
)

// alternatingSource hands out its stores in turn on every Load
type alternatingSource struct {
	stores []*ballots.Store
	calls  atomic.Int32
}

func (s *alternatingSource) Load(ctx context.Context) (*ballots.Store, error) {
	n := int(s.calls.Add(1)) - 1
	return s.stores[n%len(s.stores)], nil
}

func (s *alternatingSource) Describe() string { return "test:alternating" }

// TestConcurrentQueriesDuringReload verifies that report queries served
// while the store is being reloaded always see one consistent table
func TestConcurrentQueriesDuringReload(t *testing.T) {
	sample := testutil.SampleStore(t)
	other := testutil.LoadCSV(t, `choice_1,choice_2,choice_3,choice_4,party_1,party_2,party_3,party_4
Xavi Xu,Yana Young,Zed Zane,,X,Y,Z,
Xavi Xu,Yana Young,,,X,Y,,
Zed Zane,Xavi Xu,,,Z,X,,
`)
	src := &alternatingSource{stores: []*ballots.Store{sample, other}}

	session, err := report.NewSession(context.Background(), src, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	h := NewReportHandler(session, testutil.GetTestConfig(), zap.NewNop())

	validTotals := map[int]bool{
		sample.CountValid(models.ContestCity): true,
		other.CountValid(models.ContestCity):  true,
	}

	numReaders := 20
	var okCount atomic.Int32
	var wrongTotals atomic.Int32
	var unknownLabels atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			for round := 0; round < 25; round++ {
				w := httptest.NewRecorder()
				if idx%2 == 0 {
					h.Patterns(w, httptest.NewRequest("GET", "/api/patterns", nil))
				} else {
					h.CandidatePairs(w, httptest.NewRequest("GET", "/api/pairs/candidates?k=0", nil))
				}
				if w.Code != http.StatusOK {
					return
				}

				if idx%2 == 0 {
					var d models.Distribution
					if err := json.NewDecoder(w.Body).Decode(&d); err != nil || !validTotals[d.Total] {
						wrongTotals.Add(1)
					}
				} else {
					var p models.RankedPairs
					if err := json.NewDecoder(w.Body).Decode(&p); err != nil || !validTotals[p.Total] {
						wrongTotals.Add(1)
					}
					for _, row := range p.Pairs {
						if strings.Contains(row.LabelA, analysis.UnknownParty) || strings.Contains(row.LabelB, analysis.UnknownParty) {
							unknownLabels.Add(1)
						}
					}
				}
			}
			okCount.Add(1)
		}(i)
	}

	// Reload concurrently with the readers, switching tables each time
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < 10; round++ {
				w := httptest.NewRecorder()
				h.Reload(w, httptest.NewRequest("POST", "/api/reload", nil))
			}
		}()
	}

	wg.Wait()

	if int(okCount.Load()) != numReaders {
		t.Errorf("Expected %d readers to finish, got %d", numReaders, okCount.Load())
	}
	if wrongTotals.Load() != 0 {
		t.Errorf("Expected every response to cover one whole table, %d did not", wrongTotals.Load())
	}
	if unknownLabels.Load() != 0 {
		t.Errorf("Expected candidate labels from the same table as the counts, %d were unknown", unknownLabels.Load())
	}
}
