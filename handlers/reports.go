// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/analysis"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/middleware"
	"github.com/danielhkuo/ballot-report/models"
	"github.com/danielhkuo/ballot-report/report"
)

var errBadK = errors.New("k must be a non-negative integer")

type ReportHandler struct {
	session *report.Session
	cfg     cliparse.Config
	logger  *zap.Logger
}

func NewReportHandler(session *report.Session, cfg cliparse.Config, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{session: session, cfg: cfg, logger: logger}
}

// topK reads the k query parameter; absent means the configured default and
// 0 means every row
func (h *ReportHandler) topK(r *http.Request) (int, error) {
	return parseTopK(r, h.cfg.TopK)
}

func parseTopK(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("k")
	if v == "" {
		return def, nil
	}
	k, err := strconv.Atoi(v)
	if err != nil || k < 0 {
		return 0, errBadK
	}
	return k, nil
}

// Summary handles GET /api/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.session.Summary())
}

// Diversity handles GET /api/diversity?contest=
func (h *ReportHandler) Diversity(w http.ResponseWriter, r *http.Request) {
	c, err := models.ParseContest(r.URL.Query().Get("contest"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.PartyDiversityDistribution(c))
}

// Consistency handles GET /api/consistency/{metric}
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	m, err := models.ParseMetric(r.PathValue("metric"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	breakdown, err := h.session.ConsistencyBreakdown(m)
	if err != nil {
		h.logger.Error("consistency breakdown failed", zap.String("metric", string(m)), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute metric")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, breakdown)
}

// CandidatePairs handles GET /api/pairs/candidates?contest=&k=
func (h *ReportHandler) CandidatePairs(w http.ResponseWriter, r *http.Request) {
	c, k, ok := h.contestAndK(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.TopCandidatePairs(c, k))
}

// PartyPairs handles GET /api/pairs/parties?contest=&k=
func (h *ReportHandler) PartyPairs(w http.ResponseWriter, r *http.Request) {
	c, k, ok := h.contestAndK(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.TopPartyPairs(c, k))
}

func (h *ReportHandler) contestAndK(w http.ResponseWriter, r *http.Request) (models.Contest, int, bool) {
	c, err := models.ParseContest(r.URL.Query().Get("contest"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	k, err := h.topK(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	return c, k, true
}

// Heatmap handles GET /api/heatmap?contest=
func (h *ReportHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	c, err := models.ParseContest(r.URL.Query().Get("contest"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.PartyHeatmap(c))
}

// Patterns handles GET /api/patterns
func (h *ReportHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.session.PatternDistribution())
}

// Dominance handles GET /api/patterns/{signature}/dominance?k=
func (h *ReportHandler) Dominance(w http.ResponseWriter, r *http.Request) {
	sig, err := analysis.ParseSignature(r.PathValue("signature"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	k, err := h.topK(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.session.DominanceBreakdown(sig, k)
	if errors.Is(err, analysis.ErrUnknownSignature) {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("dominance breakdown failed", zap.String("signature", string(sig)), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute breakdown")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, d)
}

// MinorityCandidates handles GET /api/patterns/minority-candidates?k=
func (h *ReportHandler) MinorityCandidates(w http.ResponseWriter, r *http.Request) {
	k, err := h.topK(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.MinorityCandidateBreakdown(k))
}

// LoyalParties handles GET /api/loyalty/parties
func (h *ReportHandler) LoyalParties(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.session.LoyalPartyDistribution())
}

// Districts handles GET /api/districts
func (h *ReportHandler) Districts(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.DistrictsResponse{Districts: h.session.Districts()})
}

// DistrictPairs handles GET /api/districts/{no}/pairs?k=
func (h *ReportHandler) DistrictPairs(w http.ResponseWriter, r *http.Request) {
	no, err := strconv.Atoi(r.PathValue("no"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid district number %q", r.PathValue("no")))
		return
	}
	k, err := h.topK(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.session.DistrictPairBreakdown(no, k))
}

// Reload handles POST /api/reload
func (h *ReportHandler) Reload(w http.ResponseWriter, r *http.Request) {
	user := middleware.UsernameFrom(r.Context())

	store, err := h.session.Reload(r.Context())
	if errors.Is(err, report.ErrNoSource) {
		middleware.ErrorResponse(w, http.StatusConflict, "No reload source configured")
		return
	}
	if err != nil {
		h.logger.Error("reload failed", zap.String("username", user), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Reload failed, previous ballots still served")
		return
	}

	h.logger.Info("ballots reloaded",
		zap.String("username", user),
		zap.String("version", store.Version()),
	)
	middleware.JSONResponse(w, http.StatusOK, models.ReloadResponse{
		Version:  store.Version(),
		Ballots:  store.Len(),
		Skipped:  store.Skipped(),
		LoadedAt: h.session.LoadedAt(),
	})
}
