// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/charts"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/middleware"
	"github.com/danielhkuo/ballot-report/report"
)

type PageHandler struct {
	session *report.Session
	cfg     cliparse.Config
	logger  *zap.Logger
}

func NewPageHandler(session *report.Session, cfg cliparse.Config, logger *zap.Logger) *PageHandler {
	return &PageHandler{session: session, cfg: cfg, logger: logger}
}

// Render handles GET /reports/{page}
func (h *PageHandler) Render(w http.ResponseWriter, r *http.Request) {
	page, err := charts.ParsePage(r.PathValue("page"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	k, err := parseTopK(r, h.cfg.TopK)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	o := charts.Options{TopK: k}

	if v := r.URL.Query().Get("district"); v != "" {
		no, err := strconv.Atoi(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "district must be an integer")
			return
		}
		o.District = &no
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, h.session, page, o); err != nil {
		h.logger.Error("page render failed", zap.String("page", string(page)), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
