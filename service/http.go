package service

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/core"
)

// Handler 把 Recommender 暴露成 HTTP JSON API。
//
// GET /api/recommendations?user_id=&domain=&k=&lambda=
// 响应体是推荐记录数组；有能力被禁用时附带 X-Recommend-Degraded 响应头，
// 忽略该头的调用方看到的接口形状不变。
type Handler struct {
	rec    *Recommender
	logger zerolog.Logger
}

func NewHandler(rec *Recommender, logger zerolog.Logger) *Handler {
	return &Handler{rec: rec, logger: logger}
}

// Router 构建路由。allowedOrigins 为空时放行所有来源（开发模式）。
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Get("/api/recommendations", h.recommendations)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"degraded": h.rec.Capabilities().DisabledReasons(),
	})
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := Request{UserID: q.Get("user_id")}
	domain, err := core.ParseDomain(q.Get("domain"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Domain = domain

	if s := q.Get("k"); s != "" {
		k, err := strconv.Atoi(s)
		if err != nil || k <= 0 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		req.K = k
	}
	if s := q.Get("lambda"); s != "" {
		lambda, err := strconv.ParseFloat(s, 64)
		if err != nil || lambda < 0 || lambda > 1 {
			writeError(w, http.StatusBadRequest, "lambda must be in [0,1]")
			return
		}
		req.Lambda = &lambda
	}

	recs, err := h.rec.Recommend(r.Context(), req)
	if err != nil {
		if de := core.GetDomainError(err); de != nil && de.Code == core.ErrorCodeInvalidInput {
			writeError(w, http.StatusBadRequest, de.Message)
			return
		}
		h.logger.Error().Err(err).Msg("recommend failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if reasons := h.rec.Capabilities().DisabledReasons(); len(reasons) > 0 {
		w.Header().Set("X-Recommend-Degraded", strings.Join(reasons, "; "))
	}
	if recs == nil {
		recs = []core.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
