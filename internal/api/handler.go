package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/zzenonn/go-mckp"
	"github.com/zzenonn/go-mckp/internal/dataset"
	"github.com/zzenonn/go-mckp/internal/logging"
)

// Options configures a Handler.
type Options struct {
	// SolverOptions are applied to every solve; a request strategy is
	// applied after them.
	SolverOptions []mckp.Option

	// Dataset is used by requests that carry none. Nil means every request
	// must carry its own.
	Dataset *mckp.Dataset

	Formatter    mckp.Formatter
	Schema       mckp.Schema
	CacheTTL     time.Duration
	MaxBodyBytes int64
}

// Handler serves the optimizer API.
type Handler struct {
	opts      Options
	base      *mckp.Solver
	cache     *resultCache
	validate  *validator.Validate
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		opts:      opts,
		base:      mckp.NewSolver(opts.SolverOptions...),
		cache:     newResultCache(opts.CacheTTL),
		validate:  v,
		startTime: time.Now(),
	}
}

// solverFor returns the base solver, or a copy using the named strategy.
func (h *Handler) solverFor(strategy string) (*mckp.Solver, error) {
	if strategy == "" {
		return h.base, nil
	}
	s, err := mckp.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	opts := append(append([]mckp.Option(nil), h.opts.SolverOptions...), mckp.WithStrategy(s))
	return mckp.NewSolver(opts...), nil
}

// decode reads a size-limited JSON body and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, &APIError{Code: CodeBadRequest, Message: "request body too large"})
			return false
		}
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeBadRequest, Message: "failed to read request body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeBadRequest, Message: fmt.Sprintf("invalid JSON body: %v", err)})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondValidationError(w, r, err)
		return false
	}
	return true
}

// datasetFor decodes an inline dataset or falls back to the default one.
func (h *Handler) datasetFor(w http.ResponseWriter, r *http.Request, raw json.RawMessage) (mckp.Dataset, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		if h.opts.Dataset == nil {
			respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeNoDataset, Message: "request carries no dataset and none is configured"})
			return mckp.Dataset{}, false
		}
		return *h.opts.Dataset, true
	}
	ds, err := dataset.Decode(raw, dataset.FormatJSON)
	if err != nil {
		respondSolveError(w, r, err)
		return mckp.Dataset{}, false
	}
	return ds, true
}

// Optimize handles POST /api/v1/optimize.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	ds, ok := h.datasetFor(w, r, req.Dataset)
	if !ok {
		return
	}
	solver, err := h.solverFor(req.Strategy)
	if err != nil {
		respondSolveError(w, r, err)
		return
	}

	strategy := solver.Config().Strategy.String()
	key := fmt.Sprintf("%016x|%v|%s|%s", Fingerprint(ds), *req.Budget, req.Objective, strategy)
	if resp, hit := h.cache.get(key); hit {
		respondData(w, r, resp, true)
		return
	}

	res, err := solver.Optimize(r.Context(), ds, *req.Budget, req.Objective, h.opts.Schema)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("objective", req.Objective).Msg("optimize rejected")
		respondSolveError(w, r, err)
		return
	}

	resp := OptimizeResponse{
		Choices:   res.Configuration.Choices,
		Stats:     res.Stats,
		Objective: res.Objective,
		Value:     res.Value,
		Weight:    res.Weight,
		Budget:    res.Budget,
		Strategy:  strategy,
		Text:      h.opts.Formatter.Format(res.Configuration, res.Stats),
	}
	h.cache.set(key, resp)

	logging.Ctx(r.Context()).Info().
		Str("objective", req.Objective).
		Float64("budget", *req.Budget).
		Float64("value", res.Value).
		Str("strategy", strategy).
		Msg("optimized")
	respondData(w, r, resp, false)
}

// Count handles POST /api/v1/count.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	var req CountRequest
	if !h.decode(w, r, &req) {
		return
	}
	ds, ok := h.datasetFor(w, r, req.Dataset)
	if !ok {
		return
	}
	n, err := h.base.Count(r.Context(), ds, *req.Budget)
	if err != nil {
		respondSolveError(w, r, err)
		return
	}
	respondData(w, r, CountResponse{Configurations: n, Budget: *req.Budget}, false)
}

// Rank handles POST /api/v1/rank.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !h.decode(w, r, &req) {
		return
	}
	ds, ok := h.datasetFor(w, r, req.Dataset)
	if !ok {
		return
	}
	ranked, err := h.base.Rank(r.Context(), ds, *req.Budget, req.Objective, req.K)
	if err != nil {
		respondSolveError(w, r, err)
		return
	}

	resp := RankResponse{
		Configurations: make([]RankedConfiguration, len(ranked)),
		Objective:      req.Objective,
		Budget:         *req.Budget,
	}
	for i, cfg := range ranked {
		resp.Configurations[i] = RankedConfiguration{
			Choices: cfg.Choices,
			Value:   cfg.Objective(ds, req.Objective),
			Weight:  cfg.TotalWeight(ds),
		}
	}
	respondData(w, r, resp, false)
}

// Attributes handles GET /api/v1/attributes for the configured dataset.
func (h *Handler) Attributes(w http.ResponseWriter, r *http.Request) {
	if h.opts.Dataset == nil {
		respondError(w, r, http.StatusNotFound, &APIError{Code: CodeNoDataset, Message: "no dataset is configured"})
		return
	}
	ds := *h.opts.Dataset
	cats := make([]string, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		cats = append(cats, c.Name)
	}
	respondData(w, r, AttributesResponse{
		Categories: cats,
		Attributes: ds.Attributes(h.opts.Schema),
	}, false)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, HealthResponse{
		Status:         "healthy",
		DefaultDataset: h.opts.Dataset != nil,
		CachedResults:  h.cache.size(),
		Uptime:         time.Since(h.startTime).Seconds(),
	}, false)
}
