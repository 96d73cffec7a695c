// Package payback exposes the payback engine over HTTP.
package payback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar_payback/pkg/api/responses"
	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/narrative"
	"solar_payback/pkg/core/payback"
	"solar_payback/pkg/core/report"
	"solar_payback/pkg/core/store"
)

// DefaultScheduleYears is the series length of GET /tariff/schedule.
const DefaultScheduleYears = 10

// PaybackRequest is the body of the single-customer endpoints.
// Config wins over Regiao; with neither the default regime config is used.
type PaybackRequest struct {
	ID      string                        `json:"id,omitempty"`
	Input   economics.CalculationInput    `json:"input"`
	Config  *economics.TariffRegimeConfig `json:"config,omitempty"`
	Regiao  string                        `json:"regiao,omitempty"`
	Cliente string                        `json:"cliente,omitempty"`
}

// BatchRequest is the body of POST /payback/batch.
type BatchRequest struct {
	Itens []PaybackRequest `json:"itens"`
}

// Handler holds dependencies for the payback endpoints.
type Handler struct {
	Service  *payback.Service
	Regions  store.TariffRepository
	Narrator *narrative.Narrator
	Logger   *zap.Logger

	now func() time.Time
}

// NewHandler creates a payback handler. regions and narrator may be nil.
func NewHandler(svc *payback.Service, regions store.TariffRepository, narrator *narrative.Narrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Regions:  regions,
		Narrator: narrator,
		Logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes mounts the endpoints on an /api/v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payback", h.HandleCompute)
	rg.POST("/payback/batch", h.HandleBatch)
	rg.POST("/payback/report", h.HandleReport)
	rg.POST("/payback/narrative", h.HandleNarrative)
	rg.GET("/tariff/schedule", h.HandleSchedule)
	rg.GET("/regions/:uf", h.HandleRegion)
}

// HandleCompute serves POST /payback.
func (h *Handler) HandleCompute(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	responses.Success(c, res, "payback computed")
}

// HandleBatch serves POST /payback/batch.
func (h *Handler) HandleBatch(c *gin.Context) {
	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(body.Itens) == 0 {
		responses.Error(c, http.StatusBadRequest, "empty batch")
		return
	}
	if len(body.Itens) > payback.MaxBatchSize {
		responses.Error(c, http.StatusBadRequest, "batch too large",
			fmt.Sprintf("at most %d items are accepted, got %d", payback.MaxBatchSize, len(body.Itens)))
		return
	}

	reqs := make([]payback.Request, len(body.Itens))
	for i, item := range body.Itens {
		req, err := h.resolveRequest(c.Request.Context(), item)
		if err != nil {
			h.fail(c, err)
			return
		}
		reqs[i] = req
	}

	items, err := h.Service.ComputeBatch(c.Request.Context(), reqs)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, items, "batch computed")
}

// HandleReport serves POST /payback/report as text/html.
func (h *Handler) HandleReport(c *gin.Context) {
	var body PaybackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	res, ok := h.computeBody(c, body)
	if !ok {
		return
	}

	page, err := report.Render(res, report.Options{Customer: body.Cliente})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// HandleNarrative serves POST /payback/narrative.
func (h *Handler) HandleNarrative(c *gin.Context) {
	if !h.Narrator.Enabled() {
		responses.Error(c, http.StatusServiceUnavailable, "narrative provider not configured")
		return
	}

	var body PaybackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	res, ok := h.computeBody(c, body)
	if !ok {
		return
	}

	text, err := h.Narrator.Explain(c.Request.Context(), res, body.Cliente)
	if err != nil {
		responses.Error(c, http.StatusBadGateway, "narrative generation failed", err.Error())
		return
	}
	responses.Success(c, gin.H{"narrativa": text, "resultado": res}, "narrative generated")
}

// HandleSchedule serves GET /tariff/schedule?inicio=<year>&anos=<n>.
func (h *Handler) HandleSchedule(c *gin.Context) {
	start := h.now().Year()
	if v := c.Query("inicio"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "invalid query parameter", "inicio must be a year")
			return
		}
		start = n
	}
	years := DefaultScheduleYears
	if v := c.Query("anos"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > economics.MaxHorizonYears {
			responses.Error(c, http.StatusBadRequest, "invalid query parameter",
				fmt.Sprintf("anos must be between 1 and %d", economics.MaxHorizonYears))
			return
		}
		years = n
	}

	resolver := h.Service.Resolver()
	series, err := resolver.Series(start, years)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, gin.H{
		"tabela": resolver.Schedule(),
		"teto":   resolver.Plateau(),
		"inicio": start,
		"serie":  series,
	}, "")
}

// HandleRegion serves GET /regions/:uf.
func (h *Handler) HandleRegion(c *gin.Context) {
	uf := store.NormalizeUF(c.Param("uf"))
	if h.Regions == nil {
		responses.Error(c, http.StatusNotFound, "region not found", uf)
		return
	}
	cfg, err := h.Regions.GetRegion(c.Request.Context(), uf)
	if err != nil {
		if errors.Is(err, store.ErrRegionNotFound) {
			responses.Error(c, http.StatusNotFound, "region not found", uf)
			return
		}
		h.fail(c, err)
		return
	}
	responses.Success(c, cfg, "")
}

func (h *Handler) compute(c *gin.Context) (*payback.PaybackResult, bool) {
	var body PaybackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return nil, false
	}
	return h.computeBody(c, body)
}

func (h *Handler) computeBody(c *gin.Context, body PaybackRequest) (*payback.PaybackResult, bool) {
	req, err := h.resolveRequest(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if req.ID == "" {
		req.ID = responses.RequestID(c)
	}
	res, err := h.Service.Compute(req)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return res, true
}

// resolveRequest picks the tariff regime config for body: explicit config,
// then the regional repository, then the conservative default.
func (h *Handler) resolveRequest(ctx context.Context, body PaybackRequest) (payback.Request, error) {
	req := payback.Request{ID: body.ID, Input: body.Input}

	// 1. Explicit config
	if body.Config != nil {
		cfg := *body.Config
		cfg.Fonte = economics.SourceRequest
		if cfg.Regiao == "" {
			cfg.Regiao = store.NormalizeUF(body.Regiao)
		}
		req.Config = cfg
		return req, nil
	}

	// 2. Regional repository
	if body.Regiao != "" && h.Regions != nil {
		cfg, err := h.Regions.GetRegion(ctx, body.Regiao)
		if err == nil {
			req.Config = cfg
			return req, nil
		}
		if !errors.Is(err, store.ErrRegionNotFound) {
			return payback.Request{}, fmt.Errorf("REGION_LOOKUP_FAILED: %w", err)
		}
		h.Logger.Warn("region not found, using default config", zap.String("uf", body.Regiao))
	}

	// 3. Conservative default
	year := body.Input.StartYear
	if year == 0 {
		year = h.now().Year()
	}
	cfg, gap := h.Service.FallbackConfig(store.NormalizeUF(body.Regiao), year)
	req.Config = cfg
	req.Gaps = append(req.Gaps, gap)
	return req, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, economics.ErrInvalidArgument):
		responses.Error(c, http.StatusBadRequest, "invalid argument", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		responses.Error(c, http.StatusServiceUnavailable, "request cancelled", err.Error())
	default:
		h.Logger.Error("payback request failed", zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
