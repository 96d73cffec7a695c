package payback

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solar_payback/pkg/core/alerts"
	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/projection"
	"solar_payback/pkg/core/tariff"
	"solar_payback/pkg/core/valuation"
)

// DefaultBatchConcurrency bounds ComputeBatch fan-out when none is configured.
const DefaultBatchConcurrency = 8

// MaxBatchSize is the largest batch ComputeBatch accepts.
const MaxBatchSize = 500

// Service computes PaybackResults. It is safe for concurrent use.
type Service struct {
	engine      *projection.Engine
	logger      *zap.Logger
	concurrency int
}

// NewService creates a service over a validated schedule resolver.
// A nil logger disables logging.
func NewService(resolver *tariff.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:      projection.NewEngine(resolver),
		logger:      logger,
		concurrency: DefaultBatchConcurrency,
	}
}

// WithConcurrency sets the batch fan-out limit.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Resolver exposes the Fio B schedule in effect.
func (s *Service) Resolver() *tariff.Resolver {
	return s.engine.Resolver()
}

// ComputePayback runs the full computation for one customer.
func (s *Service) ComputePayback(in economics.CalculationInput, cfg economics.TariffRegimeConfig) (*PaybackResult, error) {
	return s.Compute(Request{Input: in, Config: cfg})
}

// Compute runs one request. Structural errors wrap economics.ErrInvalidArgument
// and nothing is computed; data gaps and numerical issues become alerts.
func (s *Service) Compute(req Request) (*PaybackResult, error) {
	start := time.Now()

	// 1. Fail fast on structural errors
	if err := req.Input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calculation input: %w", err)
	}
	if err := req.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tariff regime config: %w", err)
	}

	// 2. Documented defaults for missing data
	in, cfg, gaps := normalize(req.Input, req.Config)

	// 3. Both scenarios over the horizon
	proj, err := s.engine.Project(in, cfg)
	if err != nil {
		return nil, err
	}

	// 4. IRR per scenario
	irrC := valuation.CalculateIRR(valuation.NewIRRInput(in.InvestmentTotal, proj.Conservative.NetSavingsSeries()))
	irrO := valuation.CalculateIRR(valuation.NewIRRInput(in.InvestmentTotal, proj.Optimistic.NetSavingsSeries()))

	// 5. Alerts: collaborator gaps, normalization gaps, then rules
	diag := make([]alerts.Alert, 0, len(req.Gaps)+len(gaps)+4)
	diag = append(diag, req.Gaps...)
	diag = append(diag, gaps...)
	diag = append(diag, alerts.BuildAlerts(alerts.Context{
		Input:           in,
		Config:          cfg,
		Conservative:    proj.Conservative,
		Optimistic:      proj.Optimistic,
		ConservativeIRR: irrC,
		OptimisticIRR:   irrO,
		Plateau:         s.engine.Resolver().Plateau(),
	})...)

	result := &PaybackResult{
		Conservador:      summarize(proj.Conservative, irrC, in),
		Otimista:         summarize(proj.Optimistic, irrO, in),
		ConfigUsada:      cfg,
		InputUsado:       in,
		Alertas:          alerts.Messages(diag),
		Diagnosticos:     diag,
		FioBImpactoAnual: proj.FioBImpact,
		AnoBase:          proj.BaseYear,
		HorizonteAnos:    proj.Horizon,
		VersaoTabelaFioB: s.engine.Resolver().Schedule().Version,
	}

	s.logger.Debug("payback computed",
		zap.String("id", req.ID),
		zap.Duration("duration", time.Since(start)),
		zap.Float64("payback_conservador", result.Conservador.PaybackAnos),
		zap.Float64("payback_otimista", result.Otimista.PaybackAnos),
		zap.Int("alerts", len(diag)),
	)

	return result, nil
}

// summarize builds the headline view of one scenario.
func summarize(s projection.ScenarioProjection, irr valuation.IRRResult, in economics.CalculationInput) ScenarioSummary {
	first := s.Years[0]

	rate := irr.Rate
	if !finite(rate) {
		rate = 0
	}

	vpl := 0.0
	if in.DiscountRatePct != 0 {
		vpl = valuation.NPV(in.InvestmentTotal, s.NetSavingsSeries(), in.DiscountRatePct/100)
	}

	return ScenarioSummary{
		EconomiaBruta:            monthly(first.GrossSavings),
		CustoFioB:                monthly(first.FioBCost),
		ContaInevitavel:          monthly(first.UnavoidableBill),
		TarifaCompensavelLiquida: round(first.NetCompensableTariff, 4),
		KwhCompensado:            monthly(first.KwhOffset),
		EconomiaLiquida:          monthly(first.NetSavings),
		EconomiaAnual:            round(first.NetSavings, 2),
		EconomiaTotal:            round(s.TotalNetSavings, 2),
		PaybackAnos:              s.PaybackYears,
		ROI:                      round(s.ROI, 2),
		TIR:                      round(rate, 4),
		TIRConvergiu:             irr.Converged,
		VPL:                      round(vpl, 2),
		AnosSemEconomia:          s.FlooredYears,
		AnnualSeries:             s.Years,
	}
}

func monthly(annual float64) float64 {
	if !finite(annual) {
		return 0
	}
	return decimal.NewFromFloat(annual).Div(decimal.NewFromInt(12)).Round(2).InexactFloat64()
}

// round reports non-finite values as 0; the NonFinite alert annotates them.
func round(v float64, places int32) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ComputeBatch evaluates every request independently with bounded
// concurrency. Items keep request order; invalid items carry an error string.
// Cancelling ctx stops scheduling; unscheduled items report the context error.
func (s *Service) ComputeBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit of %d", economics.ErrInvalidArgument, len(reqs), MaxBatchSize)
	}

	items := make([]BatchItem, len(reqs))
	for i, req := range reqs {
		id := req.ID
		if id == "" {
			id = uuid.NewString()
		}
		items[i] = BatchItem{Index: i, ID: id}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range reqs {
		if gctx.Err() != nil {
			items[i].Error = gctx.Err().Error()
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					items[i].Result = nil
					items[i].Error = fmt.Sprintf("PAYBACK_PANIC: %v", r)
					s.logger.Error("batch item panicked", zap.Int("index", i), zap.String("id", items[i].ID), zap.Any("panic", r))
				}
			}()
			if err := gctx.Err(); err != nil {
				items[i].Error = err.Error()
				return nil
			}
			req := reqs[i]
			req.ID = items[i].ID
			res, err := s.Compute(req)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}

	_ = g.Wait()

	failed := 0
	for _, it := range items {
		if it.Error != "" {
			failed++
		}
	}
	s.logger.Info("batch computed", zap.Int("items", len(items)), zap.Int("failed", failed))

	return items, ctx.Err()
}

// FallbackConfig is the conservative regime config used when no regional data
// exists for region: full ICMS, no SCEE exemption and the Fio B percentage the
// schedule sets for year. The returned DataGap belongs in Request.Gaps.
func (s *Service) FallbackConfig(region string, year int) (economics.TariffRegimeConfig, alerts.Alert) {
	cfg := economics.DefaultRegimeConfig()
	cfg.Regiao = region
	cfg.CurrentFioBPct = s.engine.Resolver().PercentageForYear(year)

	what := "configuração tarifária não informada"
	if region != "" {
		what = fmt.Sprintf("região %s sem configuração cadastrada", region)
	}
	gap := alerts.DataGap("config",
		"%s; usando ICMS de %.0f%% sem isenção SCEE e Fio B de %.0f%% (%d).",
		what, cfg.IcmsPct, cfg.CurrentFioBPct, year)
	return cfg, gap
}
