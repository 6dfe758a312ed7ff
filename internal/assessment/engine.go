package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"riskgate/internal/assessment/metrics"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/sentinel"
)

// Parameter names as they appear in stored results and reasons.
const (
	paramSolicitationChannel = "Solicitation Channel"
	paramNationality         = "Nationality"
	paramGeographicalStatus  = "Geographical Status"
	paramCountryOfResidence  = "Country of Residence"
	paramEmploymentType      = "Employment Type"
	paramNatureOfBusiness    = "Nature of Business"
	paramCountryOfReg        = "Country of Registration"
	paramTradeCountries      = "Expected Countries of Trade"
	paramExpectedCountries   = "Expected Countries"
	paramProductUsage        = "Product Usage"
)

// Engine evaluates onboarding subjects through three strictly ordered
// phases: prohibited-country stop, automatic escalation, weighted scoring.
// Pure domain logic; the only I/O is catalog lookups through the
// ReferenceLookup port.
type Engine struct {
	reference ReferenceLookup
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the Prometheus metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an assessment engine backed by the given catalog lookup.
func NewEngine(reference ReferenceLookup, opts ...Option) *Engine {
	e := &Engine{
		reference: reference,
		logger:    slog.Default(),
		tracer:    otel.Tracer("riskgate/assessment"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess runs the full pipeline for one subject. Phases are evaluated in
// order and the first terminal phase wins: a prohibited country always
// dominates escalation triggers, which always dominate weighted scoring.
func (e *Engine) Assess(ctx context.Context, subject Subject) (*Result, error) {
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "assessment.Assess",
		trace.WithAttributes(attribute.String("submission.type", string(subject.SubmissionType))))
	defer span.End()

	if subject.SubmissionType != TypeIndividual && subject.SubmissionType != TypeEntity {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid submission type: %q", subject.SubmissionType)
	}

	stopReasons, err := e.checkStopConditions(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(stopReasons) > 0 {
		e.metrics.ObserveStop()
		return e.finish(span, start, &Result{
			FinalBand:       BandNoGo,
			Score:           stopScore,
			Reasons:         stopReasons,
			StopReasons:     stopReasons,
			ParameterScores: []ParameterScore{},
			Method:          MethodImmediateStop,
		}), nil
	}

	triggers, err := e.checkEscalations(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(triggers) > 0 {
		e.metrics.ObserveEscalation()
		return e.finish(span, start, &Result{
			FinalBand:       BandAutoHigh,
			Score:           stopScore,
			Reasons:         triggers,
			ParameterScores: []ParameterScore{},
			Method:          MethodAutoHigh,
		}), nil
	}

	result, err := e.scoreWeighted(ctx, subject)
	if err != nil {
		return nil, err
	}
	return e.finish(span, start, result), nil
}

func (e *Engine) finish(span trace.Span, start time.Time, result *Result) *Result {
	span.SetAttributes(
		attribute.String("assessment.band", string(result.FinalBand)),
		attribute.String("assessment.method", string(result.Method)),
		attribute.Float64("assessment.score", result.Score),
	)
	e.metrics.ObserveResult(string(result.FinalBand), string(result.Method), time.Since(start).Seconds())
	e.logger.Debug("assessment complete",
		"band", result.FinalBand,
		"method", result.Method,
		"score", result.Score,
		"factors", len(result.ParameterScores))
	return result
}

// relevantCountries collects every country field that applies to the
// subject's variant, in declaration order. Duplicates are kept: each
// occurrence of a prohibited country produces its own stop reason.
func relevantCountries(subject Subject) []string {
	var countries []string
	switch subject.SubmissionType {
	case TypeIndividual:
		if subject.Nationality != "" {
			countries = append(countries, subject.Nationality)
		}
		if subject.CountryOfResidence != "" {
			countries = append(countries, subject.CountryOfResidence)
		}
	case TypeEntity:
		if subject.CountryOfRegistration != "" {
			countries = append(countries, subject.CountryOfRegistration)
		}
		countries = append(countries, subject.TradeCountries...)
	}
	countries = append(countries, subject.ExpectedCountries...)
	return countries
}

func (e *Engine) checkStopConditions(ctx context.Context, subject Subject) ([]string, error) {
	var reasons []string
	for _, country := range relevantCountries(subject) {
		if country == "" {
			continue
		}
		band, err := e.reference.CountryBand(ctx, country)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup country %q: %w", country, err)
		}
		if band == BandNoGo {
			reasons = append(reasons, fmt.Sprintf("NoGo country detected: %s", country))
		}
	}
	return reasons, nil
}

// checkEscalations evaluates every auto-high trigger and collects all that
// fire, so the result names every escalation cause at once.
func (e *Engine) checkEscalations(ctx context.Context, subject Subject) ([]string, error) {
	var triggers []string

	if subject.IsPEP || subject.EntityPEP {
		triggers = append(triggers, "Customer is a Politically Exposed Person (PEP)")
	}

	if subject.EmploymentType != "" {
		band, err := e.reference.EmploymentBand(ctx, subject.EmploymentType)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("lookup employment %q: %w", subject.EmploymentType, err)
		}
		if err == nil && band == BandAutoHigh {
			triggers = append(triggers, fmt.Sprintf("Auto High Risk employment: %s", subject.EmploymentType))
		}
	}

	if subject.NatureOfBusiness != "" {
		band, err := e.reference.BusinessBand(ctx, subject.NatureOfBusiness)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("lookup business %q: %w", subject.NatureOfBusiness, err)
		}
		if err == nil && band == BandAutoHigh {
			triggers = append(triggers, fmt.Sprintf("Auto High Risk business: %s", subject.NatureOfBusiness))
		}
	}

	for _, product := range subject.Products {
		if product == "" {
			continue
		}
		band, err := e.reference.ProductBand(ctx, product)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("lookup product %q: %w", product, err)
		}
		if err == nil && band == BandAutoHigh {
			triggers = append(triggers, fmt.Sprintf("Auto High Risk product: %s", product))
		}
	}

	return triggers, nil
}

// lookupFn adapts one catalog method for the generic scoring helpers.
type lookupFn func(ctx context.Context, name string) (RiskBand, error)

// addLookupFactor scores a single catalog-backed field. Values absent from
// the catalog contribute no factor.
func (e *Engine) addLookupFactor(ctx context.Context, s *scorer, name, value string, lookup lookupFn) error {
	if value == "" {
		return nil
	}
	band, err := lookup(ctx, value)
	if errors.Is(err, sentinel.ErrNotFound) {
		e.logger.Debug("no catalog entry for value, skipping factor", "parameter", name, "value", value)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup %s %q: %w", name, value, err)
	}
	s.add(name, value, band)
	return nil
}

// addListFactor scores a list field as a single factor carrying the highest
// band among its resolvable elements. An empty list contributes no factor; a
// list with no resolvable elements scores Low.
func (e *Engine) addListFactor(ctx context.Context, s *scorer, name string, values []string, lookup lookupFn) error {
	if len(values) == 0 {
		return nil
	}
	var maxWeight float64
	for _, v := range values {
		if v == "" {
			continue
		}
		band, err := lookup(ctx, v)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup %s %q: %w", name, v, err)
		}
		if w := bandWeight(band); w > maxWeight {
			maxWeight = w
		}
	}
	s.add(name, strings.Join(values, ", "), bandForMaxWeight(maxWeight))
	return nil
}

func (e *Engine) scoreWeighted(ctx context.Context, subject Subject) (*Result, error) {
	s := &scorer{params: []ParameterScore{}}

	if subject.SolicitationChannel != "" {
		s.add(paramSolicitationChannel, subject.SolicitationChannel, channelBand(subject.SolicitationChannel))
	}

	switch subject.SubmissionType {
	case TypeIndividual:
		if err := e.addLookupFactor(ctx, s, paramNationality, subject.Nationality, e.reference.CountryBand); err != nil {
			return nil, err
		}
		if subject.GeographicalStatus != "" {
			s.add(paramGeographicalStatus, subject.GeographicalStatus, geographicalBand(subject.GeographicalStatus))
		}
		if err := e.addLookupFactor(ctx, s, paramCountryOfResidence, subject.CountryOfResidence, e.reference.CountryBand); err != nil {
			return nil, err
		}
		if err := e.addLookupFactor(ctx, s, paramEmploymentType, subject.EmploymentType, e.reference.EmploymentBand); err != nil {
			return nil, err
		}
	case TypeEntity:
		if err := e.addLookupFactor(ctx, s, paramNatureOfBusiness, subject.NatureOfBusiness, e.reference.BusinessBand); err != nil {
			return nil, err
		}
		if err := e.addLookupFactor(ctx, s, paramCountryOfReg, subject.CountryOfRegistration, e.reference.CountryBand); err != nil {
			return nil, err
		}
		if err := e.addListFactor(ctx, s, paramTradeCountries, subject.TradeCountries, e.reference.CountryBand); err != nil {
			return nil, err
		}
	}

	if err := e.addListFactor(ctx, s, paramExpectedCountries, subject.ExpectedCountries, e.reference.CountryBand); err != nil {
		return nil, err
	}
	if err := e.addListFactor(ctx, s, paramProductUsage, subject.Products, e.reference.ProductBand); err != nil {
		return nil, err
	}

	composite := s.composite()
	reasons := make([]string, 0, len(s.params))
	for _, p := range s.params {
		reasons = append(reasons, fmt.Sprintf("%s: %s (%s Risk)", p.Name, p.Value, p.Band))
	}

	return &Result{
		FinalBand:       bandForScore(composite),
		Score:           round2(composite),
		Reasons:         reasons,
		ParameterScores: s.params,
		Method:          MethodWeightedAverage,
	}, nil
}
