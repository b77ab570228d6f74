package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"growthmind/internal/domain"
	"growthmind/internal/llm"
	"growthmind/internal/metrics"
)

// AuditOutcome es el resultado etiquetado: Source dice si vino del modelo o del respaldo,
// y Err conserva la causa cuando se uso el respaldo.
type AuditOutcome struct {
	Result domain.AuditResult
	Source domain.AuditSource
	Err    error
}

// AuditService genera la auditoria de crecimiento. Nunca devuelve error hacia afuera:
// cualquier falla (transporte, credencial, payload vacio o fuera de schema) termina en
// el reporte de respaldo. Una sola llamada por invocacion, sin reintentos ni timeout propio.
type AuditService struct {
	llmClient llm.LLMClient
	builder   AuditRequestBuilder
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewAuditService(llmClient llm.LLMClient, m *metrics.Metrics, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		llmClient: llmClient,
		metrics:   m,
		logger:    logger,
	}
}

// GenerateAudit es la llamada que usa la maquina de estados.
func (s *AuditService) GenerateAudit(ctx context.Context, profile domain.BusinessProfile) domain.AuditResult {
	return s.Generate(ctx, profile).Result
}

// Generate ejecuta la llamada y reporta si hubo que usar el respaldo.
func (s *AuditService) Generate(ctx context.Context, profile domain.BusinessProfile) AuditOutcome {
	start := time.Now()
	req := s.builder.Build(profile)

	result, err := s.callModel(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("audit generation failed, using fallback",
			zap.Error(err),
			zap.String("industry", profile.Industry),
			zap.Duration("elapsed", elapsed),
		)
		s.metrics.ObserveAudit(string(domain.AuditSourceFallback), elapsed)
		return AuditOutcome{Result: FallbackAudit(), Source: domain.AuditSourceFallback, Err: err}
	}

	s.logger.Info("audit generated",
		zap.Int("overall_score", result.OverallScore),
		zap.Int("recommendations", len(result.Recommendations)),
		zap.Duration("elapsed", elapsed),
	)
	s.metrics.ObserveAudit(string(domain.AuditSourceLive), elapsed)
	return AuditOutcome{Result: result, Source: domain.AuditSourceLive}
}

func (s *AuditService) callModel(ctx context.Context, req llm.Request) (domain.AuditResult, error) {
	if s.llmClient == nil {
		return domain.AuditResult{}, llm.ErrMissingAPIKey
	}
	raw, err := s.llmClient.Generate(ctx, req)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("llm generate: %w", err)
	}
	result, err := parseAuditPayload(raw, req.Schema)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("parse llm response: %w", err)
	}
	return result, nil
}
