package calculator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wahidmansoor/mwov2-sub006/internal/platform/middleware"
)

type Service struct {
	registry *Registry
	records  CalculationRecordRepository
	logger   zerolog.Logger
}

// NewService wires the calculator registry to an optional audit repository.
// A nil records repository disables the audit trail.
func NewService(registry *Registry, records CalculationRecordRepository, logger zerolog.Logger) *Service {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Service{
		registry: registry,
		records:  records,
		logger:   logger,
	}
}

// AuditEnabled reports whether calculations are being recorded.
func (s *Service) AuditEnabled() bool {
	return s.records != nil
}

func (s *Service) Descriptors() []Descriptor {
	return s.registry.Descriptors()
}

func (s *Service) Descriptor(kind Kind) (Descriptor, error) {
	c, err := s.registry.Get(kind)
	if err != nil {
		return Descriptor{}, err
	}
	return c.Descriptor(), nil
}

// Calculate evaluates kind against raw. The only error is an unknown kind;
// audit failures are logged and do not affect the result.
func (s *Service) Calculate(ctx context.Context, kind Kind, raw Fields) (Result, error) {
	res, err := s.registry.Calculate(kind, raw)
	if err != nil {
		return Result{}, err
	}

	requestID := middleware.RequestIDFromContext(ctx)
	s.logger.Debug().
		Str("request_id", requestID).
		Str("calculator", string(kind)).
		Bool("valid", res.Valid).
		Int("warnings", len(res.Warnings)).
		Msg("calculation")

	if s.records != nil {
		rec := NewCalculationRecord(res, requestID)
		if err := s.records.Create(ctx, rec); err != nil {
			s.logger.Error().Err(err).
				Str("request_id", requestID).
				Str("calculator", string(kind)).
				Msg("failed to record calculation")
		}
	}
	return res, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*CalculationRecord, error) {
	if s.records == nil {
		return nil, ErrRecordNotFound
	}
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*CalculationRecord, int, error) {
	if s.records == nil {
		return nil, 0, nil
	}
	return s.records.List(ctx, limit, offset)
}

func (s *Service) ListRecordsByCalculator(ctx context.Context, kind Kind, limit, offset int) ([]*CalculationRecord, int, error) {
	if _, err := s.registry.Get(kind); err != nil {
		return nil, 0, err
	}
	if s.records == nil {
		return nil, 0, nil
	}
	items, total, err := s.records.ListByCalculator(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s records: %w", kind, err)
	}
	return items, total, nil
}
