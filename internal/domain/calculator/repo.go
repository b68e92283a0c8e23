package calculator

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned by a CalculationRecordRepository when no record
// has the requested id.
var ErrRecordNotFound = errors.New("calculation record not found")

type CalculationRecordRepository interface {
	Create(ctx context.Context, r *CalculationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*CalculationRecord, error)
	List(ctx context.Context, limit, offset int) ([]*CalculationRecord, int, error)
	ListByCalculator(ctx context.Context, kind Kind, limit, offset int) ([]*CalculationRecord, int, error)
}
