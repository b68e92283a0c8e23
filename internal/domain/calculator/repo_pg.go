package calculator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type calculationRecordRepoPG struct{ db queryable }

func NewCalculationRecordRepoPG(pool *pgxpool.Pool) CalculationRecordRepository {
	return &calculationRecordRepoPG{db: pool}
}

const recordCols = `id, calculator, valid, value, unit, interpretation,
	warning_count, request_id, created_at`

func (r *calculationRecordRepoPG) scanRecord(row pgx.Row) (*CalculationRecord, error) {
	var rec CalculationRecord
	err := row.Scan(&rec.ID, &rec.Calculator, &rec.Valid, &rec.Value, &rec.Unit, &rec.Interpretation,
		&rec.WarningCount, &rec.RequestID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return &rec, err
}

func (r *calculationRecordRepoPG) Create(ctx context.Context, rec *CalculationRecord) error {
	rec.ID = uuid.New()
	return r.db.QueryRow(ctx, `
		INSERT INTO calculation_record (id, calculator, valid, value, unit, interpretation,
			warning_count, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		rec.ID, rec.Calculator, rec.Valid, rec.Value, rec.Unit, rec.Interpretation,
		rec.WarningCount, rec.RequestID).Scan(&rec.CreatedAt)
}

func (r *calculationRecordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CalculationRecord, error) {
	return r.scanRecord(r.db.QueryRow(ctx, `SELECT `+recordCols+` FROM calculation_record WHERE id = $1`, id))
}

func (r *calculationRecordRepoPG) List(ctx context.Context, limit, offset int) ([]*CalculationRecord, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM calculation_record`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+recordCols+` FROM calculation_record ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *calculationRecordRepoPG) ListByCalculator(ctx context.Context, kind Kind, limit, offset int) ([]*CalculationRecord, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM calculation_record WHERE calculator = $1`, kind).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+recordCols+` FROM calculation_record WHERE calculator = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *calculationRecordRepoPG) collect(rows pgx.Rows) ([]*CalculationRecord, error) {
	defer rows.Close()
	var items []*CalculationRecord
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
