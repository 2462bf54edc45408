package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

var tracer = otel.Tracer("warehouse-repository")

// TracingCellRepository wraps a CellRepository with spans around the
// operations on the transfer hot path. The count mutations are the calls
// worth watching: they are where partial failures and capacity rejections
// originate.
type TracingCellRepository struct {
	inner domain.CellRepository
}

// NewTracingCellRepository decorates inner with tracing
func NewTracingCellRepository(inner domain.CellRepository) *TracingCellRepository {
	return &TracingCellRepository{inner: inner}
}

func (r *TracingCellRepository) FindByID(ctx context.Context, id uint) (*domain.Cell, error) {
	ctx, span := tracer.Start(ctx, "cell.FindByID",
		trace.WithAttributes(attribute.Int("cell.id", int(id))))
	defer span.End()

	cell, err := r.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("cell.code", cell.Code))
	return cell, nil
}

func (r *TracingCellRepository) FindByCode(ctx context.Context, code string) (*domain.Cell, error) {
	ctx, span := tracer.Start(ctx, "cell.FindByCode",
		trace.WithAttributes(attribute.String("cell.code", code)))
	defer span.End()

	cell, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("cell.capacity", cell.Capacity),
		attribute.Int("cell.current_count", cell.CurrentCount),
	)
	return cell, nil
}

func (r *TracingCellRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Cell, error) {
	ctx, span := tracer.Start(ctx, "cell.FindAll")
	defer span.End()

	cells, err := r.inner.FindAll(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("cell.count", len(cells)))
	return cells, nil
}

func (r *TracingCellRepository) AdjustCount(ctx context.Context, cellID uint, delta int) error {
	ctx, span := tracer.Start(ctx, "cell.AdjustCount",
		trace.WithAttributes(attribute.Int("cell.id", int(cellID)), attribute.Int("cell.delta", delta)))
	defer span.End()

	if err := r.inner.AdjustCount(ctx, cellID, delta); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingCellRepository) OccupyOne(ctx context.Context, cellID uint) error {
	ctx, span := tracer.Start(ctx, "cell.OccupyOne",
		trace.WithAttributes(attribute.Int("cell.id", int(cellID))))
	defer span.End()

	if err := r.inner.OccupyOne(ctx, cellID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingCellRepository) UpdateRange(ctx context.Context, cellID uint, start, end *string, capacity int) error {
	ctx, span := tracer.Start(ctx, "cell.UpdateRange",
		trace.WithAttributes(attribute.Int("cell.id", int(cellID)), attribute.Int("cell.capacity", capacity)))
	defer span.End()

	if err := r.inner.UpdateRange(ctx, cellID, start, end, capacity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
