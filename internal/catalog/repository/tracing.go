package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/primefinds/storefront/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingCatalogRepository decorates a CatalogRepository with OpenTelemetry
// spans. A not-found lookup is recorded as an attribute, not a span error,
// because it is a normal outcome.
type TracingCatalogRepository struct {
	next domain.CatalogRepository
}

// NewTracingCatalogRepository wraps next with tracing.
func NewTracingCatalogRepository(next domain.CatalogRepository) *TracingCatalogRepository {
	return &TracingCatalogRepository{next: next}
}

// FindByID with tracing
func (r *TracingCatalogRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.String("product.id", id),
		),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			span.SetAttributes(attribute.Bool("product.found", false))
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("product.found", true),
		attribute.String("product.title", product.Title),
		attribute.Bool("product.in_stock", product.InStock()),
	)
	return product, nil
}

// Search with tracing
func (r *TracingCatalogRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, error) {
	attrs := []attribute.KeyValue{
		attribute.String("query.keywords", criteria.Keywords),
	}
	if criteria.MinPrice != nil {
		attrs = append(attrs, attribute.Float64("query.min_price", *criteria.MinPrice))
	}
	if criteria.MaxPrice != nil {
		attrs = append(attrs, attribute.Float64("query.max_price", *criteria.MaxPrice))
	}

	ctx, span := tracer.Start(ctx, "repository.Search", trace.WithAttributes(attrs...))
	defer span.End()

	products, err := r.next.Search(ctx, criteria)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// FindFeatured with tracing
func (r *TracingCatalogRepository) FindFeatured(ctx context.Context, count int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindFeatured",
		trace.WithAttributes(
			attribute.Int("query.count", count),
		),
	)
	defer span.End()

	products, err := r.next.FindFeatured(ctx, count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Count with tracing
func (r *TracingCatalogRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int("result.count", count))
	return count, nil
}

var _ domain.CatalogRepository = (*TracingCatalogRepository)(nil)
