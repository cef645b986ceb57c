package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pickup-store/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ProductRepositoryWithTracing wraps a ProductRepository with spans.
type ProductRepositoryWithTracing struct {
	next domain.ProductRepository
}

func NewProductRepositoryWithTracing(next domain.ProductRepository) *ProductRepositoryWithTracing {
	return &ProductRepositoryWithTracing{next: next}
}

func (r *ProductRepositoryWithTracing) Create(ctx context.Context, product *domain.Product) (err error) {
	ctx, span := startSpan(ctx, "repository.product.Create",
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
		attribute.Int("product.stock", product.Stock),
	)
	defer func() { endSpan(span, err) }()
	return r.next.Create(ctx, product)
}

func (r *ProductRepositoryWithTracing) FindByID(ctx context.Context, id string) (product *domain.Product, err error) {
	ctx, span := startSpan(ctx, "repository.product.FindByID", attribute.String("product.id", id))
	defer func() { endSpan(span, err) }()
	return r.next.FindByID(ctx, id)
}

func (r *ProductRepositoryWithTracing) FindAll(ctx context.Context, filter domain.ProductFilter) (products []domain.Product, err error) {
	ctx, span := startSpan(ctx, "repository.product.FindAll",
		attribute.String("query.search", filter.Search),
		attribute.String("query.category", filter.CategoryID),
		attribute.String("query.sort", filter.Sort),
	)
	defer func() {
		span.SetAttributes(attribute.Int("result.count", len(products)))
		endSpan(span, err)
	}()
	return r.next.FindAll(ctx, filter)
}

func (r *ProductRepositoryWithTracing) Exists(ctx context.Context, id string) (ok bool, err error) {
	ctx, span := startSpan(ctx, "repository.product.Exists", attribute.String("product.id", id))
	defer func() { endSpan(span, err) }()
	return r.next.Exists(ctx, id)
}

func (r *ProductRepositoryWithTracing) Update(ctx context.Context, id string, columns map[string]interface{}) (err error) {
	ctx, span := startSpan(ctx, "repository.product.Update",
		attribute.String("product.id", id),
		attribute.Int("update.columns", len(columns)),
	)
	defer func() { endSpan(span, err) }()
	return r.next.Update(ctx, id, columns)
}

func (r *ProductRepositoryWithTracing) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "repository.product.Delete", attribute.String("product.id", id))
	defer func() { endSpan(span, err) }()
	return r.next.Delete(ctx, id)
}

func (r *ProductRepositoryWithTracing) Count(ctx context.Context) (count int64, err error) {
	ctx, span := startSpan(ctx, "repository.product.Count")
	defer func() {
		span.SetAttributes(attribute.Int64("result.count", count))
		endSpan(span, err)
	}()
	return r.next.Count(ctx)
}

func (r *ProductRepositoryWithTracing) AdjustStock(ctx context.Context, id string, delta int) (err error) {
	ctx, span := startSpan(ctx, "repository.product.AdjustStock",
		attribute.String("product.id", id),
		attribute.Int("stock.delta", delta),
	)
	defer func() { endSpan(span, err) }()
	return r.next.AdjustStock(ctx, id, delta)
}

func (r *ProductRepositoryWithTracing) ReserveStock(ctx context.Context, lines []domain.StockLine) (err error) {
	ctx, span := startSpan(ctx, "repository.product.ReserveStock", attribute.Int("stock.lines", len(lines)))
	defer func() { endSpan(span, err) }()
	return r.next.ReserveStock(ctx, lines)
}

func (r *ProductRepositoryWithTracing) ReleaseStock(ctx context.Context, lines []domain.StockLine) (err error) {
	ctx, span := startSpan(ctx, "repository.product.ReleaseStock", attribute.Int("stock.lines", len(lines)))
	defer func() { endSpan(span, err) }()
	return r.next.ReleaseStock(ctx, lines)
}

// CategoryRepositoryWithTracing wraps a CategoryRepository with spans.
type CategoryRepositoryWithTracing struct {
	next domain.CategoryRepository
}

func NewCategoryRepositoryWithTracing(next domain.CategoryRepository) *CategoryRepositoryWithTracing {
	return &CategoryRepositoryWithTracing{next: next}
}

func (r *CategoryRepositoryWithTracing) Create(ctx context.Context, category *domain.Category) (err error) {
	ctx, span := startSpan(ctx, "repository.category.Create", attribute.String("category.id", category.ID))
	defer func() { endSpan(span, err) }()
	return r.next.Create(ctx, category)
}

func (r *CategoryRepositoryWithTracing) FindAll(ctx context.Context) (categories []domain.Category, err error) {
	ctx, span := startSpan(ctx, "repository.category.FindAll")
	defer func() { endSpan(span, err) }()
	return r.next.FindAll(ctx)
}

func (r *CategoryRepositoryWithTracing) Exists(ctx context.Context, id string) (ok bool, err error) {
	ctx, span := startSpan(ctx, "repository.category.Exists", attribute.String("category.id", id))
	defer func() { endSpan(span, err) }()
	return r.next.Exists(ctx, id)
}

func (r *CategoryRepositoryWithTracing) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "repository.category.Delete", attribute.String("category.id", id))
	defer func() { endSpan(span, err) }()
	return r.next.Delete(ctx, id)
}

func (r *CategoryRepositoryWithTracing) Count(ctx context.Context) (count int64, err error) {
	ctx, span := startSpan(ctx, "repository.category.Count")
	defer func() { endSpan(span, err) }()
	return r.next.Count(ctx)
}
