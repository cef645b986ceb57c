package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/pickup-store/internal/apperror"
	catalogrepo "github.com/tair/pickup-store/internal/catalog/repository"
	"github.com/tair/pickup-store/internal/order/domain"
)

var tracer = otel.Tracer("order-repository")

// GormOrderRepository stores orders and their line snapshots. Stock
// reservation and release run in the same transaction as the order write.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.Item{})
}

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

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) (err error) {
	ctx, span := startSpan(ctx, "repository.order.Create",
		attribute.String("order.id", order.ID),
		attribute.String("order.customer_id", order.CustomerID),
		attribute.Int("order.lines", len(order.Items)),
	)
	defer func() { endSpan(span, err) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := catalogrepo.NewGormProductRepository(tx).ReserveStock(ctx, order.StockLines()); err != nil {
			return err
		}
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict("order.Create", order.ID, "order id already exists")
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	})
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func findByID(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var order domain.Order
	err := withItems(db.WithContext(ctx)).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("order.FindByID", "order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (order *domain.Order, err error) {
	ctx, span := startSpan(ctx, "repository.order.FindByID", attribute.String("order.id", id))
	defer func() {
		if errors.Is(err, apperror.ErrNotFound) {
			span.End()
			return
		}
		endSpan(span, err)
	}()
	return findByID(ctx, r.db, id)
}

func (r *GormOrderRepository) FindAll(ctx context.Context, scope domain.ListScope) (orders []domain.Order, err error) {
	ctx, span := startSpan(ctx, "repository.order.FindAll",
		attribute.Bool("scope.all", scope.All),
		attribute.String("scope.customer_id", scope.CustomerID),
	)
	defer func() {
		span.SetAttributes(attribute.Int("result.count", len(orders)))
		endSpan(span, err)
	}()

	q := withItems(r.db.WithContext(ctx))
	if scope.All {
		q = q.Order("created_at ASC").Order("id ASC")
	} else {
		q = q.Where("customer_id = ?", scope.CustomerID).Order("created_at DESC").Order("id DESC")
	}

	orders = make([]domain.Order, 0)
	err = q.Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) TransitionStatus(ctx context.Context, id string, status domain.Status) (order *domain.Order, previous domain.Status, err error) {
	ctx, span := startSpan(ctx, "repository.order.TransitionStatus",
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
	)
	defer func() { endSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current.Status
		order = current

		if current.Status == status {
			return nil
		}
		if !domain.CanTransition(current.Status, status) {
			return apperror.InvalidTransition("order.UpdateStatus", id, string(current.Status), string(status))
		}

		// Compare-and-set on the old status: of two racing cancels only one
		// matches a row, so stock is credited once.
		now := time.Now().UTC()
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", id, current.Status).
			Updates(map[string]interface{}{"status": status, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to update status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("order.UpdateStatus", id, "order status changed concurrently")
		}

		if status == domain.StatusCancelled {
			if err := catalogrepo.NewGormProductRepository(tx).ReleaseStock(ctx, current.StockLines()); err != nil {
				return err
			}
		}

		order.Status = status
		order.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	span.SetAttributes(attribute.String("order.previous_status", string(previous)))
	return order, previous, nil
}
