package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/identity/domain"
)

var tracer = otel.Tracer("identity-repository")

// GormUserRepository stores users with gorm; every call is traced.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

func traced(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) (err error) {
	ctx, done := traced(ctx, "repository.user.Create", attribute.String("user.id", user.ID))
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("user.Create", user.ID, "user already exists")
	}
	return err
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (user *domain.User, err error) {
	ctx, done := traced(ctx, "repository.user.FindByID", attribute.String("user.id", id))
	defer func() { done(err) }()

	var u domain.User
	err = r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user.FindByID", "user", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindAll(ctx context.Context) (users []domain.User, err error) {
	ctx, done := traced(ctx, "repository.user.FindAll")
	defer func() { done(err) }()

	users = make([]domain.User, 0)
	err = r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Exists(ctx context.Context, id string) (ok bool, err error) {
	ctx, done := traced(ctx, "repository.user.Exists", attribute.String("user.id", id))
	defer func() { done(err) }()

	var count int64
	err = r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) Count(ctx context.Context) (count int64, err error) {
	ctx, done := traced(ctx, "repository.user.Count")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}
