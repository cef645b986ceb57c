package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/pickup-store/internal/apperror"
	"github.com/tair/pickup-store/internal/catalog/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Category{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.db.WithContext(ctx).Create(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("product.Create", product.ID, "product id already exists")
	}
	return err
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("product.FindByID", "product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.CategoryID != "" && filter.CategoryID != "all" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	switch filter.Sort {
	case domain.SortNameAsc:
		q = q.Order("LOWER(name) ASC").Order("id ASC")
	case domain.SortNameDesc:
		q = q.Order("LOWER(name) DESC").Order("id ASC")
	default:
		q = q.Order("created_at ASC").Order("id ASC")
	}

	products := make([]domain.Product, 0)
	err := q.Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) Update(ctx context.Context, id string, columns map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product.Update", "product", id)
	}
	return nil
}

// Delete removes the product; deleting a missing id succeeds.
func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	db := r.db.WithContext(ctx)
	if delta >= 0 {
		return db.Model(&domain.Product{}).
			Where("id = ?", id).
			Update("stock", gorm.Expr("stock + ?", delta)).Error
	}

	res := db.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, -delta).
		Update("stock", gorm.Expr("stock - ?", -delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	product, err := r.FindByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &apperror.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Requested:   -delta,
		Available:   product.Stock,
	}
}

func (r *GormProductRepository) ReserveStock(ctx context.Context, lines []domain.StockLine) error {
	lines = MergeLines(lines)

	present := make([]domain.StockLine, 0, len(lines))
	for _, line := range lines {
		product, err := r.FindByID(ctx, line.ProductID)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stock: %w", err)
		}
		if product.Stock < line.Quantity {
			return &apperror.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}
		present = append(present, line)
	}

	for _, line := range present {
		if err := r.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormProductRepository) ReleaseStock(ctx context.Context, lines []domain.StockLine) error {
	for _, line := range MergeLines(lines) {
		if err := r.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("failed to release stock for %s: %w", line.ProductID, err)
		}
	}
	return nil
}

// MergeLines sums quantities per product, keeping first-seen order.
func MergeLines(lines []domain.StockLine) []domain.StockLine {
	index := make(map[string]int, len(lines))
	merged := make([]domain.StockLine, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("category.Create", category.ID, "category id already exists")
	}
	return err
}

func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{}).Error
}

func (r *GormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Count(&count).Error
	return count, err
}
