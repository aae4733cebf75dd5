package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads categories, products and variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

type productListQuery struct {
	CategoryID *uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

// ListProducts returns up to LimitWithBuffer rows in (created_at DESC, id DESC) order.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) ([]models.Product, error) {
	qb := r.withVariants(ctx)
	if query.CategoryID != nil {
		qb = qb.Where("category_id = ?", *query.CategoryID)
	}
	if cursor := query.Cursor; cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListRelatedProducts returns the newest products of a category other than excludeID.
func (r *Repository) ListRelatedProducts(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.withVariants(ctx).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantBySlug loads a variant with its product, the product's category and all of its variants.
func (r *Repository) FindVariantBySlug(ctx context.Context, slug string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Product.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.created_at ASC, product_variants.id ASC")
		}).
		Where("slug = ?", slug).
		Take(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) withVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.created_at ASC, product_variants.id ASC")
		})
}
