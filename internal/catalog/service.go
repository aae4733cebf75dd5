package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
)

// LikelyProductsLimit caps the related products shown on a product page.
const LikelyProductsLimit = 4

// Service exposes read-only catalog browsing.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[ProductDTO], error)
	GetVariantBySlug(ctx context.Context, slug string) (*VariantDetail, error)
}

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, query productListQuery) ([]models.Product, error)
	ListRelatedProducts(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error)
	FindVariantBySlug(ctx context.Context, slug string) (*models.ProductVariant, error)
}

type service struct {
	repo      catalogRepository
	formatter *money.Formatter
}

// NewService builds a catalog service. A nil formatter falls back to BRL in pt-BR.
func NewService(repo catalogRepository, formatter *money.Formatter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if formatter == nil {
		f, err := money.NewFormatter(money.DefaultLocale, money.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		formatter = f
	}
	return &service{repo: repo, formatter: formatter}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *newCategoryDTO(&categories[i]))
	}
	return out, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[ProductDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := productListQuery{Limit: input.Pagination.Limit, Cursor: cursor}
	if slug := strings.TrimSpace(input.CategorySlug); slug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		query.CategoryID = &category.ID
	}

	rows, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page, next := pagination.Trim(rows, input.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	items := make([]ProductDTO, 0, len(page))
	for _, p := range page {
		items = append(items, newProductDTO(p, s.formatter))
	}
	return &types.Page[ProductDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) GetVariantBySlug(ctx context.Context, slug string) (*VariantDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	variant, err := s.repo.FindVariantBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product variant")
	}
	if variant.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	related, err := s.repo.ListRelatedProducts(ctx, variant.Product.CategoryID, variant.ProductID, LikelyProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list related products")
	}
	likely := make([]ProductDTO, 0, len(related))
	for _, p := range related {
		likely = append(likely, newProductDTO(p, s.formatter))
	}

	return &VariantDetail{
		Variant:        newVariantDTO(*variant, s.formatter),
		Product:        newProductDTO(*variant.Product, s.formatter),
		LikelyProducts: likely,
	}, nil
}
