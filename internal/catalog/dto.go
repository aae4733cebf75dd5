package catalog

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ListProductsInput filters the product listing by category slug.
type ListProductsInput struct {
	CategorySlug string
	Pagination   pagination.Params
}

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type VariantDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Color          string    `json:"color"`
	ImageURL       string    `json:"image_url"`
	PriceInCents   int       `json:"price_in_cents"`
	PriceFormatted string    `json:"price_formatted"`
}

type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Category    *CategoryDTO `json:"category,omitempty"`
	Variants    []VariantDTO `json:"variants"`
	CreatedAt   time.Time    `json:"created_at"`
}

// VariantDetail backs the product page: the chosen variant, its siblings and related products.
type VariantDetail struct {
	Variant        VariantDTO   `json:"variant"`
	Product        ProductDTO   `json:"product"`
	LikelyProducts []ProductDTO `json:"likely_products"`
}

func newCategoryDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func newVariantDTO(v models.ProductVariant, f *money.Formatter) VariantDTO {
	return VariantDTO{
		ID:             v.ID,
		ProductID:      v.ProductID,
		Name:           v.Name,
		Slug:           v.Slug,
		Color:          v.Color,
		ImageURL:       v.ImageURL,
		PriceInCents:   v.PriceInCents,
		PriceFormatted: f.Format(v.PriceInCents),
	}
}

func newProductDTO(p models.Product, f *money.Formatter) ProductDTO {
	variants := make([]VariantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, newVariantDTO(v, f))
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    newCategoryDTO(p.Category),
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
	}
}
