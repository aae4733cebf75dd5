package cart

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/google/uuid"
)

const (
	DefaultAddQuantity = 1
	MaxAddQuantity     = 99
)

// AddItemInput adds Quantity units of a variant; zero means one.
type AddItemInput struct {
	ProductVariantID string `json:"product_variant_id" validate:"required,uuid"`
	Quantity         int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type IncreaseItemInput struct {
	ProductVariantID string `json:"product_variant_id" validate:"required,uuid"`
}

type DecreaseItemInput struct {
	CartItemID string `json:"cart_item_id" validate:"required,uuid"`
}

type RemoveItemInput struct {
	CartItemID string `json:"cart_item_id" validate:"required,uuid"`
}

// Detail is the read model of a cart with recomputed totals.
type Detail struct {
	ID                  uuid.UUID               `json:"id"`
	UserID              uuid.UUID               `json:"user_id"`
	ShippingAddressID   *uuid.UUID              `json:"shipping_address_id"`
	ShippingAddress     *models.ShippingAddress `json:"-"`
	Items               []ItemDTO               `json:"items"`
	ItemCount           int                     `json:"item_count"`
	TotalPriceInCents   int                     `json:"total_price_in_cents"`
	TotalPriceFormatted string                  `json:"total_price_formatted"`
	CreatedAt           time.Time               `json:"created_at"`
}

type ItemDTO struct {
	ID                 uuid.UUID   `json:"id"`
	ProductVariantID   uuid.UUID   `json:"product_variant_id"`
	Quantity           int         `json:"quantity"`
	UnitPriceInCents   int         `json:"unit_price_in_cents"`
	LineTotalInCents   int         `json:"line_total_in_cents"`
	LineTotalFormatted string      `json:"line_total_formatted"`
	Variant            *VariantDTO `json:"variant,omitempty"`
}

type VariantDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color"`
	ImageURL    string    `json:"image_url"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
}

// DecreaseResult reports the item state after a decrease.
type DecreaseResult struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Removed  bool      `json:"removed"`
}

type RemoveResult struct {
	ItemID  uuid.UUID `json:"item_id"`
	Removed bool      `json:"removed"`
}

// NewDetail maps a loaded cart into its read model. A nil formatter uses the default currency.
func NewDetail(cart *models.Cart, f *money.Formatter) *Detail {
	if cart == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, NewItemDTO(item, f))
	}
	total := TotalPriceInCents(cart.Items)
	return &Detail{
		ID:                  cart.ID,
		UserID:              cart.UserID,
		ShippingAddressID:   cart.ShippingAddressID,
		ShippingAddress:     cart.ShippingAddress,
		Items:               items,
		ItemCount:           ItemCount(cart.Items),
		TotalPriceInCents:   total,
		TotalPriceFormatted: format(f, total),
		CreatedAt:           cart.CreatedAt,
	}
}

func NewItemDTO(item models.CartItem, f *money.Formatter) ItemDTO {
	line := LineTotalInCents(item)
	dto := ItemDTO{
		ID:                 item.ID,
		ProductVariantID:   item.ProductVariantID,
		Quantity:           item.Quantity,
		LineTotalInCents:   line,
		LineTotalFormatted: format(f, line),
	}
	if v := item.ProductVariant; v != nil {
		dto.UnitPriceInCents = v.PriceInCents
		dto.Variant = &VariantDTO{
			ID:        v.ID,
			Name:      v.Name,
			Slug:      v.Slug,
			Color:     v.Color,
			ImageURL:  v.ImageURL,
			ProductID: v.ProductID,
		}
		if v.Product != nil {
			dto.Variant.ProductName = v.Product.Name
		}
	}
	return dto
}

func format(f *money.Formatter, cents int) string {
	if f == nil {
		return money.FormatCents(cents)
	}
	return f.Format(cents)
}
