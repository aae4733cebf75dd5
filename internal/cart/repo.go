package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists carts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID loads the user's cart with items, their variant and product, and the bound address.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.detailed(ctx).Where("user_id = ?", userID).Take(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByID loads a cart by id without checking ownership.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.detailed(ctx).Where("id = ?", id).Take(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Omit("Items", "ShippingAddress").Create(cart).Error
}

// SetShippingAddress points the cart at addressID.
func (r *Repository) SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("shipping_address_id", addressID)
	return res.RowsAffected, res.Error
}

func (r *Repository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC, cart_items.id ASC")
		}).
		Preload("Items.ProductVariant.Product").
		Preload("ShippingAddress")
}
