package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartStore defines the cart persistence surface required by the cart service.
type CartStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
}

// ItemStore defines the cart item persistence surface.
type ItemStore interface {
	WithTx(tx *gorm.DB) ItemStore
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	FindByCartAndVariant(ctx context.Context, cartID, variantID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, id uuid.UUID, by int) (int64, error)
	DecrementIfAboveOne(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type variantLoader interface {
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type mutationRecorder interface {
	ObserveMutation(operation string, err error)
}
