package cart

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository manages persistent cart items. Quantity changes are single
// conditional statements so concurrent mutations never lose updates.
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *ItemRepository) WithTx(tx *gorm.DB) ItemStore {
	if tx == nil {
		return r
	}
	return &ItemRepository{db: tx}
}

// FindByID loads an item with its variant and product.
func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("ProductVariant.Product").
		Where("id = ?", id).
		Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) FindByCartAndVariant(ctx context.Context, cartID, variantID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_variant_id = ?", cartID, variantID).
		Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("ProductVariant").Create(item).Error
}

// IncrementQuantity adds by to the stored quantity and reports affected rows.
func (r *ItemRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, by int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", by),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// DecrementIfAboveOne lowers quantity by one only while it is above one.
// Zero affected rows means the row is at one or gone; the caller decides.
func (r *ItemRepository) DecrementIfAboveOne(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND quantity > 1", id).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity - 1"),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
