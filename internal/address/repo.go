package address

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists shipping addresses.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, addr *models.ShippingAddress) error {
	return r.db.WithContext(ctx).Create(addr).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingAddress, error) {
	var addr models.ShippingAddress
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

// ListByUser returns the user's addresses, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShippingAddress, error) {
	var addrs []models.ShippingAddress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}
