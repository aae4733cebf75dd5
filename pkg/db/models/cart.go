package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single open cart of a user. Totals are derived from its items, never stored.
type Cart struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ShippingAddressID *uuid.UUID       `gorm:"column:shipping_address_id;type:uuid"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	Items             []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ShippingAddress   *ShippingAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:SET NULL"`
}

func (Cart) TableName() string { return "carts" }

func (c *Cart) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CartItem is one variant line in a cart; quantity stays >= 1 while the row exists.
type CartItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uq_cart_items_cart_variant"`
	ProductVariantID uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null;uniqueIndex:uq_cart_items_cart_variant"`
	Quantity         int             `gorm:"column:quantity;not null;check:chk_cart_items_quantity,quantity >= 1"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	ProductVariant   *ProductVariant `gorm:"foreignKey:ProductVariantID"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
