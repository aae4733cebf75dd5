package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Name        string           `gorm:"column:name;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	Description string           `gorm:"column:description;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	Category    *Category        `gorm:"foreignKey:CategoryID"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ProductVariant is the purchasable unit; cart items reference variants, not products.
type ProductVariant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name         string    `gorm:"column:name;not null"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	Color        string    `gorm:"column:color;not null"`
	PriceInCents int       `gorm:"column:price_in_cents;not null;check:chk_product_variants_price,price_in_cents >= 0"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	Product      *Product  `gorm:"foreignKey:ProductID;constraint:-"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
