package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingAddress is a delivery address owned by a user. Carts reference at most one.
type ShippingAddress struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	RecipientName string    `gorm:"column:recipient_name;not null"`
	Email         string    `gorm:"column:email;not null"`
	CPF           string    `gorm:"column:cpf;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	ZipCode       string    `gorm:"column:zip_code;not null"`
	Street        string    `gorm:"column:street;not null"`
	Number        string    `gorm:"column:number;not null"`
	Complement    *string   `gorm:"column:complement"`
	Neighborhood  string    `gorm:"column:neighborhood;not null"`
	City          string    `gorm:"column:city;not null"`
	State         string    `gorm:"column:state;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ShippingAddress) TableName() string { return "shipping_addresses" }

func (a *ShippingAddress) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
