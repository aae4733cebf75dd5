package migrate

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAutoMigrateModelsBuildsSQLiteSchema(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:automigrate?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	client := db.NewFromGorm(conn)
	require.NoError(t, AutoMigrateModels(context.Background(), client))

	user := models.User{Email: "a@example.com", PasswordHash: "x", Name: "A"}
	require.NoError(t, conn.Create(&user).Error)
	category := models.Category{Name: "Shirts", Slug: "shirts"}
	require.NoError(t, conn.Create(&category).Error)
	product := models.Product{CategoryID: category.ID, Name: "Tee", Slug: "tee"}
	require.NoError(t, conn.Create(&product).Error)
	variant := models.ProductVariant{ProductID: product.ID, Name: "Tee Black", Slug: "tee-black", PriceInCents: 1500}
	require.NoError(t, conn.Create(&variant).Error)
	cart := models.Cart{UserID: user.ID}
	require.NoError(t, conn.Create(&cart).Error)

	require.NoError(t, conn.Create(&models.CartItem{CartID: cart.ID, ProductVariantID: variant.ID, Quantity: 1}).Error)
	dup := conn.Create(&models.CartItem{CartID: cart.ID, ProductVariantID: variant.ID, Quantity: 1}).Error
	require.True(t, db.IsUniqueViolation(dup, ""), "expected unique violation, got %v", dup)

	other := models.ProductVariant{ProductID: product.ID, Name: "Tee White", Slug: "tee-white", PriceInCents: 1500}
	require.NoError(t, conn.Create(&other).Error)
	zero := conn.Create(&models.CartItem{CartID: cart.ID, ProductVariantID: other.ID, Quantity: 0}).Error
	require.Error(t, zero, "quantity check constraint should reject zero")
}
