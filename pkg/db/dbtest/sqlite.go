// Package dbtest opens isolated in-memory sqlite databases carrying the storefront schema.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL REFERENCES categories(id),
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL,
		price_in_cents INTEGER NOT NULL CHECK (price_in_cents >= 0),
		image_url TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE shipping_addresses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipient_name TEXT NOT NULL,
		email TEXT NOT NULL,
		cpf TEXT NOT NULL,
		phone TEXT NOT NULL,
		zip_code TEXT NOT NULL,
		street TEXT NOT NULL,
		number TEXT NOT NULL,
		complement TEXT,
		neighborhood TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE carts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		shipping_address_id TEXT REFERENCES shipping_addresses(id) ON DELETE SET NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		product_variant_id TEXT NOT NULL REFERENCES product_variants(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (cart_id, product_variant_id)
	)`,
}

// Open returns a fresh database named after the test so parallel tests never share rows.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}

// OpenClient wraps Open in a db.Client for services that run transactions.
func OpenClient(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromGorm(conn), conn
}

func SeedUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", Name: "Test User", IsActive: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedCategory(t *testing.T, conn *gorm.DB, slug string) models.Category {
	t.Helper()
	category := models.Category{Name: strings.ToUpper(slug[:1]) + slug[1:], Slug: slug}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// SeedProduct inserts a product plus one variant per price, createdAt spaced one second apart.
func SeedProduct(t *testing.T, conn *gorm.DB, categoryID uuid.UUID, slug string, createdAt time.Time, prices ...int) (models.Product, []models.ProductVariant) {
	t.Helper()
	product := models.Product{
		CategoryID:  categoryID,
		Name:        slug,
		Slug:        slug,
		Description: "description of " + slug,
		CreatedAt:   createdAt,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	variants := make([]models.ProductVariant, 0, len(prices))
	for i, price := range prices {
		variant := models.ProductVariant{
			ProductID:    product.ID,
			Name:         fmt.Sprintf("%s variant %d", slug, i+1),
			Slug:         fmt.Sprintf("%s-v%d", slug, i+1),
			Color:        "black",
			PriceInCents: price,
			ImageURL:     fmt.Sprintf("https://cdn.example.com/%s-%d.png", slug, i+1),
			CreatedAt:    createdAt.Add(time.Duration(i) * time.Second),
		}
		if err := conn.Create(&variant).Error; err != nil {
			t.Fatalf("seed variant: %v", err)
		}
		variants = append(variants, variant)
	}
	return product, variants
}

func SeedAddress(t *testing.T, conn *gorm.DB, userID uuid.UUID) models.ShippingAddress {
	t.Helper()
	complement := "Apto 12"
	addr := models.ShippingAddress{
		UserID:        userID,
		RecipientName: "Maria Silva",
		Email:         "maria@example.com",
		CPF:           "123.456.789-00",
		Phone:         "(11) 98765-4321",
		ZipCode:       "01310-100",
		Street:        "Avenida Paulista",
		Number:        "1000",
		Complement:    &complement,
		Neighborhood:  "Bela Vista",
		City:          "São Paulo",
		State:         "SP",
	}
	if err := conn.Create(&addr).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return addr
}
