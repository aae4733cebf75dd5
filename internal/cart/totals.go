package cart

import "github.com/angelmondragon/storefront-backend/pkg/db/models"

// LineTotalInCents is quantity times the variant's unit price.
func LineTotalInCents(item models.CartItem) int {
	if item.ProductVariant == nil {
		return 0
	}
	return item.Quantity * item.ProductVariant.PriceInCents
}

// TotalPriceInCents sums every line. It is recomputed on read and never stored.
func TotalPriceInCents(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += LineTotalInCents(item)
	}
	return total
}

// ItemCount sums quantities across lines.
func ItemCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
