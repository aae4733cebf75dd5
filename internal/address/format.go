package address

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// FormatAddress renders the confirmation-page line
// "{recipient}, {street}, {number}, {complement, }{neighborhood}, {city} - {state}, {zip}".
func FormatAddress(addr models.ShippingAddress) string {
	complement := ""
	if addr.Complement != nil && strings.TrimSpace(*addr.Complement) != "" {
		complement = strings.TrimSpace(*addr.Complement) + ", "
	}
	return fmt.Sprintf("%s, %s, %s, %s%s, %s - %s, %s",
		addr.RecipientName,
		addr.Street,
		addr.Number,
		complement,
		addr.Neighborhood,
		addr.City,
		addr.State,
		addr.ZipCode,
	)
}
