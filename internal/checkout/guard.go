// Package checkout gates the confirmation step of the purchase flow.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/address"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/google/uuid"
)

const (
	ReasonUnauthenticated        = "unauthenticated"
	ReasonCartEmpty              = "cart_empty"
	ReasonShippingAddressMissing = "shipping_address_missing"
)

// Paths are the client routes a rejected visitor is sent to.
type Paths struct {
	Entry          string
	Identification string
}

// PathsFromConfig reads the redirect targets, defaulting to "/" and "/cart/identification".
func PathsFromConfig(cfg config.StorefrontConfig) Paths {
	paths := Paths{Entry: strings.TrimSpace(cfg.EntryPath), Identification: strings.TrimSpace(cfg.IdentificationPath)}
	if paths.Entry == "" {
		paths.Entry = "/"
	}
	if paths.Identification == "" {
		paths.Identification = "/cart/identification"
	}
	return paths
}

// Decision is the outcome of the confirmation gate. Only allowed decisions carry the cart.
type Decision struct {
	Allowed           bool                `json:"allowed"`
	Reason            string              `json:"reason,omitempty"`
	RedirectTo        string              `json:"redirect_to,omitempty"`
	Cart              *cart.Detail        `json:"cart,omitempty"`
	ShippingAddress   *address.AddressDTO `json:"shipping_address,omitempty"`
	FormattedAddress  string              `json:"formatted_address,omitempty"`
	SubtotalInCents   int                 `json:"subtotal_in_cents"`
	SubtotalFormatted string              `json:"subtotal_formatted,omitempty"`
	TotalInCents      int                 `json:"total_in_cents"`
	TotalFormatted    string              `json:"total_formatted,omitempty"`
}

type cartLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

// Guard evaluates whether a visitor may see the order confirmation.
type Guard struct {
	carts     cartLoader
	paths     Paths
	formatter *money.Formatter
}

func NewGuard(carts cartLoader, paths Paths, formatter *money.Formatter) (*Guard, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if formatter == nil {
		f, err := money.NewFormatter(money.DefaultLocale, money.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		formatter = f
	}
	return &Guard{carts: carts, paths: paths, formatter: formatter}, nil
}

// Evaluate applies the checks in order: authenticated, non-empty cart, bound address.
// It never creates a cart. Errors are storage failures only.
func (g *Guard) Evaluate(ctx context.Context, userID uuid.UUID) (Decision, error) {
	if userID == uuid.Nil {
		return g.redirect(ReasonUnauthenticated, g.paths.Entry), nil
	}

	record, err := g.carts.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return g.redirect(ReasonCartEmpty, g.paths.Entry), nil
		}
		return Decision{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(record.Items) == 0 {
		return g.redirect(ReasonCartEmpty, g.paths.Entry), nil
	}
	if record.ShippingAddressID == nil || record.ShippingAddress == nil {
		return g.redirect(ReasonShippingAddressMissing, g.paths.Identification), nil
	}

	detail := cart.NewDetail(record, g.formatter)
	addr := address.NewAddressDTO(*record.ShippingAddress)
	total := detail.TotalPriceInCents
	return Decision{
		Allowed:           true,
		Cart:              detail,
		ShippingAddress:   &addr,
		FormattedAddress:  addr.Formatted,
		SubtotalInCents:   total,
		SubtotalFormatted: g.formatter.Format(total),
		TotalInCents:      total,
		TotalFormatted:    g.formatter.Format(total),
	}, nil
}

func (g *Guard) redirect(reason, to string) Decision {
	return Decision{Reason: reason, RedirectTo: to}
}
