package address

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/validation"
	"github.com/google/uuid"
)

// Service manages shipping addresses and binds them to carts.
type Service interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	BindAddressToCart(ctx context.Context, userID uuid.UUID, input BindAddressInput) (*cart.Detail, error)
}

type addressRepository interface {
	Create(ctx context.Context, addr *models.ShippingAddress) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingAddress, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShippingAddress, error)
}

type cartBinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) (int64, error)
}

type service struct {
	addresses addressRepository
	carts     cartBinder
	formatter *money.Formatter
}

// NewService builds the address service.
func NewService(addresses addressRepository, carts cartBinder, formatter *money.Formatter) (Service, error) {
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{addresses: addresses, carts: carts, formatter: formatter}, nil
}

// CreateAddress stores an address for userID without binding it to any cart.
func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	input = input.trimmed()
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	record := input.toModel(userID)
	if err := s.addresses.Create(ctx, record); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shipping address")
	}
	dto := NewAddressDTO(*record)
	return &dto, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	records, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shipping addresses")
	}
	out := make([]AddressDTO, 0, len(records))
	for _, record := range records {
		out = append(out, NewAddressDTO(record))
	}
	return out, nil
}

// BindAddressToCart requires both the cart and the address to belong to userID.
func (s *service) BindAddressToCart(ctx context.Context, userID uuid.UUID, input BindAddressInput) (*cart.Detail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	cartID := uuid.MustParse(input.CartID)
	addressID := uuid.MustParse(input.ShippingAddressID)

	record, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if record.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unauthorized")
	}

	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unauthorized")
	}

	rows, err := s.carts.SetShippingAddress(ctx, cartID, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bind shipping address")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}

	updated, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return cart.NewDetail(updated, s.formatter), nil
}
