package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OperationAdd      = "add"
	OperationIncrease = "increase"
	OperationDecrease = "decrease"
	OperationRemove   = "remove"

	itemNotFoundMessage = "item not found in cart"
	forbiddenMessage    = "unauthorized"
)

// errConcurrentInsert marks an insert that lost a race on (cart_id, product_variant_id).
var errConcurrentInsert = errors.New("cart item inserted concurrently")

// Service exposes the cart operations used by the storefront controllers.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*Detail, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*ItemDTO, error)
	IncreaseItem(ctx context.Context, userID uuid.UUID, input IncreaseItemInput) (*ItemDTO, error)
	DecreaseItem(ctx context.Context, userID uuid.UUID, input DecreaseItemInput) (*DecreaseResult, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) (*RemoveResult, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Carts     CartStore
	Items     ItemStore
	Variants  variantLoader
	Tx        txRunner
	Metrics   mutationRecorder
	Formatter *money.Formatter
}

type service struct {
	carts     CartStore
	items     ItemStore
	variants  variantLoader
	tx        txRunner
	metrics   mutationRecorder
	formatter *money.Formatter
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("cart item repository required")
	}
	if params.Variants == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		carts:     params.Carts,
		items:     params.Items,
		variants:  params.Variants,
		tx:        params.Tx,
		metrics:   params.Metrics,
		formatter: params.Formatter,
	}, nil
}

func (s *service) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*Detail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewDetail(cart, s.formatter), nil
}

func (s *service) ensureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	created := &models.Cart{UserID: userID}
	if err := s.carts.Create(ctx, created); err != nil {
		switch {
		case db.IsUniqueViolation(err, ""):
			// another request created the cart first
		case db.IsForeignKeyViolation(err):
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
		}
	}

	cart, err = s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (item *ItemDTO, err error) {
	defer func() { s.observe(OperationAdd, err) }()
	return s.addItem(ctx, userID, input)
}

func (s *service) IncreaseItem(ctx context.Context, userID uuid.UUID, input IncreaseItemInput) (item *ItemDTO, err error) {
	defer func() { s.observe(OperationIncrease, err) }()
	return s.addItem(ctx, userID, AddItemInput{ProductVariantID: input.ProductVariantID, Quantity: DefaultAddQuantity})
}

func (s *service) addItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = DefaultAddQuantity
	}
	variantID := uuid.MustParse(input.ProductVariantID)

	if _, err := s.variants.FindVariantByID(ctx, variantID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product variant")
	}

	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var itemID uuid.UUID
	upsert := func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		existing, err := items.FindByCartAndVariant(ctx, cart.ID, variantID)
		switch {
		case err == nil:
			itemID = existing.ID
			_, err = items.IncrementQuantity(ctx, existing.ID, quantity)
			return err
		case !db.IsNotFound(err):
			return err
		}

		row := &models.CartItem{CartID: cart.ID, ProductVariantID: variantID, Quantity: quantity}
		if err := items.Create(ctx, row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return errConcurrentInsert
			}
			return err
		}
		itemID = row.ID
		return nil
	}

	err = s.tx.WithTx(ctx, upsert)
	if errors.Is(err, errConcurrentInsert) {
		// the competing row is committed now, so the retry takes the increment path
		err = s.tx.WithTx(ctx, upsert)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}

	saved, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	dto := NewItemDTO(*saved, s.formatter)
	return &dto, nil
}

func (s *service) DecreaseItem(ctx context.Context, userID uuid.UUID, input DecreaseItemInput) (result *DecreaseResult, err error) {
	defer func() { s.observe(OperationDecrease, err) }()

	itemID, err := s.ownedItem(ctx, userID, input.CartItemID, validation.Struct(input))
	if err != nil {
		return nil, err
	}

	result = &DecreaseResult{ItemID: itemID}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		rows, err := items.DecrementIfAboveOne(ctx, itemID)
		if err != nil {
			return err
		}
		if rows == 1 {
			item, err := items.FindByID(ctx, itemID)
			if err != nil {
				return err
			}
			result.Quantity = item.Quantity
			return nil
		}

		rows, err = items.Delete(ctx, itemID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		result.Removed = true
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrease cart item")
	}
	return result, nil
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, input RemoveItemInput) (result *RemoveResult, err error) {
	defer func() { s.observe(OperationRemove, err) }()

	itemID, err := s.ownedItem(ctx, userID, input.CartItemID, validation.Struct(input))
	if err != nil {
		return nil, err
	}

	rows, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
	}
	return &RemoveResult{ItemID: itemID, Removed: true}, nil
}

// ownedItem resolves the item and checks it exists before checking who owns its cart.
func (s *service) ownedItem(ctx context.Context, userID uuid.UUID, rawID string, validationErr error) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if validationErr != nil {
		return uuid.Nil, validationErr
	}
	itemID := uuid.MustParse(rawID)

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	cart, err := s.carts.FindByID(ctx, item.CartID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if cart.UserID != userID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
	}
	return itemID, nil
}

func (s *service) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(operation, err)
	}
}
