package address

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateAddressInput carries the identification form. Masked fields keep their punctuation.
type CreateAddressInput struct {
	FullName     string  `json:"full_name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	CPF          string  `json:"cpf" validate:"required,cpf_masked"`
	Phone        string  `json:"phone" validate:"required,phone_masked"`
	ZipCode      string  `json:"zip_code" validate:"required,zip_masked"`
	Address      string  `json:"address" validate:"required"`
	Number       string  `json:"number" validate:"required"`
	Complement   *string `json:"complement"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
}

func (in CreateAddressInput) trimmed() CreateAddressInput {
	out := CreateAddressInput{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		CPF:          strings.TrimSpace(in.CPF),
		Phone:        strings.TrimSpace(in.Phone),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		Address:      strings.TrimSpace(in.Address),
		Number:       strings.TrimSpace(in.Number),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
	}
	if in.Complement != nil {
		if c := strings.TrimSpace(*in.Complement); c != "" {
			out.Complement = &c
		}
	}
	return out
}

func (in CreateAddressInput) toModel(userID uuid.UUID) *models.ShippingAddress {
	return &models.ShippingAddress{
		UserID:        userID,
		RecipientName: in.FullName,
		Email:         in.Email,
		CPF:           in.CPF,
		Phone:         in.Phone,
		ZipCode:       in.ZipCode,
		Street:        in.Address,
		Number:        in.Number,
		Complement:    in.Complement,
		Neighborhood:  in.Neighborhood,
		City:          in.City,
		State:         in.State,
	}
}

type BindAddressInput struct {
	CartID            string `json:"cart_id" validate:"required,uuid"`
	ShippingAddressID string `json:"shipping_address_id" validate:"required,uuid"`
}

type AddressDTO struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	CPF          string    `json:"cpf"`
	Phone        string    `json:"phone"`
	ZipCode      string    `json:"zip_code"`
	Address      string    `json:"address"`
	Number       string    `json:"number"`
	Complement   *string   `json:"complement"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Formatted    string    `json:"formatted"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAddressDTO maps a stored address, including its formatted line.
func NewAddressDTO(addr models.ShippingAddress) AddressDTO {
	return AddressDTO{
		ID:           addr.ID,
		UserID:       addr.UserID,
		FullName:     addr.RecipientName,
		Email:        addr.Email,
		CPF:          addr.CPF,
		Phone:        addr.Phone,
		ZipCode:      addr.ZipCode,
		Address:      addr.Street,
		Number:       addr.Number,
		Complement:   addr.Complement,
		Neighborhood: addr.Neighborhood,
		City:         addr.City,
		State:        addr.State,
		Formatted:    FormatAddress(addr),
		CreatedAt:    addr.CreatedAt,
	}
}
