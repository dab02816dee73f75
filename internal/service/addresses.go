package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// AddressService manages a user's shipping addresses. Every operation is
// scoped to the owner; other users' addresses are reported as not found.
type AddressService struct {
	addresses repository.AddressRepository
	logger    *logging.LoggerV2
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{
		addresses: addresses,
		logger:    logging.NewLoggerV2("address-service"),
	}
}

func (s *AddressService) List(ctx context.Context, userID int64) ([]*models.ShippingAddress, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *AddressService) Get(ctx context.Context, userID, id int64) (*models.ShippingAddress, error) {
	return s.addresses.GetForUser(ctx, id, userID)
}

func (s *AddressService) Create(ctx context.Context, userID int64, in models.ShippingAddressInput) (*models.ShippingAddress, error) {
	NormalizeShippingAddress(&in)
	if err := ValidateShippingAddress(&in); err != nil {
		return nil, err
	}

	addr := &models.ShippingAddress{UserID: userID}
	in.Apply(addr)
	if err := s.addresses.Create(ctx, addr); err != nil {
		return nil, err
	}

	s.logger.Info("Shipping address created", logging.Fields{
		"user_id":    userID,
		"address_id": addr.ID,
	})
	return addr, nil
}

// Update replaces the address fields. Orders placed earlier keep the
// snapshot taken at checkout.
func (s *AddressService) Update(ctx context.Context, userID, id int64, in models.ShippingAddressInput) (*models.ShippingAddress, error) {
	NormalizeShippingAddress(&in)
	if err := ValidateShippingAddress(&in); err != nil {
		return nil, err
	}

	addr, err := s.addresses.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	in.Apply(addr)
	if err := s.addresses.Update(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.addresses.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("Shipping address deleted", logging.Fields{
		"user_id":    userID,
		"address_id": id,
	})
	return nil
}
