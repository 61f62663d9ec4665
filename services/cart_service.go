package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/rs/zerolog"
)

type CartService struct {
	carts  repositories.CartRepository
	foods  repositories.FoodRepository
	logger zerolog.Logger
}

func NewCartService(carts repositories.CartRepository, foods repositories.FoodRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, foods: foods, logger: logger}
}

// AddItem raises the quantity of itemID by one, starting at one.
func (s *CartService) AddItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.foods.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("add %s: %w", itemID, ErrItemNotFound)
		}
		return fmt.Errorf("look up item: %w", err)
	}
	if err := s.carts.Increment(ctx, userID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("add %s: %w", itemID, ErrUserNotFound)
		}
		return err
	}
	return nil
}

// RemoveItem lowers the quantity of itemID by one. At zero it does nothing.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("remove: %w", ErrItemNotFound)
	}
	return s.carts.Decrement(ctx, userID, itemID)
}

func (s *CartService) GetCart(ctx context.Context, userID string) (models.CartData, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = models.CartData{}
	}
	return cart, nil
}
