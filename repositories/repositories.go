// Package repositories declares the persistence contracts used by the
// services. Each backend package (mongostore, redisstore, memstore)
// implements a subset of them.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/aryanwebd35/food-factory/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrInvalidID = errors.New("invalid id")
)

// CartRepository persists the per-user cart mapping.
type CartRepository interface {
	// GetCart returns an empty mapping when the user has no cart.
	GetCart(ctx context.Context, userID string) (models.CartData, error)
	Increment(ctx context.Context, userID, itemID string) error
	// Decrement never takes a quantity below zero.
	Decrement(ctx context.Context, userID, itemID string) error
	// Replace overwrites the whole mapping. An empty cart clears it.
	Replace(ctx context.Context, userID string, cart models.CartData) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	SetPayment(ctx context.Context, id string, paid bool) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Delete(ctx context.Context, id string) error
	// DeleteUnpaidBefore removes unpaid orders of the given method placed before cutoff.
	DeleteUnpaidBefore(ctx context.Context, method models.PaymentMethod, cutoff time.Time) (int64, error)
}

type FoodRepository interface {
	List(ctx context.Context) ([]models.Food, error)
	FindByID(ctx context.Context, id string) (*models.Food, error)
	Create(ctx context.Context, food *models.Food) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
