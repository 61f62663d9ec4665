package services

import "errors"

// Validation errors.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidAddress  = errors.New("address is incomplete")
	ErrAmountMismatch  = errors.New("amount does not match order total")
	ErrInvalidStatus   = errors.New("unknown order status")
	ErrInvalidFood     = errors.New("food item is incomplete")
	ErrInvalidEmail    = errors.New("please enter a valid email")
	ErrWeakPassword    = errors.New("please enter a strong password")
)

// Not-found errors.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user does not exist")
)

// State and auth errors.
var (
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
