// Package memstore keeps repository data in process memory. It backs local
// development (STORE_BACKEND=memory) and the service tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartStore struct {
	mu    sync.Mutex
	carts map[string]models.CartData
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]models.CartData)}
}

func (s *CartStore) GetCart(_ context.Context, userID string) (models.CartData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID].Clone(), nil
}

func (s *CartStore) Increment(_ context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		cart = models.CartData{}
		s.carts[userID] = cart
	}
	cart[itemID]++
	return nil
}

func (s *CartStore) Decrement(_ context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart, ok := s.carts[userID]; ok && cart[itemID] > 0 {
		cart[itemID]--
	}
	return nil
}

func (s *CartStore) Replace(_ context.Context, userID string, cart models.CartData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = cart.Clone()
	return nil
}

type OrderStore struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[primitive.ObjectID]models.Order)}
}

func (s *OrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("order %s: %w", order.ID.Hex(), repositories.ErrDuplicate)
	}
	s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (s *OrderStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	out := copyOrder(order)
	return &out, nil
}

func (s *OrderStore) List(_ context.Context) ([]models.Order, error) {
	return s.filter(func(models.Order) bool { return true }), nil
}

func (s *OrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return s.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *OrderStore) SetPayment(_ context.Context, id string, paid bool) error {
	return s.update(id, func(o *models.Order) { o.Payment = paid })
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	return s.update(id, func(o *models.Order) { o.Status = status })
}

func (s *OrderStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	delete(s.orders, order.ID)
	return nil
}

func (s *OrderStore) DeleteUnpaidBefore(_ context.Context, method models.PaymentMethod, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, o := range s.orders {
		if !o.Payment && o.PaymentMethod == method && o.Date.Before(cutoff) {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func (s *OrderStore) lookup(id string) (models.Order, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, false
	}
	order, ok := s.orders[oid]
	return order, ok
}

func (s *OrderStore) update(id string, fn func(*models.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	fn(&order)
	s.orders[order.ID] = order
	return nil
}

// filter returns matching orders, newest first.
func (s *OrderStore) filter(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

type FoodStore struct {
	mu    sync.RWMutex
	foods map[primitive.ObjectID]models.Food
	order []primitive.ObjectID
}

func NewFoodStore(seed ...models.Food) *FoodStore {
	s := &FoodStore{foods: make(map[primitive.ObjectID]models.Food)}
	for i := range seed {
		_ = s.Create(context.Background(), &seed[i])
	}
	return s
}

func (s *FoodStore) List(_ context.Context) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Food, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.foods[id])
	}
	return out, nil
}

func (s *FoodStore) FindByID(_ context.Context, id string) (*models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("food %s: %w", id, repositories.ErrNotFound)
	}
	food, ok := s.foods[oid]
	if !ok {
		return nil, fmt.Errorf("food %s: %w", id, repositories.ErrNotFound)
	}
	return &food, nil
}

func (s *FoodStore) Create(_ context.Context, food *models.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	if _, exists := s.foods[food.ID]; !exists {
		s.order = append(s.order, food.ID)
	}
	s.foods[food.ID] = *food
	return nil
}

func (s *FoodStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("food %s: %w", id, repositories.ErrNotFound)
	}
	if _, ok := s.foods[oid]; !ok {
		return fmt.Errorf("food %s: %w", id, repositories.ErrNotFound)
	}
	delete(s.foods, oid)
	for i, existing := range s.order {
		if existing == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, repositories.ErrDuplicate)
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if user.CartData == nil {
		user.CartData = models.CartData{}
	}
	s.users[user.Id] = *user
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	user, ok := s.users[oid]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repositories.ErrNotFound)
}

var (
	_ repositories.CartRepository  = (*CartStore)(nil)
	_ repositories.OrderRepository = (*OrderStore)(nil)
	_ repositories.FoodRepository  = (*FoodStore)(nil)
	_ repositories.UserRepository  = (*UserStore)(nil)
)
