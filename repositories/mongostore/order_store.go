package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderStore struct {
	orders *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{orders: db.Collection(OrdersCollection)}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, notFound(err))
	}
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) SetPayment(ctx context.Context, id string, paid bool) error {
	return s.set(ctx, id, bson.M{"payment": paid})
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return s.set(ctx, id, bson.M{"status": status})
}

func (s *OrderStore) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := s.orders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *OrderStore) DeleteUnpaidBefore(ctx context.Context, method models.PaymentMethod, cutoff time.Time) (int64, error) {
	result, err := s.orders.DeleteMany(ctx, bson.M{
		"payment":       false,
		"paymentMethod": method,
		"date":          bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("delete stale orders: %w", err)
	}
	return result.DeletedCount, nil
}
