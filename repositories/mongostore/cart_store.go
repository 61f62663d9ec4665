package mongostore

import (
	"context"
	"fmt"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartStore keeps the cart embedded in the user document.
type CartStore struct {
	users *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{users: db.Collection(UsersCollection)}
}

func (s *CartStore) GetCart(ctx context.Context, userID string) (models.CartData, error) {
	oid, err := objectID(userID)
	if err != nil {
		return models.CartData{}, nil
	}

	var doc struct {
		CartData models.CartData `bson:"cartData"`
	}
	opts := options.FindOne().SetProjection(bson.M{"cartData": 1})
	err = s.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.CartData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if doc.CartData == nil {
		doc.CartData = models.CartData{}
	}
	return doc.CartData, nil
}

func (s *CartStore) Increment(ctx context.Context, userID, itemID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	field, err := cartField(itemID)
	if err != nil {
		return err
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, repositories.ErrNotFound)
	}
	return nil
}

func (s *CartStore) Decrement(ctx context.Context, userID, itemID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	field, err := cartField(itemID)
	if err != nil {
		return err
	}

	// The $gt guard makes the decrement a no-op at zero.
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid, field: bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{field: -1}},
	)
	if err != nil {
		return fmt.Errorf("decrement cart item: %w", err)
	}
	return nil
}

func (s *CartStore) Replace(ctx context.Context, userID string, cart models.CartData) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart = models.CartData{}
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"cartData": cart}})
	if err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, repositories.ErrNotFound)
	}
	return nil
}
