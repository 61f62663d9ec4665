// Package mongostore implements the repositories on MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aryanwebd35/food-factory/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection  = "users"
	OrdersCollection = "orders"
	FoodsCollection  = "foods"
)

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	_, err = db.Collection(OrdersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "payment", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create orders indexes: %w", err)
	}
	return nil
}

// objectID parses a hex id. A malformed id cannot match any document, so it
// is reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("id %q: %w", id, repositories.ErrNotFound)
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}

// cartField builds the dotted path of an item inside cartData.
func cartField(itemID string) (string, error) {
	if itemID == "" || strings.ContainsAny(itemID, ".$") {
		return "", fmt.Errorf("cart item %q: %w", itemID, repositories.ErrInvalidID)
	}
	return "cartData." + itemID, nil
}

var (
	_ repositories.CartRepository  = (*CartStore)(nil)
	_ repositories.OrderRepository = (*OrderStore)(nil)
	_ repositories.FoodRepository  = (*FoodStore)(nil)
	_ repositories.UserRepository  = (*UserStore)(nil)
)
