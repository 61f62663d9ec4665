package mongostore

import (
	"context"
	"fmt"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FoodStore struct {
	foods *mongo.Collection
}

func NewFoodStore(db *mongo.Database) *FoodStore {
	return &FoodStore{foods: db.Collection(FoodsCollection)}
}

func (s *FoodStore) List(ctx context.Context) ([]models.Food, error) {
	cursor, err := s.foods.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}
	defer cursor.Close(ctx)

	foods := []models.Food{}
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	return foods, nil
}

func (s *FoodStore) FindByID(ctx context.Context, id string) (*models.Food, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var food models.Food
	if err := s.foods.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		return nil, fmt.Errorf("find food %s: %w", id, notFound(err))
	}
	return &food, nil
}

func (s *FoodStore) Create(ctx context.Context, food *models.Food) error {
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	if _, err := s.foods.InsertOne(ctx, food); err != nil {
		return fmt.Errorf("insert food: %w", err)
	}
	return nil
}

func (s *FoodStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := s.foods.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete food %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("food %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}
