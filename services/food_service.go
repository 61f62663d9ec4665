package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/rs/zerolog"
)

// FoodService is the item catalog.
type FoodService struct {
	foods     repositories.FoodRepository
	uploadDir string
	logger    zerolog.Logger
}

func NewFoodService(foods repositories.FoodRepository, uploadDir string, logger zerolog.Logger) *FoodService {
	return &FoodService{foods: foods, uploadDir: uploadDir, logger: logger}
}

func (s *FoodService) UploadDir() string {
	return s.uploadDir
}

func (s *FoodService) List(ctx context.Context) ([]models.Food, error) {
	return s.foods.List(ctx)
}

func (s *FoodService) Get(ctx context.Context, id string) (*models.Food, error) {
	food, err := s.foods.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("food %s: %w", id, ErrItemNotFound)
	}
	return food, err
}

func (s *FoodService) Add(ctx context.Context, food *models.Food) error {
	food.Name = strings.TrimSpace(food.Name)
	food.Category = strings.TrimSpace(food.Category)
	if food.Name == "" || food.Category == "" || food.Image == "" {
		return ErrInvalidFood
	}
	if food.Price.IsNegative() {
		return fmt.Errorf("negative price: %w", ErrInvalidFood)
	}
	return s.foods.Create(ctx, food)
}

// Remove deletes the item and its uploaded image.
func (s *FoodService) Remove(ctx context.Context, id string) error {
	food, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.foods.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("food %s: %w", id, ErrItemNotFound)
		}
		return err
	}

	path := filepath.Join(s.uploadDir, filepath.Base(food.Image))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Err(err).Str("path", path).Msg("image not removed")
	}
	return nil
}
