package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories/memstore"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodAddValidates(t *testing.T) {
	svc := NewFoodService(memstore.NewFoodStore(), t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Add(ctx, &models.Food{Name: " ", Category: "Soup", Image: "a.png"}), ErrInvalidFood)
	assert.ErrorIs(t, svc.Add(ctx, &models.Food{Name: "Soup", Category: "Soup"}), ErrInvalidFood)
	assert.ErrorIs(t, svc.Add(ctx, &models.Food{Name: "Soup", Category: "Soup", Image: "a.png", Price: decimal.NewFromInt(-1)}), ErrInvalidFood)

	food := &models.Food{Name: " Soup ", Category: "Soup", Image: "a.png", Price: decimal.NewFromInt(5)}
	require.NoError(t, svc.Add(ctx, food))
	assert.False(t, food.ID.IsZero())
	assert.Equal(t, "Soup", food.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFoodRemoveDeletesImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewFoodService(memstore.NewFoodStore(), dir, zerolog.Nop())
	ctx := context.Background()

	image := filepath.Join(dir, "1700000000roll.png")
	require.NoError(t, os.WriteFile(image, []byte("png"), 0o644))

	food := &models.Food{Name: "Roll", Category: "Rolls", Image: "1700000000roll.png", Price: decimal.NewFromInt(8)}
	require.NoError(t, svc.Add(ctx, food))
	require.NoError(t, svc.Remove(ctx, food.ID.Hex()))

	_, err := os.Stat(image)
	assert.True(t, os.IsNotExist(err))

	_, err = svc.Get(ctx, food.ID.Hex())
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, food.ID.Hex()), ErrItemNotFound)
}
