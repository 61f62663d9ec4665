package services

import (
	"context"
	"testing"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories/memstore"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*CartService, models.Food) {
	t.Helper()
	food := models.Food{Name: "Paneer Roll", Price: decimal.NewFromInt(8), Category: "Rolls", Image: "roll.png"}
	foods := memstore.NewFoodStore()
	require.NoError(t, foods.Create(context.Background(), &food))
	return NewCartService(memstore.NewCartStore(), foods, zerolog.Nop()), food
}

func TestCartAddAndRemove(t *testing.T) {
	svc, food := newCartFixture(t)
	ctx := context.Background()
	id := food.ID.Hex()

	require.NoError(t, svc.AddItem(ctx, "u1", id))
	require.NoError(t, svc.AddItem(ctx, "u1", id))
	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart[id])

	require.NoError(t, svc.RemoveItem(ctx, "u1", id))
	require.NoError(t, svc.RemoveItem(ctx, "u1", id))
	require.NoError(t, svc.RemoveItem(ctx, "u1", id))
	cart, err = svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart[id])
}

func TestCartAddUnknownItem(t *testing.T) {
	svc, _ := newCartFixture(t)
	err := svc.AddItem(context.Background(), "u1", "665f1c2a9b1e8a3d4c5b6a79")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartRemoveNeverSeen(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RemoveItem(ctx, "u1", "665f1c2a9b1e8a3d4c5b6a79"))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "u1", ""), ErrItemNotFound)

	cart, err := svc.GetCart(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}
