// internal/domain/cart/service_test.go
package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
)

func newTestService() (*Service, *catalog.MemoryRepository, *MemoryPersistence) {
	repo := catalog.NewMemoryRepository()
	repo.Seed(
		[]catalog.Category{{ID: 1, Slug: "cpu", IsActive: true}},
		[]catalog.Product{
			{ID: 10, CategoryID: 1, Name: "AMD Ryzen 7 7800X3D", Price: 52999900, Stock: 5, IsActive: true},
			{ID: 11, CategoryID: 1, Name: "Intel Core i5-13600K", Price: 38999900, Stock: 3, IsActive: true},
		},
	)
	persistence := NewMemoryPersistence()
	return NewService(catalog.NewStore(repo, 0), persistence), repo, persistence
}

func TestAddToCartAppendsAndIncrements(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	const session = "s1"

	c, err := svc.AddToCart(ctx, session, 10, 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)

	// Adding the same product again increments instead of appending.
	c, err = svc.AddToCart(ctx, session, 10, 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)

	c, err = svc.AddToCart(ctx, session, 11, 1)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestAddToCartUnknownProductIsNoOp(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "s1", 999, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.AddToCart(context.Background(), "s1", 10, 0)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	const session = "s1"

	_, err := svc.AddToCart(ctx, session, 10, 2)
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, session, 10, 4)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)

	// Zero removes the line.
	c, err = svc.UpdateQuantity(ctx, session, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// Updating a missing line leaves the cart untouched.
	_, err = svc.AddToCart(ctx, session, 11, 1)
	require.NoError(t, err)
	c, err = svc.UpdateQuantity(ctx, session, 999, 3)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestRemoveFromCart(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	const session = "s1"

	_, err := svc.AddToCart(ctx, session, 10, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, session, 11, 1)
	require.NoError(t, err)

	c, err := svc.RemoveFromCart(ctx, session, 10)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(11), c.Items[0].Product.ID)
}

func TestTotals(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	const session = "s1"

	_, err := svc.AddToCart(ctx, session, 10, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, session, 11, 1)
	require.NoError(t, err)

	c, err := svc.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Totals.ItemCount)
	assert.Equal(t, 3, c.Totals.TotalQuantity)
	assert.Equal(t, int64(2*52999900+38999900), c.Totals.TotalPrice)

	total, err := svc.TotalPrice(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, c.Totals.TotalPrice, total)

	count, err := svc.TotalItemCount(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLoadCartDropsUnresolvableLines(t *testing.T) {
	svc, _, persistence := newTestService()
	ctx := context.Background()
	const session = "s1"

	// A persisted cart referencing a product the catalog no longer
	// has, plus a line with a non-positive quantity.
	require.NoError(t, persistence.Save(ctx, session, []StoredLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 999, Quantity: 1},
		{ProductID: 11, Quantity: 0},
	}))

	c, err := svc.LoadCart(ctx, session)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(10), c.Items[0].Product.ID)

	// The cleaned list was persisted back.
	stored, err := persistence.Load(ctx, session)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, uint(10), stored[0].ProductID)
}

func TestClearCart(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	const session = "s1"

	_, err := svc.AddToCart(ctx, session, 10, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, session))

	c, err := svc.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Totals.TotalPrice)
}
