// internal/domain/builder/service_test.go
package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
)

const session = "build-1"

func newTestBuilder() (*Service, *cart.Service, *catalog.MemoryRepository) {
	repo := catalog.NewMemoryRepository()
	repo.Seed(nil, []catalog.Product{
		{ID: 10, Name: "AMD Ryzen 7 7800X3D", Price: 52999900, Stock: 5, IsActive: true,
			Specifications: map[string]string{"socket": "AM5"}},
		{ID: 11, Name: "Intel Core i5-13600K", Price: 38999900, Stock: 3, IsActive: true,
			Specifications: map[string]string{"socket": "LGA1700"}},
		{ID: 20, Name: "ASUS TUF Gaming B650-Plus", Price: 29999900, Stock: 4, IsActive: true,
			Specifications: map[string]string{"socket": "AM5"}},
		{ID: 30, Name: "Corsair Vengeance 32GB DDR5", Price: 15999900, Stock: 10, IsActive: true},
		{ID: 40, Name: "GeForce RTX 4070 Super", Price: 89999900, Stock: 2, IsActive: true},
		{ID: 50, Name: "Corsair RM850x", Price: 18999900, Stock: 6, IsActive: true},
		{ID: 60, Name: "NZXT H5 Flow", Price: 13999900, Stock: 1, IsActive: true},
		{ID: 70, Name: "Samsung 980 Pro 1TB", Price: 12999900, Stock: 8, IsActive: true},
	})

	store := catalog.NewStore(repo, 0)
	cartService := cart.NewService(store, cart.NewMemoryPersistence())
	return NewService(store, cartService), cartService, repo
}

// selectFullBuild picks one product per category, CPU and motherboard
// both AM5.
func selectFullBuild(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	picks := map[string]uint{
		"cpu":         10,
		"motherboard": 20,
		"ram":         30,
		"gpu":         40,
		"psu":         50,
		"case":        60,
		"storage":     70,
	}
	for slug, productID := range picks {
		state, err := svc.SelectComponent(ctx, session, slug, productID, 1)
		require.NoError(t, err)
		require.Empty(t, state.Errors[slug])
	}
}

func TestSelectComponentUnknownCategory(t *testing.T) {
	svc, _, _ := newTestBuilder()

	_, err := svc.SelectComponent(context.Background(), session, "cooler", 10, 1)
	assert.Error(t, err)
}

func TestSelectComponentUnknownProduct(t *testing.T) {
	svc, _, _ := newTestBuilder()

	state, err := svc.SelectComponent(context.Background(), session, "cpu", 999, 1)
	require.NoError(t, err)
	assert.Equal(t, "producto no encontrado", state.Errors["cpu"])
	assert.Empty(t, state.Selections)
}

func TestSelectComponentRejectsOverStock(t *testing.T) {
	svc, _, _ := newTestBuilder()

	// Only one case unit in stock.
	state, err := svc.SelectComponent(context.Background(), session, "case", 60, 3)
	require.NoError(t, err)
	assert.Equal(t, "stock insuficiente: quedan 1 unidades", state.Errors["case"])
	assert.Empty(t, state.Selections)
}

func TestSelectComponentRejectsOverCategoryMax(t *testing.T) {
	svc, _, _ := newTestBuilder()

	state, err := svc.SelectComponent(context.Background(), session, "ram", 30, 3)
	require.NoError(t, err)
	assert.Equal(t, "máximo 2 por categoría", state.Errors["ram"])
	assert.Empty(t, state.Selections)
}

func TestStorageIsUnbounded(t *testing.T) {
	svc, _, _ := newTestBuilder()

	state, err := svc.SelectComponent(context.Background(), session, "storage", 70, 8)
	require.NoError(t, err)
	assert.Empty(t, state.Errors)
	assert.Equal(t, 8, state.Selections["storage"].Quantity)
}

func TestSocketMismatchSetsCompatibilityError(t *testing.T) {
	svc, _, _ := newTestBuilder()
	ctx := context.Background()

	_, err := svc.SelectComponent(ctx, session, "cpu", 11, 1) // LGA1700
	require.NoError(t, err)
	state, err := svc.SelectComponent(ctx, session, "motherboard", 20, 1) // AM5
	require.NoError(t, err)

	assert.Equal(t,
		"el socket del procesador (LGA1700) no es compatible con el motherboard (AM5)",
		state.CompatibilityError)

	// Swapping in the matching CPU clears it.
	state, err = svc.SelectComponent(ctx, session, "cpu", 10, 1)
	require.NoError(t, err)
	assert.Empty(t, state.CompatibilityError)
}

func TestIncreaseQuantityClampedByStockAndMax(t *testing.T) {
	svc, _, _ := newTestBuilder()
	ctx := context.Background()

	_, err := svc.SelectComponent(ctx, session, "ram", 30, 1)
	require.NoError(t, err)

	// Stock is 10 but the category max is 2.
	for i := 0; i < 5; i++ {
		_, err = svc.IncreaseQuantity(ctx, session, "ram")
		require.NoError(t, err)
	}
	state := svc.State(session)
	assert.Equal(t, 2, state.Selections["ram"].Quantity)

	// The case has one unit in stock, so increase is a no-op.
	_, err = svc.SelectComponent(ctx, session, "case", 60, 1)
	require.NoError(t, err)
	_, err = svc.IncreaseQuantity(ctx, session, "case")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.State(session).Selections["case"].Quantity)
}

func TestDecreaseQuantityRemovesAtZero(t *testing.T) {
	svc, _, _ := newTestBuilder()
	ctx := context.Background()

	_, err := svc.SelectComponent(ctx, session, "ram", 30, 2)
	require.NoError(t, err)

	state, err := svc.DecreaseQuantity(session, "ram")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Selections["ram"].Quantity)

	state, err = svc.DecreaseQuantity(session, "ram")
	require.NoError(t, err)
	_, selected := state.Selections["ram"]
	assert.False(t, selected)
}

func TestCommitAggregatesMissingComponents(t *testing.T) {
	svc, cartService, _ := newTestBuilder()
	ctx := context.Background()

	_, err := svc.SelectComponent(ctx, session, "cpu", 10, 1)
	require.NoError(t, err)

	state, err := svc.CommitToCart(ctx, session)
	require.NoError(t, err)
	assert.False(t, state.Committed)
	assert.Equal(t,
		"faltan componentes requeridos: Motherboard, Memoria RAM, Placa de video, Fuente, Gabinete, Almacenamiento",
		state.MissingMessage)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "a blocked commit must not touch the cart")
}

func TestCommitBlockedByIncompatibleSockets(t *testing.T) {
	svc, cartService, _ := newTestBuilder()
	ctx := context.Background()

	selectFullBuild(t, svc)
	state, err := svc.SelectComponent(ctx, session, "cpu", 11, 1) // LGA1700 vs AM5 board
	require.NoError(t, err)
	require.NotEmpty(t, state.CompatibilityError)

	state, err = svc.CommitToCart(ctx, session)
	require.NoError(t, err)
	assert.False(t, state.Committed)
	assert.NotEmpty(t, state.CompatibilityError)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCommitBlockedByStockDrift(t *testing.T) {
	svc, cartService, repo := newTestBuilder()
	ctx := context.Background()

	selectFullBuild(t, svc)

	// Stock runs out between selection and commit.
	repo.SetStock(40, 0)

	state, err := svc.CommitToCart(ctx, session)
	require.NoError(t, err)
	assert.False(t, state.Committed)
	assert.Equal(t, "stock insuficiente: quedan 0 unidades", state.Errors["gpu"])

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCommitForwardsBuildToCartAndClearsState(t *testing.T) {
	svc, cartService, _ := newTestBuilder()
	ctx := context.Background()

	selectFullBuild(t, svc)

	state, err := svc.CommitToCart(ctx, session)
	require.NoError(t, err)
	assert.True(t, state.Committed)
	assert.Empty(t, state.Selections)
	assert.Empty(t, state.Errors)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 7)
	assert.Equal(t, 7, c.Totals.TotalQuantity)

	// The session starts fresh after a commit.
	fresh := svc.State(session)
	assert.Empty(t, fresh.Selections)
	assert.False(t, fresh.Committed)
}

func TestCommitMergesWithExistingCartLines(t *testing.T) {
	svc, cartService, _ := newTestBuilder()
	ctx := context.Background()

	// The storage drive is already in the cart before the build.
	_, err := cartService.AddToCart(ctx, session, 70, 1)
	require.NoError(t, err)

	selectFullBuild(t, svc)
	state, err := svc.CommitToCart(ctx, session)
	require.NoError(t, err)
	require.True(t, state.Committed)

	c, err := cartService.LoadCart(ctx, session)
	require.NoError(t, err)
	assert.Len(t, c.Items, 7)
	for _, item := range c.Items {
		if item.Product.ID == 70 {
			assert.Equal(t, 2, item.Quantity)
		}
	}
}
