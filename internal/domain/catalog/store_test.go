// internal/domain/catalog/store_test.go
package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRepo() *MemoryRepository {
	repo := NewMemoryRepository()
	repo.Seed(
		[]Category{
			{ID: 1, Name: "Procesadores", Slug: "cpu", IsActive: true},
			{ID: 2, Name: "Motherboards", Slug: "motherboard", IsActive: true},
		},
		[]Product{
			{ID: 10, CategoryID: 1, Brand: "AMD", Model: "Ryzen 7 7800X3D", Name: "AMD Ryzen 7 7800X3D", Price: 52999900, Stock: 5, IsActive: true,
				Specifications: map[string]string{"socket": "AM5"}},
			{ID: 11, CategoryID: 1, Brand: "Intel", Model: "Core i5-13600K", Name: "Intel Core i5-13600K", Price: 38999900, Stock: 3, IsActive: true,
				Specifications: map[string]string{"socket": "LGA1700"}},
			{ID: 20, CategoryID: 2, Brand: "ASUS", Model: "TUF B650", Name: "ASUS TUF Gaming B650-Plus", Price: 29999900, Stock: 4, IsActive: true,
				Specifications: map[string]string{"socket": "AM5"}},
		},
	)
	return repo
}

func TestLoadProductsFiltersByCategory(t *testing.T) {
	store := NewStore(seededRepo(), 0)
	ctx := context.Background()

	require.NoError(t, store.LoadProducts(ctx, "cpu"))
	assert.Len(t, store.FilteredProducts(), 2)
	assert.Equal(t, "cpu", store.SelectedCategory())

	require.NoError(t, store.LoadProducts(ctx, ""))
	assert.Len(t, store.FilteredProducts(), 3)
}

func TestLoadProductsUnknownSlug(t *testing.T) {
	store := NewStore(seededRepo(), 0)

	err := store.LoadProducts(context.Background(), "no-existe")
	require.Error(t, err)
	assert.NotEmpty(t, store.LastError())
}

func TestSearchFilterMatchesAcrossFields(t *testing.T) {
	store := NewStore(seededRepo(), 0)
	ctx := context.Background()
	require.NoError(t, store.LoadProducts(ctx, ""))

	store.SetSearchTerm("ryzen")
	products := store.FilteredProducts()
	require.Len(t, products, 1)
	assert.Equal(t, uint(10), products[0].ID)

	// Brand match, case-insensitive.
	store.SetSearchTerm("ASUS")
	products = store.FilteredProducts()
	require.Len(t, products, 1)
	assert.Equal(t, uint(20), products[0].ID)

	store.SetSearchTerm("nomatch")
	assert.Empty(t, store.FilteredProducts())

	// Clearing the term restores the full list.
	store.SetSearchTerm("")
	assert.Len(t, store.FilteredProducts(), 3)
}

func TestProductByIDReadThrough(t *testing.T) {
	store := NewStore(seededRepo(), 0)
	ctx := context.Background()

	// Nothing loaded yet: resolved via the repository.
	product, err := store.ProductByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, "ASUS", product.Brand)

	_, err = store.ProductByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductByIDAfterFullLoad(t *testing.T) {
	repo := seededRepo()
	store := NewStore(repo, 0)
	ctx := context.Background()
	require.NoError(t, store.EnsureLoaded(ctx))

	// With a full index a miss is answered without touching the repo.
	repo.Err = assert.AnError
	_, err := store.ProductByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	product, err := store.ProductByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "AM5", product.Socket())
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	repo := seededRepo()
	store := NewStore(repo, 0)
	ctx := context.Background()
	require.NoError(t, store.LoadProducts(ctx, ""))

	repo.Err = assert.AnError
	err := store.LoadProducts(ctx, "cpu")
	require.Error(t, err)

	assert.Equal(t, "no se pudieron cargar los productos", store.LastError())
	assert.Len(t, store.FilteredProducts(), 3, "previous snapshot must survive a failed load")

	// Recovery clears the recorded error.
	repo.Err = nil
	require.NoError(t, store.LoadProducts(ctx, "cpu"))
	assert.Empty(t, store.LastError())
}

func TestLoadCategoriesFailureRecordsError(t *testing.T) {
	repo := seededRepo()
	store := NewStore(repo, 0)
	ctx := context.Background()
	require.NoError(t, store.LoadCategories(ctx))
	require.Len(t, store.Categories(), 2)

	repo.Err = assert.AnError
	require.Error(t, store.LoadCategories(ctx))
	assert.Equal(t, "no se pudieron cargar las categorías", store.LastError())
	assert.Len(t, store.Categories(), 2)
}

func TestDebounceCoalescesRepeatLoads(t *testing.T) {
	repo := seededRepo()
	store := NewStore(repo, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.LoadProducts(ctx, "cpu"))

	// Within the window a repeat load of the same slug must not hit
	// the repository at all.
	repo.Err = assert.AnError
	require.NoError(t, store.LoadProducts(ctx, "cpu"))
	assert.Len(t, store.FilteredProducts(), 2)

	// A different slug bypasses the window.
	require.Error(t, store.LoadProducts(ctx, "motherboard"))
}

func TestStaleLoadResultIsDiscarded(t *testing.T) {
	store := NewStore(seededRepo(), 0)
	ctx := context.Background()
	require.NoError(t, store.LoadProducts(ctx, "cpu"))

	// Simulate a slow response from an older load arriving after a
	// newer one already finished: its sequence number no longer
	// matches and the payload must be dropped.
	stale := []Product{{ID: 99, Name: "viejo"}}
	require.NoError(t, store.finishLoad(store.loadSeq-1, stale, true, nil))

	products := store.FilteredProducts()
	require.Len(t, products, 2)
	for _, p := range products {
		assert.NotEqual(t, uint(99), p.ID)
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	repo := seededRepo()
	store := NewStore(repo, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.EnsureLoaded(ctx))

	repo.SetStock(10, 0)
	store.Invalidate()
	require.NoError(t, store.EnsureLoaded(ctx))

	product, err := store.ProductByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}
