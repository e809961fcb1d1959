package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/repository"
	"github.com/stretchr/testify/require"
)

func seed() []*domain.Product {
	raw := repository.SeedProducts()
	products := make([]*domain.Product, len(raw))
	for i := range raw {
		products[i] = &raw[i]
	}
	return products
}

func ids(products []*domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestVisibleItems_Search(t *testing.T) {
	v := NewView(seed())
	v.Query = "rice"

	items := v.VisibleItems()
	require.ElementsMatch(t, []int64{1, 2}, ids(items))

	for _, p := range v.Products {
		want := strings.Contains(strings.ToLower(p.Name), "rice") ||
			strings.Contains(strings.ToLower(p.Description), "rice")
		require.Equal(t, want, v.Matches(p), p.Name)
	}
}

func TestVisibleItems_SearchIsCaseInsensitive(t *testing.T) {
	v := NewView(seed())
	v.Query = "GROUNDNUT"

	require.ElementsMatch(t, []int64{7, 8}, ids(v.VisibleItems()))
}

func TestVisibleItems_DescriptionMatch(t *testing.T) {
	v := NewView(seed())
	v.Query = "sambar"

	require.Equal(t, []int64{9}, ids(v.VisibleItems()))
}

func TestVisibleItems_CategoryFilter(t *testing.T) {
	v := NewView(seed())
	v.Category = "Turmeric"

	require.Equal(t, []int64{5, 6}, ids(v.VisibleItems()))

	v.Query = "root"
	require.Equal(t, []int64{6}, ids(v.VisibleItems()))

	v.Category = "Spices"
	require.Empty(t, v.VisibleItems())
}

func TestVisibleItems_EmptyQueryMatchesAll(t *testing.T) {
	v := NewView(seed())
	require.Len(t, v.VisibleItems(), 12)
}

func TestVisibleItems_SortByName(t *testing.T) {
	v := NewView(seed())
	v.Category = "Rice"

	items := v.VisibleItems()
	require.Equal(t, []string{"Organic Brown Rice", "Premium Basmati Rice"}, []string{items[0].Name, items[1].Name})
}

func TestVisibleItems_SortByNameCollation(t *testing.T) {
	products := []*domain.Product{
		{ID: 1, Name: "éclair"},
		{ID: 2, Name: "Zucchini"},
		{ID: 3, Name: "apple"},
	}
	v := NewView(products)

	require.Equal(t, []int64{3, 1, 2}, ids(v.VisibleItems()))
}

func TestVisibleItems_PriceSortIsStable(t *testing.T) {
	products := []*domain.Product{
		{ID: 1, Name: "c", Price: 200},
		{ID: 2, Name: "a", Price: 100},
		{ID: 3, Name: "b", Price: 200},
		{ID: 4, Name: "d", Price: 100},
	}
	v := NewView(products)

	v.Sort = SortPriceAsc
	require.Equal(t, []int64{2, 4, 1, 3}, ids(v.VisibleItems()))

	v.Sort = SortPriceDesc
	require.Equal(t, []int64{1, 3, 2, 4}, ids(v.VisibleItems()))
}

func TestVisibleItems_Latest(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []*domain.Product{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
		{ID: 3, CreatedAt: base},
		{ID: 4, CreatedAt: base.Add(2 * time.Hour)},
	}
	v := NewView(products)
	v.Sort = SortLatest

	require.Equal(t, []int64{4, 2, 1, 3}, ids(v.VisibleItems()))
}

func TestVisibleItems_DoesNotReorderSource(t *testing.T) {
	products := seed()
	v := NewView(products)
	v.Sort = SortPriceDesc

	_ = v.VisibleItems()
	require.Equal(t, int64(1), v.Products[0].ID)
}

func TestParseSortKey(t *testing.T) {
	require.Equal(t, SortPriceAsc, ParseSortKey("price_asc"))
	require.Equal(t, SortPriceDesc, ParseSortKey("price_desc"))
	require.Equal(t, SortLatest, ParseSortKey("latest"))
	require.Equal(t, SortName, ParseSortKey("name"))
	require.Equal(t, SortName, ParseSortKey("price_low"))
	require.Equal(t, SortName, ParseSortKey(""))
}

func TestDistinctCategories(t *testing.T) {
	v := NewView(seed())

	categories := v.DistinctCategories()
	require.Equal(t, []string{"Rice", "Chillies", "Turmeric", "Groundnut", "Pulses", "Storage Crops"}, categories)
	require.Equal(t, categories, v.DistinctCategories())
}
