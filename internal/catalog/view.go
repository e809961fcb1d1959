// Package catalog derives the visible product list from a fixed product
// set, a free-text query, a category filter and a sort key.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortLatest    SortKey = "latest"
)

// ParseSortKey maps user input to a SortKey. Unknown keys fall back to name.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortLatest:
		return SortKey(s)
	default:
		return SortName
	}
}

// View is recomputed on every call; nothing is cached.
type View struct {
	Products []*domain.Product
	Query    string
	Category string
	Sort     SortKey
}

func NewView(products []*domain.Product) *View {
	return &View{Products: products, Sort: SortName}
}

func (v *View) Matches(p *domain.Product) bool {
	if v.Category != "" && p.Category != v.Category {
		return false
	}

	if v.Query == "" {
		return true
	}

	q := strings.ToLower(v.Query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

func (v *View) VisibleItems() []*domain.Product {
	items := make([]*domain.Product, 0, len(v.Products))
	for _, p := range v.Products {
		if v.Matches(p) {
			items = append(items, p)
		}
	}

	slices.SortStableFunc(items, v.compare())
	return items
}

func (v *View) compare() func(a, b *domain.Product) int {
	switch v.Sort {
	case SortPriceAsc:
		return func(a, b *domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case SortPriceDesc:
		return func(a, b *domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		}
	case SortLatest:
		return func(a, b *domain.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	default:
		// Collator keeps a scratch buffer, one per call.
		c := collate.New(language.English)
		return func(a, b *domain.Product) int {
			return c.CompareString(a.Name, b.Name)
		}
	}
}

// DistinctCategories lists categories in order of first occurrence.
func (v *View) DistinctCategories() []string {
	seen := make(map[string]struct{}, len(v.Products))
	categories := make([]string, 0)

	for _, p := range v.Products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}

	return categories
}
