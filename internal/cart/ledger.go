// Package cart implements the per-session cart ledger: product id to
// reserved quantity, bounded by each product's stock.
package cart

import (
	"fmt"

	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
)

// Lookup resolves catalog products by id.
type Lookup interface {
	Lookup(id int64) (*domain.Product, bool)
}

type Line struct {
	Product  *domain.Product
	Quantity int64
}

func (l Line) Total() (domain.Money, error) {
	return l.Product.Price.Mul(l.Quantity)
}

// Ledger keeps lines in insertion order. Quantities are always within
// [1, product.Stock]; a line that would drop to zero is removed.
type Ledger struct {
	catalog Lookup
	lines   []*Line
}

func New(catalog Lookup) *Ledger {
	return &Ledger{catalog: catalog}
}

func (l *Ledger) find(productID int64) (int, *Line) {
	for i, line := range l.lines {
		if line.Product.ID == productID {
			return i, line
		}
	}
	return -1, nil
}

func (l *Ledger) Line(productID int64) (Line, bool) {
	_, line := l.find(productID)
	if line == nil {
		return Line{}, false
	}
	return *line, true
}

func (l *Ledger) Lines() []Line {
	lines := make([]Line, 0, len(l.lines))
	for _, line := range l.lines {
		lines = append(lines, *line)
	}
	return lines
}

func (l *Ledger) Len() int {
	return len(l.lines)
}

// Add reserves delta more units of p, capped at p.Stock. It fails with
// ErrStockLimitReached, leaving the ledger untouched, when the existing
// quantity already sits at the ceiling.
func (l *Ledger) Add(p *domain.Product, delta int64) (Line, error) {
	if delta < 1 {
		return Line{}, fmt.Errorf("add %d of product %d: %w", delta, p.ID, domain.ErrInvalidQuantity)
	}

	_, line := l.find(p.ID)

	var existing int64
	if line != nil {
		existing = line.Quantity
	}

	if existing >= p.Stock {
		return Line{}, fmt.Errorf("product %d: %w", p.ID, domain.ErrStockLimitReached)
	}

	quantity := min(existing+delta, p.Stock)

	if line == nil {
		line = &Line{Product: p}
		l.lines = append(l.lines, line)
	}
	line.Quantity = quantity

	return *line, nil
}

// SetQuantity is the single mutator behind increment and decrement.
// Non-positive quantities remove the line; quantities above stock are
// rejected; setting a product that has no line is a no-op.
func (l *Ledger) SetQuantity(productID, quantity int64) error {
	if quantity <= 0 {
		l.Remove(productID)
		return nil
	}

	if p, ok := l.catalog.Lookup(productID); ok && quantity > p.Stock {
		return fmt.Errorf("set product %d to %d: %w", productID, quantity, domain.ErrStockLimitReached)
	}

	if _, line := l.find(productID); line != nil {
		line.Quantity = quantity
	}

	return nil
}

func (l *Ledger) Increment(productID int64) error {
	line, _ := l.Line(productID)
	return l.SetQuantity(productID, line.Quantity+1)
}

func (l *Ledger) Decrement(productID int64) error {
	line, ok := l.Line(productID)
	if !ok {
		return nil
	}
	return l.SetQuantity(productID, line.Quantity-1)
}

// Remove deletes the line if present and reports whether it existed.
func (l *Ledger) Remove(productID int64) bool {
	i, line := l.find(productID)
	if line == nil {
		return false
	}

	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	return true
}

// Total sums the line totals. It fails with ErrAmountOutOfRange instead of
// wrapping around.
func (l *Ledger) Total() (domain.Money, error) {
	var total domain.Money
	for _, line := range l.lines {
		lineTotal, err := line.Total()
		if err != nil {
			return 0, err
		}

		total, err = total.Add(lineTotal)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// UnitCount is the badge counter: sum of quantities over all lines.
func (l *Ledger) UnitCount() int64 {
	var count int64
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

func (l *Ledger) Snapshot() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(l.lines))
	for _, line := range l.lines {
		items = append(items, domain.CartItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}
	return items
}

// Restore rebuilds a ledger from a snapshot. Items for unknown products or
// with non-positive quantities are dropped, duplicates are merged and
// quantities are clamped to the current stock.
func Restore(catalog Lookup, items []domain.CartItem) *Ledger {
	l := New(catalog)

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		p, ok := catalog.Lookup(item.ProductID)
		if !ok || p.Stock <= 0 {
			continue
		}

		if _, line := l.find(p.ID); line != nil {
			line.Quantity = min(line.Quantity+item.Quantity, p.Stock)
			continue
		}

		l.lines = append(l.lines, &Line{Product: p, Quantity: min(item.Quantity, p.Stock)})
	}

	return l
}
