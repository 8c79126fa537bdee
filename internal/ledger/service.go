package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=ledger
type Store interface {
	Products(ctx context.Context) ([]Product, error)
	SetProducts(ctx context.Context, products []Product) error
	Transactions(ctx context.Context) ([]Transaction, error)
	SetTransactions(ctx context.Context, txs []Transaction) error
}

// Service is the single gateway for committing transactions. Writes
// serialize on an internal lock so that stock validation always sees the
// state it is about to mutate; reads take the shared side so they never
// observe a commit between its two collection writes.
type Service struct {
	store Store
	mu    sync.RWMutex
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// DraftItem is one requested line. A nil UnitPrice means the catalog
// price at commit time (selling price for sales, acquisition cost for
// purchases); a non-nil value overrides it, zero included, so free
// sample lines stay representable.
type DraftItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *int64
}

// Draft is a candidate transaction. Totals are never taken from the
// caller; Commit recomputes every line total and the transaction total.
type Draft struct {
	Type          Type
	PaymentMethod PaymentMethod
	Counterparty  string
	Items         []DraftItem
}

func (d Draft) validate() error {
	switch d.Type {
	case TypeSale, TypePurchase:
	default:
		return fmt.Errorf("unknown transaction type %q", d.Type)
	}

	switch d.PaymentMethod {
	case PaymentCash, PaymentCredit:
	default:
		return fmt.Errorf("unknown payment method %q", d.PaymentMethod)
	}

	if strings.TrimSpace(d.Counterparty) == "" {
		return ErrMissingCounterparty
	}

	if len(d.Items) == 0 {
		return ErrEmptyTransaction
	}

	for _, it := range d.Items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}

		if it.UnitPrice != nil && *it.UnitPrice < 0 {
			return fmt.Errorf("negative unit price for product %s", it.ProductID)
		}
	}

	return nil
}

// Commit validates the draft against current stock, applies the inventory
// deltas and appends the finished transaction to the ledger. Validation
// happens strictly before any mutation, so a failed commit leaves both
// collections untouched.
func (s *Service) Commit(ctx context.Context, draft Draft) (*Transaction, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	byID := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	// Quantities are aggregated per product so that two lines for the same
	// product cannot pass validation independently and oversell together.
	needed := make(map[uuid.UUID]int, len(draft.Items))
	for _, it := range draft.Items {
		needed[it.ProductID] += it.Quantity
	}

	for _, it := range draft.Items {
		idx, ok := byID[it.ProductID]
		if !ok {
			if draft.Type == TypeSale {
				return nil, &InsufficientStockError{Product: it.ProductID.String(), Requested: it.Quantity}
			}

			return nil, &UnknownProductError{Product: it.ProductID.String()}
		}

		if draft.Type == TypeSale && needed[it.ProductID] > products[idx].Stock {
			return nil, &InsufficientStockError{
				Product:   products[idx].Name,
				Requested: needed[it.ProductID],
				Available: products[idx].Stock,
			}
		}
	}

	items := make([]Item, len(draft.Items))

	var total int64

	for i, it := range draft.Items {
		p := products[byID[it.ProductID]]

		unit := p.Price
		if draft.Type == TypePurchase {
			unit = p.Cost
		}

		if it.UnitPrice != nil {
			unit = *it.UnitPrice
		}

		lineTotal := int64(it.Quantity) * unit
		items[i] = Item{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      it.Quantity,
			PriceAtMoment: unit,
			Total:         lineTotal,
		}
		total += lineTotal
	}

	for id, qty := range needed {
		if draft.Type == TypeSale {
			products[byID[id]].Stock -= qty
		} else {
			products[byID[id]].Stock += qty
		}
	}

	now := time.Now().UTC()
	tx := Transaction{
		ID:              uuid.New(),
		Date:            now,
		Type:            draft.Type,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   draft.PaymentMethod,
		Counterparty:    strings.TrimSpace(draft.Counterparty),
		Status:          StatusCompleted,
		ReferenceNumber: referenceNumber(draft.Type, now),
	}

	if err := s.store.SetProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("persisting products: %w", err)
	}

	// Newest first.
	updated := make([]Transaction, 0, len(txs)+1)
	updated = append(updated, tx)
	updated = append(updated, txs...)

	if err := s.store.SetTransactions(ctx, updated); err != nil {
		return nil, fmt.Errorf("persisting transactions: %w", err)
	}

	return &tx, nil
}

// Summary folds the full ledger into the four financial aggregates.
// An empty ledger yields the zero Summary.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading transactions: %w", err)
	}

	var sum Summary

	for _, tx := range txs {
		switch tx.Type {
		case TypeSale:
			sum.Revenue += tx.TotalAmount
			if tx.PaymentMethod == PaymentCredit {
				sum.Receivables += tx.TotalAmount
			}
		case TypePurchase:
			sum.Expenses += tx.TotalAmount
			if tx.PaymentMethod == PaymentCredit {
				sum.Payables += tx.TotalAmount
			}
		}
	}

	return sum, nil
}

type ListFilter struct {
	Type *Type
}

// Transactions returns ledger entries, newest first.
func (s *Service) Transactions(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	if filter.Type == nil {
		return txs, nil
	}

	filtered := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		if tx.Type == *filter.Type {
			filtered = append(filtered, tx)
		}
	}

	return filtered, nil
}

func (s *Service) Products(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Products(ctx)
}

// SaveProduct upserts by ID: replace when the ID exists, append otherwise.
// A zero ID gets a fresh one assigned.
func (s *Service) SaveProduct(ctx context.Context, product Product) (*Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}

	if product.Price < 0 || product.Cost < 0 || product.Stock < 0 || product.MinStockLevel < 0 {
		return nil, fmt.Errorf("product amounts must be non-negative")
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	replaced := false

	for i, p := range products {
		if p.ID == product.ID {
			products[i] = product
			replaced = true

			break
		}
	}

	if !replaced {
		products = append(products, product)
	}

	if err := s.store.SetProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("persisting products: %w", err)
	}

	return &product, nil
}

// LowStock returns products at or below their reorder point.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	var low []Product

	for _, p := range products {
		if p.BelowMinStock() {
			low = append(low, p)
		}
	}

	return low, nil
}

// Counterparties returns distinct customer or supplier names seen on the
// ledger, most recently used first, capped at ten entries. Used for form
// suggestions.
func (s *Service) Counterparties(ctx context.Context, t Type) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	seen := make(map[string]struct{})

	var names []string

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		if _, ok := seen[tx.Counterparty]; ok {
			continue
		}

		seen[tx.Counterparty] = struct{}{}

		names = append(names, tx.Counterparty)
		if len(names) == 10 {
			break
		}
	}

	return names, nil
}

// ImportProducts upserts a parsed catalog, matching existing products by
// SKU. It returns how many products were created and how many updated.
func (s *Service) ImportProducts(ctx context.Context, incoming []Product) (created, updated int, err error) {
	if len(incoming) == 0 {
		return 0, 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("loading products: %w", err)
	}

	bySKU := make(map[string]int, len(products))
	for i, p := range products {
		bySKU[strings.ToUpper(p.SKU)] = i
	}

	for _, in := range incoming {
		idx, ok := bySKU[strings.ToUpper(in.SKU)]
		if ok {
			in.ID = products[idx].ID
			products[idx] = in
			updated++

			continue
		}

		in.ID = uuid.New()
		bySKU[strings.ToUpper(in.SKU)] = len(products)
		products = append(products, in)
		created++
	}

	if err := s.store.SetProducts(ctx, products); err != nil {
		return 0, 0, fmt.Errorf("persisting products: %w", err)
	}

	return created, updated, nil
}

// referenceNumber builds a short human-readable number: a type prefix
// plus the trailing six digits of the commit timestamp.
func referenceNumber(t Type, now time.Time) string {
	prefix := "INV"
	if t == TypePurchase {
		prefix = "PO"
	}

	return fmt.Sprintf("%s-%06d", prefix, now.UnixMilli()%1_000_000)
}
