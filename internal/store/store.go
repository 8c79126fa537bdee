// Package store persists the two application collections (products and
// transactions) as named JSON records on top of a pluggable key-value
// driver. Every mutation is a full read-modify-write of the affected
// collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lapakhq/lapak/internal/ledger"
)

const (
	keyProducts     = "products"
	keyTransactions = "transactions"

	// schemaVersion is embedded in every persisted payload. Payloads with
	// a different version are rejected as corrupt; there is no automatic
	// migration.
	schemaVersion = 1
)

var (
	// ErrNotFound is returned by KV drivers when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrCorrupt marks a stored payload that cannot be decoded. It is fatal
	// for the call and never recovered automatically.
	ErrCorrupt = errors.New("corrupt payload")
)

// KV is the raw durable medium: a flat namespace of byte values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store reads and writes the typed collections. It implements ledger.Store.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

type envelope struct {
	Schema int             `json:"schema"`
	Items  json.RawMessage `json:"items"`
}

// Products returns the product collection. On the first-ever read it
// persists and returns the seed catalog.
func (s *Store) Products(ctx context.Context) ([]ledger.Product, error) {
	raw, err := s.kv.Get(ctx, keyProducts)
	if errors.Is(err, ErrNotFound) {
		seed := SeedProducts()
		if err := s.SetProducts(ctx, seed); err != nil {
			return nil, fmt.Errorf("seeding products: %w", err)
		}

		return seed, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}

	var products []ledger.Product
	if err := decode(raw, keyProducts, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) SetProducts(ctx context.Context, products []ledger.Product) error {
	return s.set(ctx, keyProducts, products)
}

// Transactions returns the ledger, newest first. A never-written ledger is
// an empty collection; no seeding happens here.
func (s *Store) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	raw, err := s.kv.Get(ctx, keyTransactions)
	if errors.Is(err, ErrNotFound) {
		return []ledger.Transaction{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	var txs []ledger.Transaction
	if err := decode(raw, keyTransactions, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (s *Store) SetTransactions(ctx context.Context, txs []ledger.Transaction) error {
	return s.set(ctx, keyTransactions, txs)
}

func (s *Store) set(ctx context.Context, key string, items any) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	payload, err := json.Marshal(envelope{Schema: schemaVersion, Items: encoded})
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", key, err)
	}

	if err := s.kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

func decode(raw []byte, key string, items any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}

	if env.Schema != schemaVersion {
		return fmt.Errorf("%s: %w: unsupported schema %d", key, ErrCorrupt, env.Schema)
	}

	if err := json.Unmarshal(env.Items, items); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}

	return nil
}
