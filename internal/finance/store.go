package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/savemoney-app/savemoney/internal/securestore"
)

// Entity is any record with a stable plaintext identifier.
type Entity interface {
	Key() string
}

// Store is a typed wrapper over one encrypted collection. It adds no
// consistency logic of its own; everything flows through the facade.
type Store[T Entity] struct {
	collection string
	db         *securestore.CollectionStore
}

func NewIncomeStore(db *securestore.CollectionStore) *Store[Income] {
	return &Store[Income]{collection: "incomes", db: db}
}

func NewExpenseStore(db *securestore.CollectionStore) *Store[Expense] {
	return &Store[Expense]{collection: "expenses", db: db}
}

func NewInvestmentStore(db *securestore.CollectionStore) *Store[Investment] {
	return &Store[Investment]{collection: "investments", db: db}
}

// Save upserts item by its key.
func (s *Store[T]) Save(ctx context.Context, item T) error {
	return s.db.Save(ctx, s.collection, securestore.Record{
		ID:      item.Key(),
		Payload: item,
	})
}

// Get reads one item. The boolean reports whether it exists.
func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var item T
	rec, err := s.db.Get(ctx, s.collection, id)
	if err != nil || rec == nil {
		return item, false, err
	}
	if err := rec.Open(&item); err != nil {
		return item, false, err
	}
	return item, true, nil
}

// List decrypts and returns every item in the collection.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	recs, err := s.db.GetAll(ctx, s.collection)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		var item T
		if err := rec.Open(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes one item by key. Absent keys are a no-op.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	return s.db.Delete(ctx, s.collection, id)
}

// Recurrent is implemented by records that may repeat every period.
type Recurrent interface {
	RecurrentValue() (decimal.Decimal, bool)
}

// RecurringTotal sums the amounts of the recurring items.
func RecurringTotal[T Recurrent](items []T) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if v, ok := item.RecurrentValue(); ok {
			total = total.Add(v)
		}
	}
	return total
}
