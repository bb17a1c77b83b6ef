// Package memory implements the domain repositories on process memory.
//
// A single Store is created at start-up and injected into every service that
// needs catalog, user or sales data. Nothing survives a restart.
package memory

import (
	"sync"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
)

// Store holds products, users and the sales history behind one lock.
// Values are copied on the way in and out so callers never alias store memory.
type Store struct {
	mu sync.RWMutex

	products     map[string]domain.Product
	productOrder []string

	users     map[string]domain.User
	userOrder []string

	// sales is kept oldest first; ListSales reverses it.
	sales   []domain.Sale
	saleSeq int

	now func() time.Time
}

// Compile-time checks that Store satisfies every repository.
var (
	_ domain.ProductRepository = (*Store)(nil)
	_ domain.UserRepository    = (*Store)(nil)
	_ domain.SaleRepository    = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		products: make(map[string]domain.Product),
		users:    make(map[string]domain.User),
		now:      time.Now,
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
