package orders

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is the durable sink for placed orders. Implementations must not
// silently overwrite an existing order under the same id.
type Store interface {
	// Save persists a new order.
	Save(order *Order) error

	// Get retrieves an order by id.
	Get(id string) (*Order, error)

	// List returns all orders, newest first.
	List() ([]*Order, error)

	// Count returns the number of stored orders.
	Count() int
}

// JSONStore persists each order as one JSON file in a directory.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates an order store rooted at dir, creating it if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("orders: create directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the order to <dir>/<id>.json. The write goes through a temp
// file and rename so a crash mid-write never leaves a truncated order.
func (s *JSONStore) Save(order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(order.ID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, order.ID)
	}

	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("orders: marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("orders: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("orders: rename temp file: %w", err)
	}
	return nil
}

// Get reads one order by id.
func (s *JSONStore) Get(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("orders: read %s: %w", id, err)
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("orders: parse %s: %w", id, err)
	}
	return &order, nil
}

// List returns all stored orders, newest first.
func (s *JSONStore) List() ([]*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("orders: read directory: %w", err)
	}

	var orders []*Order
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var order Order
		if err := json.Unmarshal(data, &order); err != nil {
			continue
		}
		orders = append(orders, &order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Timestamp.After(orders[j].Timestamp)
	})
	return orders, nil
}

// Count returns the number of order files in the store.
func (s *JSONStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			n++
		}
	}
	return n
}

// Dir returns the directory backing the store.
func (s *JSONStore) Dir() string {
	return s.dir
}

// Ensure JSONStore implements Store.
var _ Store = (*JSONStore)(nil)
