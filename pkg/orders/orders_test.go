package orders

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/go-grocer/pkg/cart"
	"github.com/teslashibe/go-grocer/pkg/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		{ID: "bread_ww", Name: "Wheat Bread", Price: 40},
		{ID: "peanut_butter", Name: "Peanut Butter", Price: 120},
	})
}

// testStore creates a JSON order store in a temp directory.
func testStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestPlace(t *testing.T) {
	cat := testCatalog()
	store := testStore(t)
	c := cart.New(cat)
	c.Add("bread_ww", 2, "")
	c.Add("peanut_butter", 1, "")

	order, err := NewFinalizer(cat, store).Place(c, "Asha", "12 Lake Road")
	if err != nil {
		t.Fatalf("failed to place order: %v", err)
	}

	if order.Total != 200 {
		t.Errorf("expected total 200, got %v", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	if order.Items[0].Name != "Wheat Bread" || order.Items[0].Price != 40 {
		t.Errorf("expected snapshot of Wheat Bread at 40, got %+v", order.Items[0])
	}
	if order.CustomerName != "Asha" {
		t.Errorf("expected customer 'Asha', got '%s'", order.CustomerName)
	}
	if order.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	// Cart is cleared only after a successful save
	if c.Len() != 0 {
		t.Error("expected cart to be empty after placement")
	}
	if !c.Summarize().Empty {
		t.Error("expected empty summary after placement")
	}

	// Exactly one order persisted
	if store.Count() != 1 {
		t.Errorf("expected 1 stored order, got %d", store.Count())
	}
	stored, err := store.Get(order.ID)
	if err != nil {
		t.Fatalf("failed to read back order: %v", err)
	}
	if stored.Total != 200 {
		t.Errorf("expected persisted total 200, got %v", stored.Total)
	}
}

func TestPlaceEmptyCart(t *testing.T) {
	cat := testCatalog()
	store := testStore(t)
	c := cart.New(cat)

	_, err := NewFinalizer(cat, store).Place(c, "", "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if store.Count() != 0 {
		t.Error("expected order store to be untouched")
	}
}

func TestPlaceRetiredItemSnapshot(t *testing.T) {
	// A cart line whose item left the catalog contributes price 0 and an
	// empty name instead of failing the order.
	full := testCatalog()
	c := cart.New(full)
	c.Add("bread_ww", 1, "")
	c.Add("peanut_butter", 1, "")

	trimmed := catalog.New([]catalog.Item{{ID: "bread_ww", Name: "Wheat Bread", Price: 40}})
	store := testStore(t)

	// Finalizer resolves against the trimmed catalog; cart validation used
	// the full one.
	order, err := NewFinalizer(trimmed, store).Place(c, "", "")
	if err != nil {
		t.Fatalf("failed to place order: %v", err)
	}
	if order.Total != 40 {
		t.Errorf("expected total 40, got %v", order.Total)
	}
	if order.Items[1].Name != "" || order.Items[1].Price != 0 {
		t.Errorf("expected empty snapshot for retired item, got %+v", order.Items[1])
	}
}

// failingStore always fails Save, for the persistence-failure path.
type failingStore struct{}

func (failingStore) Save(*Order) error          { return fmt.Errorf("disk full") }
func (failingStore) Get(string) (*Order, error) { return nil, ErrNotFound }
func (failingStore) List() ([]*Order, error)    { return nil, nil }
func (failingStore) Count() int                 { return 0 }

func TestPlacePersistenceFailureKeepsCart(t *testing.T) {
	cat := testCatalog()
	c := cart.New(cat)
	c.Add("bread_ww", 1, "")

	_, err := NewFinalizer(cat, failingStore{}).Place(c, "", "")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if errors.Is(err, ErrEmptyCart) {
		t.Error("persistence failure must be distinct from empty cart")
	}
	if c.Len() != 1 {
		t.Error("expected cart to be kept after persistence failure")
	}
}

func TestOrderIDUnique(t *testing.T) {
	// Two orders in the same second must not collide.
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := newOrderID(now)
		if seen[id] {
			t.Fatalf("duplicate order id: %s", id)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "order-") {
			t.Errorf("expected order- prefix, got %s", id)
		}
	}
}

func TestStoreDuplicateID(t *testing.T) {
	store := testStore(t)

	order := &Order{ID: "order-fixed", Timestamp: time.Now()}
	if err := store.Save(order); err != nil {
		t.Fatalf("failed to save order: %v", err)
	}
	err := store.Save(order)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID on re-save, got %v", err)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Get("order-nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store := testStore(t)

	for i := 0; i < 3; i++ {
		order := &Order{
			ID:        fmt.Sprintf("order-%d", i),
			Total:     float64(i * 10),
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := store.Save(order); err != nil {
			t.Fatalf("failed to save order %d: %v", i, err)
		}
	}

	orders, err := store.List()
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	// Newest first
	if orders[0].ID != "order-2" {
		t.Errorf("expected newest order first, got %s", orders[0].ID)
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	store1, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	order := &Order{
		ID:           "order-persist",
		CustomerName: "Asha",
		Items:        []Item{{ID: "bread_ww", Name: "Wheat Bread", Quantity: 2, Price: 40}},
		Total:        80,
		Timestamp:    time.Now(),
	}
	if err := store1.Save(order); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	store2, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got, err := store2.Get("order-persist")
	if err != nil {
		t.Fatalf("failed to get after reopen: %v", err)
	}
	if got.Total != 80 || got.CustomerName != "Asha" {
		t.Errorf("expected order to survive reopen, got %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("expected item snapshot to survive reopen, got %+v", got.Items)
	}
}

func TestFormatReceipt(t *testing.T) {
	order := &Order{
		ID:           "order-x",
		CustomerName: "Asha",
		Items:        []Item{{ID: "bread_ww", Name: "Wheat Bread", Quantity: 2, Price: 40}},
		Total:        80,
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	text := formatReceipt(order)
	if !strings.Contains(text, "order-x") {
		t.Error("expected receipt to contain order id")
	}
	if !strings.Contains(text, "Customer: Asha") {
		t.Error("expected receipt to contain customer name")
	}
	if !strings.Contains(text, "Total: 80.00") {
		t.Error("expected receipt to contain total")
	}
}
