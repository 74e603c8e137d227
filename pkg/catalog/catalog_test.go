package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testItems is a small catalog shared across tests.
func testItems() []Item {
	return []Item{
		{ID: "bread_ww", Name: "Wheat Bread", Price: 40, Tags: []string{"bakery", "breakfast"}},
		{ID: "peanut_butter", Name: "Peanut Butter", Price: 120, Tags: []string{"spread"}},
		{ID: "pasta_500g", Name: "Pasta 500g", Price: 85, Tags: []string{"pantry", "italian"}},
	}
}

func TestFindByID(t *testing.T) {
	c := New(testItems())

	it, ok := c.FindByID("bread_ww")
	if !ok {
		t.Fatal("expected bread_ww to be found")
	}
	if it.Name != "Wheat Bread" {
		t.Errorf("expected name 'Wheat Bread', got '%s'", it.Name)
	}
	if it.Price != 40 {
		t.Errorf("expected price 40, got %v", it.Price)
	}

	_, ok = c.FindByID("eggs_12")
	if ok {
		t.Error("expected eggs_12 to be missing")
	}
}

func TestSearch(t *testing.T) {
	c := New(testItems())

	// Match by name, case-insensitive
	results := c.Search("BREAD")
	if len(results) != 1 {
		t.Fatalf("expected 1 result for 'BREAD', got %d", len(results))
	}
	if results[0].ID != "bread_ww" {
		t.Errorf("expected bread_ww, got %s", results[0].ID)
	}

	// Match by tag
	results = c.Search("breakfast")
	if len(results) != 1 {
		t.Errorf("expected 1 result for 'breakfast', got %d", len(results))
	}

	// Substring across names
	results = c.Search("pa")
	if len(results) != 2 {
		t.Errorf("expected 2 results for 'pa', got %d", len(results))
	}

	// No match
	results = c.Search("chocolate")
	if len(results) != 0 {
		t.Errorf("expected 0 results for 'chocolate', got %d", len(results))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	data := `[
		{"id": "bread_ww", "name": "Wheat Bread", "price": 40, "tags": ["bakery"]},
		{"id": "milk_1l", "name": "Milk 1L", "price": 60}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 items, got %d", c.Len())
	}

	it, ok := c.FindByID("milk_1l")
	if !ok || it.Price != 60 {
		t.Errorf("expected milk_1l at price 60, got %+v (found=%v)", it, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for malformed catalog, got %v", err)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(testItems())

	items := c.Items()
	items[0].Name = "mutated"

	it, _ := c.FindByID("bread_ww")
	if it.Name != "Wheat Bread" {
		t.Error("expected catalog to be unaffected by mutation of Items() result")
	}
}
