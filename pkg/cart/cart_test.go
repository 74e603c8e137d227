package cart

import (
	"testing"

	"github.com/teslashibe/go-grocer/pkg/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		{ID: "bread_ww", Name: "Wheat Bread", Price: 40},
		{ID: "peanut_butter", Name: "Peanut Butter", Price: 120},
	})
}

func TestAdd(t *testing.T) {
	c := New(testCatalog())

	res, ok := c.Add("bread_ww", 2, "")
	if !ok {
		t.Fatal("expected add to succeed")
	}
	if res.Item.Name != "Wheat Bread" {
		t.Errorf("expected item name 'Wheat Bread', got '%s'", res.Item.Name)
	}
	if res.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", res.Quantity)
	}
	if res.Merged {
		t.Error("expected first add to not be a merge")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 line, got %d", c.Len())
	}
}

func TestAddUnknownItem(t *testing.T) {
	c := New(testCatalog())

	_, ok := c.Add("eggs_12", 1, "")
	if ok {
		t.Fatal("expected add of unknown item to fail")
	}
	if c.Len() != 0 {
		t.Error("expected cart to be unchanged after failed add")
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	c := New(testCatalog())

	c.Add("bread_ww", 2, "")
	res, ok := c.Add("bread_ww", 3, "")
	if !ok {
		t.Fatal("expected merge add to succeed")
	}
	if !res.Merged {
		t.Error("expected second add to merge")
	}
	if res.Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", res.Quantity)
	}
	if c.Len() != 1 {
		t.Errorf("expected one line after merge, got %d", c.Len())
	}
}

func TestAddClampsQuantity(t *testing.T) {
	c := New(testCatalog())

	res, _ := c.Add("bread_ww", 0, "")
	if res.Quantity != 1 {
		t.Errorf("expected quantity 0 to clamp to 1, got %d", res.Quantity)
	}

	res, _ = c.Add("bread_ww", -4, "")
	if res.Quantity != 2 {
		t.Errorf("expected negative quantity to clamp to 1 (total 2), got %d", res.Quantity)
	}
}

func TestAddAppendsNotes(t *testing.T) {
	c := New(testCatalog())

	c.Add("bread_ww", 1, "sliced")
	c.Add("bread_ww", 1, "fresh batch")

	lines := c.Lines()
	if lines[0].Notes != "sliced fresh batch" {
		t.Errorf("expected notes 'sliced fresh batch', got '%s'", lines[0].Notes)
	}

	// Empty notes on merge leaves existing notes alone
	c.Add("bread_ww", 1, "")
	if c.Lines()[0].Notes != "sliced fresh batch" {
		t.Error("expected empty notes to not modify existing notes")
	}
}

func TestRemove(t *testing.T) {
	c := New(testCatalog())
	c.Add("bread_ww", 1, "")
	c.Add("peanut_butter", 1, "")

	if !c.Remove("bread_ww") {
		t.Fatal("expected remove to succeed")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 line after remove, got %d", c.Len())
	}
	if c.Lines()[0].ItemID != "peanut_butter" {
		t.Error("expected remaining line to be peanut_butter")
	}
}

func TestRemoveAbsent(t *testing.T) {
	c := New(testCatalog())

	if c.Remove("bread_ww") {
		t.Error("expected remove on empty cart to return false")
	}

	c.Add("peanut_butter", 1, "")
	if c.Remove("bread_ww") {
		t.Error("expected remove of absent id to return false")
	}
	if c.Len() != 1 {
		t.Error("expected failed remove to not mutate cart")
	}
}

func TestSummarize(t *testing.T) {
	c := New(testCatalog())
	c.Add("bread_ww", 2, "")
	c.Add("peanut_butter", 1, "")

	s := c.Summarize()
	if s.Empty {
		t.Fatal("expected non-empty summary")
	}
	if len(s.Lines) != 2 {
		t.Fatalf("expected 2 summary lines, got %d", len(s.Lines))
	}
	if s.Lines[0].Subtotal != 80 {
		t.Errorf("expected first subtotal 80, got %v", s.Lines[0].Subtotal)
	}
	if s.Total != 200 {
		t.Errorf("expected total 200, got %v", s.Total)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	c := New(testCatalog())

	s := c.Summarize()
	if !s.Empty {
		t.Error("expected empty cart summary to be marked Empty")
	}
	if len(s.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(s.Lines))
	}
}

func TestSummarizeLivePrices(t *testing.T) {
	// The cart quotes whatever the catalog says at summarize time.
	cat := catalog.New([]catalog.Item{{ID: "bread_ww", Name: "Wheat Bread", Price: 40}})
	c := New(cat)
	c.Add("bread_ww", 1, "")

	s := c.Summarize()
	if s.Total != 40 {
		t.Errorf("expected total 40, got %v", s.Total)
	}
}

func TestClear(t *testing.T) {
	c := New(testCatalog())
	c.Add("bread_ww", 1, "")
	c.Clear()

	if c.Len() != 0 {
		t.Error("expected cart to be empty after Clear")
	}
	if !c.Summarize().Empty {
		t.Error("expected empty summary after Clear")
	}
}
