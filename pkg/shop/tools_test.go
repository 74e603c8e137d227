package shop

import (
	"strings"
	"testing"

	"github.com/teslashibe/go-grocer/pkg/orders"
	"github.com/teslashibe/go-grocer/pkg/voice"
)

func toolByName(t *testing.T, tools []voice.Tool, name string) voice.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found", name)
	return voice.Tool{}
}

func call(t *testing.T, tool voice.Tool, args map[string]interface{}) string {
	t.Helper()
	got, err := tool.Handler(args)
	if err != nil {
		t.Fatalf("%s returned error: %v", tool.Name, err)
	}
	return got
}

func TestAddToCartTool(t *testing.T) {
	s := newTestSession(t)
	tools := Tools(ToolsConfig{Session: s})
	add := toolByName(t, tools, "add_to_cart")

	got := call(t, add, map[string]interface{}{"item_id": "bread_ww", "quantity": float64(2)})
	if got != "Added 2 x Wheat Bread to your cart." {
		t.Errorf("unexpected response: %q", got)
	}

	got = call(t, add, map[string]interface{}{"item_id": "bread_ww", "quantity": float64(1)})
	if got != "Updated Wheat Bread quantity to 3." {
		t.Errorf("unexpected merge response: %q", got)
	}
}

func TestAddToCartToolResolvesSpokenName(t *testing.T) {
	s := newTestSession(t)
	add := toolByName(t, Tools(ToolsConfig{Session: s}), "add_to_cart")

	got := call(t, add, map[string]interface{}{"item_id": "peanut butter"})
	if got != "Added 1 x Peanut Butter to your cart." {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestAddToCartToolUnknownItem(t *testing.T) {
	s := newTestSession(t)
	add := toolByName(t, Tools(ToolsConfig{Session: s}), "add_to_cart")

	got := call(t, add, map[string]interface{}{"item_id": "caviar"})
	if !strings.Contains(got, "not found in catalog") {
		t.Errorf("unexpected response: %q", got)
	}
	if s.Cart().Len() != 0 {
		t.Error("cart should be unchanged after unknown item")
	}
}

func TestAddRecipeTool(t *testing.T) {
	s := newTestSession(t)
	addRecipe := toolByName(t, Tools(ToolsConfig{Session: s}), "add_recipe")

	got := call(t, addRecipe, map[string]interface{}{"recipe_name": "Pasta For Two"})
	if got != "Added: Pasta 500g, Tomato Pasta Sauce" {
		t.Errorf("unexpected response: %q", got)
	}
	if s.Cart().Len() != 2 {
		t.Errorf("cart lines = %d, want 2", s.Cart().Len())
	}
}

func TestAddRecipeToolSkipsMissingIngredients(t *testing.T) {
	s := newTestSession(t)
	addRecipe := toolByName(t, Tools(ToolsConfig{Session: s}), "add_recipe")

	// basic sandwich includes eggs_12, absent from the test catalog
	got := call(t, addRecipe, map[string]interface{}{"recipe_name": "basic sandwich"})
	if strings.Contains(got, "eggs") {
		t.Errorf("missing ingredient should be skipped silently: %q", got)
	}
	if !strings.Contains(got, "Wheat Bread") || !strings.Contains(got, "Peanut Butter") {
		t.Errorf("available ingredients should be added: %q", got)
	}
	if s.Cart().Len() != 2 {
		t.Errorf("cart lines = %d, want 2", s.Cart().Len())
	}
}

func TestAddRecipeToolUnknownRecipe(t *testing.T) {
	s := newTestSession(t)
	addRecipe := toolByName(t, Tools(ToolsConfig{Session: s}), "add_recipe")

	got := call(t, addRecipe, map[string]interface{}{"recipe_name": "beef wellington"})
	if !strings.Contains(got, "don't know the recipe") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestRemoveFromCartTool(t *testing.T) {
	s := newTestSession(t)
	tools := Tools(ToolsConfig{Session: s})
	remove := toolByName(t, tools, "remove_from_cart")

	s.Cart().Add("bread_ww", 1, "")

	got := call(t, remove, map[string]interface{}{"item_id": "bread_ww"})
	if got != "Removed item bread_ww from cart." {
		t.Errorf("unexpected response: %q", got)
	}

	got = call(t, remove, map[string]interface{}{"item_id": "bread_ww"})
	if got != "Item not found in cart." {
		t.Errorf("unexpected response for absent line: %q", got)
	}
}

func TestListCartTool(t *testing.T) {
	s := newTestSession(t)
	listCart := toolByName(t, Tools(ToolsConfig{Session: s}), "list_cart")

	got := call(t, listCart, nil)
	if got != "Your cart is empty." {
		t.Errorf("unexpected empty response: %q", got)
	}

	s.Cart().Add("bread_ww", 2, "")
	s.Cart().Add("peanut_butter", 1, "")

	got = call(t, listCart, nil)
	if !strings.Contains(got, "2 x Wheat Bread for 80 rupees") {
		t.Errorf("missing bread line: %q", got)
	}
	if !strings.Contains(got, "Total: 200 rupees") {
		t.Errorf("missing total: %q", got)
	}
	if strings.ContainsAny(got, "₹*#") {
		t.Errorf("response contains symbols that synthesize poorly: %q", got)
	}
}

func TestPlaceOrderTool(t *testing.T) {
	s := newTestSession(t)
	var placed bool
	tools := Tools(ToolsConfig{
		Session: s,
		OnOrder: func(_ *orders.Order) { placed = true },
	})
	placeOrder := toolByName(t, tools, "place_order")

	got := call(t, placeOrder, map[string]interface{}{})
	if got != "Your cart is empty, so there is nothing to order." {
		t.Errorf("unexpected empty-cart response: %q", got)
	}
	if placed {
		t.Error("OnOrder should not fire for an empty cart")
	}

	s.Cart().Add("bread_ww", 2, "")
	s.Cart().Add("peanut_butter", 1, "")

	got = call(t, placeOrder, map[string]interface{}{
		"customer_name": "Asha",
		"address":       "12 MG Road",
	})
	if !strings.Contains(got, "Order placed") || !strings.Contains(got, "200 rupees") {
		t.Errorf("unexpected response: %q", got)
	}
	if !placed {
		t.Error("OnOrder should fire after a successful order")
	}
	if s.Cart().Len() != 0 {
		t.Error("cart should be cleared after ordering")
	}
	if s.Orders().Count() != 1 {
		t.Errorf("store count = %d, want 1", s.Orders().Count())
	}
}

func TestSearchCatalogTool(t *testing.T) {
	s := newTestSession(t)
	search := toolByName(t, Tools(ToolsConfig{Session: s}), "search_catalog")

	got := call(t, search, map[string]interface{}{"query": "pasta"})
	if !strings.Contains(got, "Pasta 500g at 60 rupees") {
		t.Errorf("unexpected response: %q", got)
	}

	got = call(t, search, map[string]interface{}{"query": "caviar"})
	if !strings.Contains(got, "Nothing in the catalog matches") {
		t.Errorf("unexpected miss response: %q", got)
	}
}

func TestListRecipesTool(t *testing.T) {
	s := newTestSession(t)
	listRecipes := toolByName(t, Tools(ToolsConfig{Session: s}), "list_recipes")

	got := call(t, listRecipes, nil)
	if !strings.Contains(got, "pasta for two") {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOnCartChangeFires(t *testing.T) {
	s := newTestSession(t)
	var changes int
	tools := Tools(ToolsConfig{
		Session:      s,
		OnCartChange: func() { changes++ },
	})

	call(t, toolByName(t, tools, "add_to_cart"), map[string]interface{}{"item_id": "bread_ww"})
	call(t, toolByName(t, tools, "remove_from_cart"), map[string]interface{}{"item_id": "bread_ww"})
	if changes != 2 {
		t.Errorf("changes = %d, want 2", changes)
	}
}
