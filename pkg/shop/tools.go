package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/teslashibe/go-grocer/pkg/orders"
	"github.com/teslashibe/go-grocer/pkg/recipes"
	"github.com/teslashibe/go-grocer/pkg/voice"
)

// ToolsConfig carries the dependencies the shopping tools need.
type ToolsConfig struct {
	Session *Session

	// OnCartChange fires after any tool mutates the cart. Optional.
	OnCartChange func()

	// OnOrder fires after an order is successfully placed. Optional.
	OnOrder func(order *orders.Order)
}

// Tools returns all shopping tools available to the assistant.
// Every handler returns a short speakable sentence with a nil error;
// expected negatives are spoken, not raised.
func Tools(cfg ToolsConfig) []voice.Tool {
	s := cfg.Session

	cartChanged := func() {
		if cfg.OnCartChange != nil {
			cfg.OnCartChange()
		}
	}

	return []voice.Tool{
		{
			Name:        "add_to_cart",
			Description: "Add an item to the shopping cart. If the item is already in the cart, its quantity is increased instead.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"item_id": map[string]interface{}{
						"type":        "string",
						"description": "Catalog item id, or the item's spoken name",
					},
					"quantity": map[string]interface{}{
						"type":        "integer",
						"description": "How many to add (default 1)",
					},
					"notes": map[string]interface{}{
						"type":        "string",
						"description": "Optional note, e.g. 'ripe ones please'",
					},
				},
				"required": []string{"item_id"},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				raw, _ := args["item_id"].(string)
				quantity := intArg(args, "quantity", 1)
				notes, _ := args["notes"].(string)

				id, ok := s.ResolveItemID(raw)
				if !ok {
					return fmt.Sprintf("Item %s not found in catalog.", raw), nil
				}

				res, ok := s.Cart().Add(id, quantity, notes)
				if !ok {
					return fmt.Sprintf("Item %s not found in catalog.", raw), nil
				}
				cartChanged()

				if res.Merged {
					return fmt.Sprintf("Updated %s quantity to %d.", res.Item.Name, res.Quantity), nil
				}
				return fmt.Sprintf("Added %d x %s to your cart.", res.Quantity, res.Item.Name), nil
			},
		},
		{
			Name:        "add_recipe",
			Description: "Add all ingredients of a known recipe to the cart, one of each. Use list_recipes to see what is available.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"recipe_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the recipe, e.g. 'pasta for two'",
					},
				},
				"required": []string{"recipe_name"},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				name, _ := args["recipe_name"].(string)

				ids, ok := recipes.Expand(name)
				if !ok {
					return fmt.Sprintf("Sorry, I don't know the recipe %s.", name), nil
				}

				// Ingredients missing from the catalog are skipped
				// without failing the whole call.
				var added []string
				for _, id := range ids {
					if res, ok := s.Cart().Add(id, 1, ""); ok {
						added = append(added, res.Item.Name)
					}
				}
				if len(added) == 0 {
					return fmt.Sprintf("None of the ingredients for %s are available right now.", name), nil
				}
				cartChanged()
				return "Added: " + strings.Join(added, ", "), nil
			},
		},
		{
			Name:        "remove_from_cart",
			Description: "Remove an item from the shopping cart entirely.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"item_id": map[string]interface{}{
						"type":        "string",
						"description": "Catalog item id, or the item's spoken name",
					},
				},
				"required": []string{"item_id"},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				raw, _ := args["item_id"].(string)

				id, ok := s.ResolveItemID(raw)
				if !ok {
					id = raw
				}
				if s.Cart().Remove(id) {
					cartChanged()
					return fmt.Sprintf("Removed item %s from cart.", id), nil
				}
				return "Item not found in cart.", nil
			},
		},
		{
			Name:        "list_cart",
			Description: "List the contents of the shopping cart with prices and the running total.",
			Parameters:  map[string]interface{}{},
			Handler: func(args map[string]interface{}) (string, error) {
				sum := s.Cart().Summarize()
				if sum.Empty {
					return "Your cart is empty.", nil
				}

				var lines []string
				for _, l := range sum.Lines {
					lines = append(lines, fmt.Sprintf("%d x %s for %s", l.Quantity, l.Name, rupees(l.Subtotal)))
				}
				lines = append(lines, "Total: "+rupees(sum.Total))
				return strings.Join(lines, ". ") + ".", nil
			},
		},
		{
			Name:        "place_order",
			Description: "Place the order for everything in the cart. Ask for the customer's name and delivery address first if you don't have them.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"customer_name": map[string]interface{}{
						"type":        "string",
						"description": "Customer's name (optional)",
					},
					"address": map[string]interface{}{
						"type":        "string",
						"description": "Delivery address (optional)",
					},
				},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				name, _ := args["customer_name"].(string)
				address, _ := args["address"].(string)

				order, err := s.PlaceOrder(name, address)
				if err != nil {
					if errors.Is(err, orders.ErrEmptyCart) {
						return "Your cart is empty, so there is nothing to order.", nil
					}
					// Persistence failure: the cart is preserved so the
					// user can retry.
					return "Sorry, your order did not go through. Your cart is unchanged, please try again.", nil
				}
				cartChanged()
				if cfg.OnOrder != nil {
					cfg.OnOrder(order)
				}
				return fmt.Sprintf("Order placed, your order id is %s. Total: %s.", order.ID, rupees(order.Total)), nil
			},
		},
		{
			Name:        "search_catalog",
			Description: "Search the product catalog by name or tag. Use this when the user asks what is available or you are unsure of an item id.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Free text to match against item names and tags",
					},
				},
				"required": []string{"query"},
			},
			Handler: func(args map[string]interface{}) (string, error) {
				query, _ := args["query"].(string)

				hits := s.Catalog().Search(query)
				if len(hits) == 0 {
					return fmt.Sprintf("Nothing in the catalog matches %s.", query), nil
				}

				var parts []string
				for _, it := range hits {
					parts = append(parts, fmt.Sprintf("%s at %s", it.Name, rupees(it.Price)))
				}
				return "I found: " + strings.Join(parts, ", ") + ".", nil
			},
		},
		{
			Name:        "list_recipes",
			Description: "List the recipes the assistant can add ingredients for.",
			Parameters:  map[string]interface{}{},
			Handler: func(args map[string]interface{}) (string, error) {
				names := recipes.Names()
				if len(names) == 0 {
					return "I don't have any recipes right now.", nil
				}
				return "I know these recipes: " + strings.Join(names, ", ") + ".", nil
			},
		},
	}
}

// intArg reads an integer tool argument. Gemini sends numbers as
// float64 through JSON, so both forms are accepted.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// rupees renders a price as speech-friendly text. Currency symbols
// synthesize poorly, so amounts are spoken as plain words.
func rupees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " rupees"
}
