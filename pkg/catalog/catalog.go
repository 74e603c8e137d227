// Package catalog provides the read-only product catalog for a shopping session.
//
// The catalog is loaded once at session start and never mutated afterwards.
// Lookup misses are normal negative results, not errors: the voice surface
// has to be able to tell the user "I couldn't find that" and keep talking.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teslashibe/go-grocer/internal/httpc"
)

// ErrUnavailable indicates the catalog source is missing or malformed.
// This is fatal to session startup: the assistant must not run with a
// partial or empty catalog.
var ErrUnavailable = errors.New("catalog: source unavailable")

// Item is a single purchasable product.
// Items are immutable for the lifetime of the session.
type Item struct {
	// ID is the stable identifier used in cart lines and orders.
	ID string `json:"id"`

	// Name is the display name spoken back to the user.
	Name string `json:"name"`

	// Price in rupees. Never negative.
	Price float64 `json:"price"`

	// Tags are searchable keywords ("breakfast", "dairy").
	Tags []string `json:"tags,omitempty"`
}

// Catalog is the immutable item list for one session.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

// New builds a catalog from an item slice. Used directly in tests;
// production sessions go through Load or LoadURL.
func New(items []Item) *Catalog {
	c := &Catalog{
		items: items,
		byID:  make(map[string]Item, len(items)),
	}
	for _, it := range items {
		c.byID[it.ID] = it
	}
	return c
}

// Load reads the catalog from a JSON file.
// A missing or malformed file returns an error wrapping ErrUnavailable.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return parse(data, path)
}

// LoadURL fetches the catalog from an HTTP source using the shared client.
// The remote source follows the same JSON contract as Load.
func LoadURL(url string) (*Catalog, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: fetch %s: HTTP %d", ErrUnavailable, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, url, err)
	}
	return parse(data, url)
}

func parse(data []byte, source string) (*Catalog, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, source, err)
	}
	return New(items), nil
}

// FindByID returns the item with the given id.
// The second return is false when the id is not in the catalog.
func (c *Catalog) FindByID(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Search returns items whose name or joined tag set contains the query,
// case-insensitive, in catalog order. Users rarely speak exact ids, so
// this is the primary resolution path for voice input.
func (c *Catalog) Search(query string) []Item {
	q := strings.ToLower(query)
	var matches []Item
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			matches = append(matches, it)
			continue
		}
		if strings.Contains(strings.ToLower(strings.Join(it.Tags, " ")), q) {
			matches = append(matches, it)
		}
	}
	return matches
}

// Items returns all items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}
