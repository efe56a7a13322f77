package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dedw3n/api-cache/pkg/auth"
)

// Product is a marketplace listing.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	VendorID string  `json:"vendor_id"`
}

// CartItem is a product reference with a quantity.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// catalog is an in-memory stand-in for the marketplace storage layer. The
// gateway's job is demonstrating the cache middleware, not persistence.
type catalog struct {
	mu       sync.RWMutex
	products map[string]Product
	carts    map[string][]CartItem
	nextID   int
}

func newCatalog() *catalog {
	c := &catalog{
		products: make(map[string]Product),
		carts:    make(map[string][]CartItem),
		nextID:   1,
	}
	for _, p := range []Product{
		{Name: "Trail Runner", Category: "shoes", Price: 89.90, VendorID: "v1"},
		{Name: "Canvas Sneaker", Category: "shoes", Price: 49.50, VendorID: "v2"},
		{Name: "Linen Shirt", Category: "apparel", Price: 35.00, VendorID: "v1"},
	} {
		c.insert(p)
	}
	return c
}

func (c *catalog) insert(p Product) Product {
	p.ID = "p" + strconv.Itoa(c.nextID)
	c.nextID++
	c.products[p.ID] = p
	return p
}

func (c *catalog) handleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	c.mu.RLock()
	list := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category == "" || p.Category == category {
			list = append(list, p)
		}
	}
	c.mu.RUnlock()

	sortProducts(list)
	respondJSON(w, list)
}

func (c *catalog) handleDetail(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	p, ok := c.products[chi.URLParam(r, "productID")]
	c.mu.RUnlock()

	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, p)
}

func (c *catalog) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	c.mu.RLock()
	matches := make([]Product, 0)
	for _, p := range c.products {
		if q != "" && strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, p)
		}
	}
	c.mu.RUnlock()

	sortProducts(matches)
	respondJSON(w, matches)
}

func (c *catalog) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid product payload", http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	p.VendorID = auth.UserID(r)

	c.mu.Lock()
	p = c.insert(p)
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (c *catalog) handleCart(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	items := c.carts[auth.UserID(r)]
	c.mu.RUnlock()

	if items == nil {
		items = []CartItem{}
	}
	respondJSON(w, items)
}

func (c *catalog) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var item CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid cart item", http.StatusBadRequest)
		return
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	userID := auth.UserID(r)
	c.mu.Lock()
	c.carts[userID] = append(c.carts[userID], item)
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(item)
}

func (c *catalog) handleProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"user_id": auth.UserID(r)})
}

// respondJSON is the single emission point the cache middleware intercepts.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// sortProducts orders by id so cached listing bodies are deterministic
// across map iterations.
func sortProducts(list []Product) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
