// Package session maps the browsing session onto an explicit state value so
// handlers never touch raw session keys.
package session

import (
	"context"
	"encoding/gob"

	"burgerexpress/internal/cart"
	"burgerexpress/models"
)

const (
	cartKey     = "storefront:cart"
	categoryKey = "storefront:category"
	adminKey    = "admin:authenticated"
)

func init() {
	gob.Register(map[string]int{})
}

// Manager is the subset of *scs.SessionManager the state mapping relies on.
type Manager interface {
	Get(ctx context.Context, key string) interface{}
	GetString(ctx context.Context, key string) string
	GetBool(ctx context.Context, key string) bool
	Put(ctx context.Context, key string, val interface{})
	Remove(ctx context.Context, key string)
}

// State is everything the storefront keeps per browsing session.
type State struct {
	Cart     *cart.Cart
	Category models.Category
	Admin    bool
}

// New returns the state of a fresh session.
func New() State {
	return State{Cart: cart.New(), Category: models.DefaultCategory}
}

// Load reads the state from the session attached to ctx. A nil manager yields
// a fresh state.
func Load(ctx context.Context, m Manager) State {
	state := New()
	if m == nil {
		return state
	}
	if items, ok := m.Get(ctx, cartKey).(map[string]int); ok {
		state.Cart = cart.FromMap(items)
	}
	state.Category = models.NormalizeCategory(m.GetString(ctx, categoryKey))
	state.Admin = m.GetBool(ctx, adminKey)
	return state
}

// Save writes the state back to the session attached to ctx.
func Save(ctx context.Context, m Manager, state State) {
	if m == nil {
		return
	}
	if state.Cart == nil || state.Cart.IsEmpty() {
		m.Remove(ctx, cartKey)
	} else {
		m.Put(ctx, cartKey, state.Cart.Items())
	}
	m.Put(ctx, categoryKey, string(models.NormalizeCategory(string(state.Category))))
	if state.Admin {
		m.Put(ctx, adminKey, true)
	} else {
		m.Remove(ctx, adminKey)
	}
}
