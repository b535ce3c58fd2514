package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"burgerexpress/internal/views/layout"
	"burgerexpress/models"
)

// OrderConfirmation is shown after an order is submitted.
const OrderConfirmation = "Order sent! Delivery in 30-40 minutes."

// CategoryTab is one menu category button.
type CategoryTab struct {
	Value  models.Category
	Label  string
	Active bool
}

// MenuItem is a dish card on the storefront.
type MenuItem struct {
	Name        string
	Price       string
	ImageURL    string
	Available   bool
	Blocking    string
	Quantity    int
	Ingredients []string
}

// CartLine is one row of the cart summary.
type CartLine struct {
	Dish     string
	Quantity int
	Subtotal string
}

// MenuData is everything the storefront page renders.
type MenuData struct {
	Tabs    []CategoryTab
	Items   []MenuItem
	Cart    []CartLine
	Total   string
	Count   int
	Message string
}

// Menu renders the full storefront page.
func Menu(data MenuData) templ.Component {
	return layout.Layout("Burger Express", menuHeader(), MenuPartial(data), layout.ThemeByID(layout.ThemeStorefront))
}

func menuHeader() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="flex items-center justify-between px-6 py-4 border-b border-neutral-800">`)
		h.raw(`<a href="/" class="text-2xl font-bold text-red-500">Burger Express</a>`)
		h.raw(`<a href="/admin" class="text-sm">Admin</a></header>`)
		return h.err
	})
}

// MenuPartial renders the menu and cart, the region swapped by HTMX requests.
func MenuPartial(data MenuData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="storefront" hx-target="#storefront" hx-swap="outerHTML">`)
		if data.Message != "" {
			h.raw(`<p class="rounded bg-green-700 p-3" role="status">`)
			h.text(data.Message)
			h.raw(`</p>`)
		}

		h.raw(`<nav class="grid grid-cols-4 gap-2 my-4">`)
		for _, tab := range data.Tabs {
			h.raw(`<button hx-post="/api/category" hx-vals="`)
			h.vals(map[string]any{"category": string(tab.Value)})
			h.raw(`" data-state="`)
			h.raw(tabState(tab.Active))
			h.raw(`">`)
			h.text(tab.Label)
			h.raw(`</button>`)
		}
		h.raw(`</nav>`)

		h.raw(`<section id="menu" class="grid gap-4 md:grid-cols-3">`)
		if len(data.Items) == 0 {
			h.raw(`<p class="col-span-3 text-neutral-400">No dishes in this category yet.</p>`)
		}
		for _, item := range data.Items {
			renderMenuItem(h, item)
		}
		h.raw(`</section>`)

		renderCart(h, data)
		h.raw(`</div>`)
		return h.err
	})
}

func tabState(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func renderMenuItem(h *htmlWriter, item MenuItem) {
	h.raw(`<article class="rounded-lg bg-neutral-900" data-dish="`)
	h.text(item.Name)
	h.raw(`" data-available="`)
	if item.Available {
		h.raw(`true">`)
	} else {
		h.raw(`false">`)
	}
	if item.ImageURL != "" {
		h.raw(`<img class="h-44 w-full object-cover" src="`)
		h.text(item.ImageURL)
		h.raw(`" alt="`)
		h.text(item.Name)
		h.raw(`">`)
	}
	h.raw(`<div class="p-4"><h3 class="font-semibold">`)
	h.text(item.Name)
	h.raw(`</h3><p class="text-red-500">$ `)
	h.text(item.Price)
	h.raw(`</p>`)
	if len(item.Ingredients) > 0 {
		h.raw(`<ul class="text-xs text-neutral-400">`)
		for _, ingredient := range item.Ingredients {
			h.raw(`<li>`)
			h.text(ingredient)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	}
	if !item.Available {
		h.raw(`<p class="text-amber-400">Unavailable`)
		if item.Blocking != "" {
			h.raw(`: out of `)
			h.text(item.Blocking)
		}
		h.raw(`</p>`)
	}

	h.raw(`<div class="mt-3 flex items-center justify-between">`)
	h.raw(`<button hx-post="/api/cart/items/decrement" hx-vals="`)
	h.vals(map[string]any{"dish": item.Name})
	h.raw(`" aria-label="Remove one">-</button><span>`)
	h.int(item.Quantity)
	h.raw(`</span><button hx-post="/api/cart/items/increment" hx-vals="`)
	h.vals(map[string]any{"dish": item.Name})
	h.raw(`" aria-label="Add one"`)
	if !item.Available {
		h.raw(` disabled`)
	}
	h.raw(`>+</button></div></div></article>`)
}

func renderCart(h *htmlWriter, data MenuData) {
	h.raw(`<section id="cart" class="mt-8 rounded-lg bg-neutral-900 p-4" data-count="`)
	h.int(data.Count)
	h.raw(`"><h2 class="text-xl font-semibold">Your order</h2>`)
	if len(data.Cart) == 0 {
		h.raw(`<p class="text-neutral-400">Your cart is empty.</p></section>`)
		return
	}
	h.raw(`<ul>`)
	for _, line := range data.Cart {
		h.raw(`<li class="flex justify-between"><span>`)
		h.int(line.Quantity)
		h.raw(`x `)
		h.text(line.Dish)
		h.raw(`</span><span>$ `)
		h.text(line.Subtotal)
		h.raw(`</span></li>`)
	}
	h.raw(`</ul><p class="mt-2 font-bold">TOTAL: $ `)
	h.text(data.Total)
	h.raw(`</p><div class="mt-4 flex gap-2">`)
	h.raw(`<button hx-post="/api/orders" class="bg-red-600 px-4 py-2">Place order</button>`)
	h.raw(`<button hx-delete="/api/cart" class="px-4 py-2">Clear cart</button>`)
	h.raw(`</div></section>`)
}
