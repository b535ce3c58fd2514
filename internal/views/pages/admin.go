package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"burgerexpress/internal/admin"
	"burgerexpress/internal/views/layout"
	"burgerexpress/models"
)

// AdminLogin renders the back office password form.
func AdminLogin(message string) templ.Component {
	return layout.Layout("Burger Express admin", nil, AdminLoginPartial(message), layout.ThemeByID(layout.ThemeBackOffice))
}

// AdminLoginPartial renders only the login form.
func AdminLoginPartial(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form id="admin-login" method="post" action="/admin/login" hx-post="/admin/login" hx-target="#admin-login" hx-swap="outerHTML" class="space-y-4">`)
		h.raw(`<h1 class="text-2xl font-bold">Back office</h1>`)
		if message != "" {
			h.raw(`<p class="text-red-400" role="alert">`)
			h.text(message)
			h.raw(`</p>`)
		}
		h.raw(`<label class="block">Password <input type="password" name="password" required autofocus></label>`)
		h.raw(`<button type="submit">Sign in</button>`)
		h.raw(`<a href="/" class="block text-sm">Back to the menu</a></form>`)
		return h.err
	})
}

// AdminDashboardData is everything the back office page renders.
type AdminDashboardData struct {
	Report      admin.Report
	Ingredients []models.Ingredient
	Message     string
}

// AdminDashboard renders the full back office page.
func AdminDashboard(data AdminDashboardData) templ.Component {
	return layout.Layout("Burger Express admin", adminHeader(), AdminDashboardPartial(data), layout.ThemeByID(layout.ThemeBackOffice))
}

func adminHeader() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="flex items-center justify-between px-6 py-4 border-b border-slate-700">`)
		h.raw(`<span class="text-xl font-bold text-amber-400">Back office</span>`)
		h.raw(`<form method="post" action="/admin/logout"><button type="submit">Log out</button></form></header>`)
		return h.err
	})
}

// AdminDashboardPartial renders the dashboard body.
func AdminDashboardPartial(data AdminDashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div id="dashboard" class="space-y-8">`)
		if data.Message != "" {
			h.raw(`<p role="status">`)
			h.text(data.Message)
			h.raw(`</p>`)
		}
		renderCounters(h, data.Report)
		renderLowStock(h, data.Report.LowStock)
		renderIngredients(h, data.Ingredients)
		renderDishReports(h, data.Report.Dishes)
		renderAddIngredientForm(h)
		renderAddDishForm(h, data.Ingredients)
		renderRestockForm(h)
		h.raw(`</div>`)
		return h.err
	})
}

func renderCounters(h *htmlWriter, report admin.Report) {
	h.raw(`<section class="grid grid-cols-3 gap-4">`)
	statCard(h, "Ingredients", report.IngredientCount)
	statCard(h, "Dishes", report.DishCount)
	statCard(h, "Stock alerts", report.AlertCount)
	h.raw(`</section>`)
}

func statCard(h *htmlWriter, label string, value int) {
	h.raw(`<div class="rounded bg-slate-800 p-4"><p class="text-sm text-slate-400">`)
	h.text(label)
	h.raw(`</p><p class="text-3xl font-bold">`)
	h.int(value)
	h.raw(`</p></div>`)
}

func renderLowStock(h *htmlWriter, low []models.Ingredient) {
	h.raw(`<section id="low-stock"><h2 class="text-lg font-semibold">Stock alerts</h2>`)
	if len(low) == 0 {
		h.raw(`<p class="text-slate-400">All ingredients are above their minimum.</p></section>`)
		return
	}
	h.raw(`<ul>`)
	for _, ingredient := range low {
		h.raw(`<li class="text-amber-400">`)
		h.text(ingredient.Name)
		h.raw(`: `)
		h.int(ingredient.Stock)
		h.raw(` `)
		h.text(ingredient.Unit)
		h.raw(` (minimum `)
		h.int(ingredient.Minimum)
		h.raw(`)</li>`)
	}
	h.raw(`</ul></section>`)
}

func renderIngredients(h *htmlWriter, ingredients []models.Ingredient) {
	h.raw(`<section id="ingredients"><h2 class="text-lg font-semibold">Ingredients</h2><table class="w-full"><thead><tr>`)
	h.raw(`<th>Name</th><th>Category</th><th>Unit</th><th>Stock</th><th>Minimum</th><th></th></tr></thead><tbody>`)
	for _, ingredient := range ingredients {
		path := "/admin/api/ingredients/" + templ.EscapeString(urlPathSegment(ingredient.Name))
		h.raw(`<tr><td>`)
		h.text(ingredient.Name)
		h.raw(`</td><td>`)
		h.text(ingredient.Category)
		h.raw(`</td><td>`)
		h.text(ingredient.Unit)
		h.raw(`</td><td colspan="2"><form hx-put="` + path + `" hx-swap="none" class="flex gap-2">`)
		h.raw(`<input type="number" name="stock" min="0" value="`)
		h.int(ingredient.Stock)
		h.raw(`"><input type="number" name="minimum" min="1" value="`)
		h.int(ingredient.Minimum)
		h.raw(`"><button type="submit">Save</button></form></td><td>`)
		h.raw(`<button hx-delete="` + path + `" hx-swap="none" hx-confirm="Delete this ingredient?">Delete</button></td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

func renderDishReports(h *htmlWriter, dishes []admin.DishReport) {
	h.raw(`<section id="dishes"><h2 class="text-lg font-semibold">Dishes</h2><table class="w-full"><thead><tr>`)
	h.raw(`<th>Name</th><th>Category</th><th>Price</th><th>Cost</th><th>Profit</th><th>Margin</th><th>Status</th><th></th></tr></thead><tbody>`)
	for _, dish := range dishes {
		path := "/admin/api/dishes/" + templ.EscapeString(urlPathSegment(dish.Name))
		h.raw(`<tr><td>`)
		h.text(dish.Name)
		h.raw(`</td><td>`)
		h.text(dish.Category.Label())
		h.raw(`</td><td>`)
		h.text(dish.Price.StringFixed(2))
		h.raw(`</td><td>`)
		h.text(dish.Cost.StringFixed(2))
		h.raw(`</td><td>`)
		h.text(dish.Profit.StringFixed(2))
		h.raw(`</td><td>`)
		h.text(dish.Margin.StringFixed(1))
		h.raw(`%</td><td>`)
		if dish.Available {
			h.raw(`Available`)
		} else if len(dish.Shortages) > 0 {
			h.raw(`Missing: `)
			h.text(strings.Join(dish.Shortages, ", "))
		} else {
			h.raw(`Unavailable`)
		}
		h.raw(`</td><td><button hx-delete="` + path + `" hx-swap="none" hx-confirm="Delete this dish?">Delete</button></td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

func renderOptions(h *htmlWriter, options []string) {
	for _, option := range options {
		h.raw(`<option value="`)
		h.text(option)
		h.raw(`">`)
		h.text(option)
		h.raw(`</option>`)
	}
}

func renderAddIngredientForm(h *htmlWriter) {
	h.raw(`<section><h2 class="text-lg font-semibold">New ingredient</h2>`)
	h.raw(`<form hx-post="/admin/api/ingredients" hx-swap="none" class="grid grid-cols-3 gap-2">`)
	h.raw(`<input name="name" placeholder="Name" required>`)
	h.raw(`<select name="category">`)
	renderOptions(h, models.IngredientCategories)
	h.raw(`</select><select name="unit">`)
	renderOptions(h, models.IngredientUnits)
	h.raw(`</select><input type="number" name="stock" min="0" value="0">`)
	h.raw(`<input type="number" name="minimum" min="1" value="5">`)
	h.raw(`<input name="unit_cost" placeholder="Unit cost">`)
	h.raw(`<button type="submit">Add ingredient</button></form></section>`)
}

func renderAddDishForm(h *htmlWriter, ingredients []models.Ingredient) {
	h.raw(`<section><h2 class="text-lg font-semibold">New dish</h2>`)
	h.raw(`<form hx-post="/admin/api/dishes" hx-encoding="multipart/form-data" hx-swap="none" class="grid gap-2">`)
	h.raw(`<input name="name" placeholder="Name" required>`)
	h.raw(`<input name="price" placeholder="Price" required>`)
	h.raw(`<select name="category">`)
	for _, category := range models.Categories() {
		h.raw(`<option value="`)
		h.text(string(category))
		h.raw(`">`)
		h.text(category.Label())
		h.raw(`</option>`)
	}
	h.raw(`</select><fieldset><legend>Recipe</legend>`)
	for _, ingredient := range ingredients {
		h.raw(`<label class="flex gap-2"><input type="hidden" name="recipe_ingredient" value="`)
		h.text(ingredient.Name)
		h.raw(`"><input type="number" min="0" value="0" name="recipe_quantity">`)
		h.text(ingredient.Name)
		h.raw(`</label>`)
	}
	h.raw(`</fieldset><input type="file" name="image" accept=".jpg,.jpeg,.png" required>`)
	h.raw(`<button type="submit">Add dish</button></form></section>`)
}

func renderRestockForm(h *htmlWriter) {
	h.raw(`<section><h2 class="text-lg font-semibold">Restock from delivery note</h2>`)
	h.raw(`<form hx-post="/admin/api/restock" hx-encoding="multipart/form-data" hx-swap="none">`)
	h.raw(`<input type="file" name="note" accept=".csv,.txt,.pdf" required>`)
	h.raw(`<button type="submit">Import</button></form></section>`)
}
