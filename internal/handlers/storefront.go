package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"burgerexpress/internal/cart"
	"burgerexpress/internal/catalog"
	"burgerexpress/internal/inventory"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/session"
	"burgerexpress/internal/views/pages"
	"burgerexpress/models"
)

type dishResponse struct {
	Name      string              `json:"name"`
	Price     decimal.Decimal     `json:"price"`
	Category  models.Category     `json:"category"`
	ImageURL  string              `json:"image_url"`
	Available bool                `json:"available"`
	Blocking  string              `json:"blocking,omitempty"`
	Recipe    []models.RecipeLine `json:"recipe"`
	Quantity  int                 `json:"quantity"`
}

type menuResponse struct {
	Category   models.Category   `json:"category"`
	Categories []models.Category `json:"categories"`
	Dishes     []dishResponse    `json:"dishes"`
}

type cartResponse struct {
	Items []cart.Line     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type orderResponse struct {
	ID      string          `json:"id"`
	Message string          `json:"message"`
	Items   []cart.Line     `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

type cartItemRequest struct {
	Dish     string `json:"dish"`
	Quantity *int   `json:"quantity"`
}

// storefrontSnapshot is the catalog and stock as read for a single request.
type storefrontSnapshot struct {
	catalog   *catalog.Catalog
	ledger    *inventory.Ledger
	overrides models.StockOverrides
}

func loadSnapshot(ctx context.Context) storefrontSnapshot {
	if records == nil {
		return storefrontSnapshot{catalog: catalog.New(nil), ledger: inventory.NewLedger(nil), overrides: models.StockOverrides{}}
	}
	return storefrontSnapshot{
		catalog:   catalog.New(records.Dishes(ctx)),
		ledger:    inventory.NewLedger(records.Ingredients(ctx)),
		overrides: records.StockOverrides(ctx),
	}
}

func (s storefrontSnapshot) availability(dish models.Dish) inventory.Availability {
	return inventory.Resolve(dish, s.ledger, s.overrides)
}

func loadState(r *http.Request) session.State {
	if sessionManager == nil {
		return session.New()
	}
	return session.Load(r.Context(), sessionManager)
}

func saveState(r *http.Request, state session.State) {
	if sessionManager == nil {
		return
	}
	session.Save(r.Context(), sessionManager, state)
}

func imageURL(ref string) string {
	if imageStore == nil || ref == "" {
		return ""
	}
	return imageStore.URL(ref)
}

func buildMenuData(state session.State, snapshot storefrontSnapshot, message string) pages.MenuData {
	data := pages.MenuData{
		Total:   state.Cart.Total(snapshot.catalog).StringFixed(2),
		Count:   state.Cart.Count(),
		Message: message,
	}
	for _, category := range models.Categories() {
		data.Tabs = append(data.Tabs, pages.CategoryTab{Value: category, Label: category.Label(), Active: category == state.Category})
	}
	for _, dish := range snapshot.catalog.ByCategory(state.Category) {
		availability := snapshot.availability(dish)
		item := pages.MenuItem{
			Name:      dish.Name,
			Price:     dish.Price.StringFixed(2),
			ImageURL:  imageURL(dish.Image),
			Available: availability.Available,
			Blocking:  availability.Blocking,
			Quantity:  state.Cart.Quantity(dish.Name),
		}
		for _, line := range dish.Recipe {
			item.Ingredients = append(item.Ingredients, fmt.Sprintf("%dx %s", line.Quantity, line.Ingredient))
		}
		data.Items = append(data.Items, item)
	}
	for _, line := range state.Cart.Lines(snapshot.catalog) {
		data.Cart = append(data.Cart, pages.CartLine{Dish: line.Dish, Quantity: line.Quantity, Subtotal: line.Subtotal.StringFixed(2)})
	}
	return data
}

func newCartResponse(state session.State, snapshot storefrontSnapshot) cartResponse {
	return cartResponse{
		Items: state.Cart.Lines(snapshot.catalog),
		Total: state.Cart.Total(snapshot.catalog),
		Count: state.Cart.Count(),
	}
}

func respondStorefront(w http.ResponseWriter, r *http.Request, state session.State, snapshot storefrontSnapshot) {
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.MenuPartial(buildMenuData(state, snapshot, "")))
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(state, snapshot))
}

// Home renders the storefront menu for the session's category.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := loadState(r)
	snapshot := loadSnapshot(r.Context())
	applog.Debug(r.Context(), "rendering storefront", "category", state.Category, "cartCount", state.Cart.Count(), "htmx", isHTMX(r))

	data := buildMenuData(state, snapshot, "")
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.MenuPartial(data))
		return
	}
	renderComponent(w, r, http.StatusOK, pages.Menu(data))
}

// Menu lists the dishes of a category with their current availability. The
// category query parameter overrides the session's selection for this request.
func Menu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := loadState(r)
	category := state.Category
	if requested := strings.TrimSpace(r.URL.Query().Get("category")); requested != "" {
		if !models.ValidCategory(requested) {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", requested))
			return
		}
		category = models.NormalizeCategory(requested)
	}

	snapshot := loadSnapshot(r.Context())
	response := menuResponse{Category: category, Categories: models.Categories(), Dishes: []dishResponse{}}
	for _, dish := range snapshot.catalog.ByCategory(category) {
		availability := snapshot.availability(dish)
		response.Dishes = append(response.Dishes, dishResponse{
			Name:      dish.Name,
			Price:     dish.Price,
			Category:  dish.Category,
			ImageURL:  imageURL(dish.Image),
			Available: availability.Available,
			Blocking:  availability.Blocking,
			Recipe:    dish.Recipe,
			Quantity:  state.Cart.Quantity(dish.Name),
		})
	}
	applog.Debug(r.Context(), "menu listed", "category", category, "dishes", len(response.Dishes))
	writeJSON(w, http.StatusOK, response)
}

// SelectCategory stores the menu category shown to the session.
func SelectCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !dependenciesReady(w, r) {
		return
	}

	var requested string
	if isJSON(r) {
		var body struct {
			Category string `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		requested = body.Category
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form submission")
			return
		}
		requested = r.PostFormValue("category")
	}
	if !models.ValidCategory(requested) {
		applog.Debug(r.Context(), "unknown category requested", "category", requested)
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", requested))
		return
	}

	state := loadState(r)
	state.Category = models.NormalizeCategory(requested)
	saveState(r, state)
	applog.Debug(r.Context(), "category selected", "category", state.Category)

	snapshot := loadSnapshot(r.Context())
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.MenuPartial(buildMenuData(state, snapshot, "")))
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Category{"category": state.Category})
}

// Cart returns the session cart on GET and empties it on DELETE.
func Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		state := loadState(r)
		writeJSON(w, http.StatusOK, newCartResponse(state, loadSnapshot(r.Context())))
	case http.MethodDelete:
		if !dependenciesReady(w, r) {
			return
		}
		state := loadState(r)
		state.Cart.Clear()
		saveState(r, state)
		applog.Debug(r.Context(), "cart cleared")
		respondStorefront(w, r, state, loadSnapshot(r.Context()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func readCartItemRequest(r *http.Request) (cartItemRequest, error) {
	var req cartItemRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return cartItemRequest{}, errors.New("invalid request body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return cartItemRequest{}, errors.New("invalid form submission")
		}
		req.Dish = r.PostFormValue("dish")
		if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
			quantity, err := strconv.Atoi(raw)
			if err != nil {
				return cartItemRequest{}, errors.New("quantity must be a whole number")
			}
			req.Quantity = &quantity
		}
	}
	req.Dish = strings.TrimSpace(req.Dish)
	if req.Dish == "" {
		return cartItemRequest{}, errors.New("dish is required")
	}
	return req, nil
}

// changeCartItem applies a quantity change after checking the dish. Raising the
// quantity of a dish that cannot currently be made is refused; lowering is
// always allowed, even for dishes no longer on the menu.
func changeCartItem(w http.ResponseWriter, r *http.Request, target func(current int, req cartItemRequest) (int, error)) {
	if !dependenciesReady(w, r) {
		return
	}
	req, err := readCartItemRequest(r)
	if err != nil {
		applog.Debug(r.Context(), "invalid cart request", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := loadState(r)
	snapshot := loadSnapshot(r.Context())
	current := state.Cart.Quantity(req.Dish)
	next, err := target(current, req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if next > cart.MaxQuantity {
		applog.Debug(r.Context(), "cart quantity over limit", "dish", req.Dish, "quantity", next)
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("quantity may not exceed %d", cart.MaxQuantity))
		return
	}

	if next > current {
		dish, ok := snapshot.catalog.FindByName(req.Dish)
		if !ok {
			applog.Debug(r.Context(), "cart increase for unknown dish", "dish", req.Dish)
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("dish %q is not on the menu", req.Dish))
			return
		}
		if availability := snapshot.availability(dish); !availability.Available {
			applog.Debug(r.Context(), "cart increase refused for unavailable dish", "dish", dish.Name, "blocking", availability.Blocking)
			message := fmt.Sprintf("%s is unavailable", dish.Name)
			if availability.Blocking != "" {
				message += ": out of " + availability.Blocking
			}
			writeJSONError(w, http.StatusConflict, message)
			return
		}
	}

	state.Cart.SetQuantity(req.Dish, next)
	saveState(r, state)
	applog.Debug(r.Context(), "cart updated", "dish", req.Dish, "from", current, "to", next)
	respondStorefront(w, r, state, snapshot)
}

// SetCartItem overwrites the quantity of a dish; zero or less removes it.
func SetCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	changeCartItem(w, r, func(_ int, req cartItemRequest) (int, error) {
		if req.Quantity == nil {
			return 0, errors.New("quantity is required")
		}
		return *req.Quantity, nil
	})
}

// IncrementCartItem adds one unit of a dish.
func IncrementCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	changeCartItem(w, r, func(current int, _ cartItemRequest) (int, error) {
		return current + 1, nil
	})
}

// DecrementCartItem removes one unit of a dish.
func DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	changeCartItem(w, r, func(current int, _ cartItemRequest) (int, error) {
		return current - 1, nil
	})
}

// SubmitOrder confirms the cart as an order and empties it. Stock is not
// consumed; fulfilment happens outside this service.
func SubmitOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !dependenciesReady(w, r) {
		return
	}

	state := loadState(r)
	if state.Cart.IsEmpty() {
		applog.Debug(r.Context(), "order submitted with empty cart")
		writeJSONError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	snapshot := loadSnapshot(r.Context())
	response := orderResponse{
		ID:      uuid.NewString(),
		Message: pages.OrderConfirmation,
		Items:   state.Cart.Lines(snapshot.catalog),
		Total:   state.Cart.Total(snapshot.catalog),
	}

	state.Cart.Clear()
	saveState(r, state)
	applog.Info(r.Context(), "order submitted", "order", response.ID, "items", len(response.Items), "total", response.Total.StringFixed(2))

	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.MenuPartial(buildMenuData(state, snapshot, response.Message)))
		return
	}
	writeJSON(w, http.StatusCreated, response)
}
