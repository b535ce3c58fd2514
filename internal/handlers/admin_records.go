package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"burgerexpress/internal/admin"
	"burgerexpress/internal/restock"
	"burgerexpress/models"
)

const (
	ingredientPathPrefix = "/admin/api/ingredients/"
	dishPathPrefix       = "/admin/api/dishes/"
)

type ingredientRequest struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Unit     string           `json:"unit"`
	Stock    *int             `json:"stock"`
	Minimum  *int             `json:"minimum"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

type dishRequest struct {
	Name      string              `json:"name"`
	Price     *decimal.Decimal    `json:"price"`
	Category  string              `json:"category"`
	Recipe    []models.RecipeLine `json:"recipe"`
	ImageName string              `json:"image_name"`
	Image     []byte              `json:"image"`
}

// fieldError is a malformed request value, reported like a validation failure.
func fieldError(field, message string) error {
	return &admin.ValidationError{Field: field, Message: message}
}

func optionalInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fieldError(field, field+" must be a whole number")
	}
	return &value, nil
}

func readIngredientRequest(r *http.Request) (ingredientRequest, error) {
	var req ingredientRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ingredientRequest{}, fieldError("", "invalid request body")
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return ingredientRequest{}, fieldError("", "invalid form submission")
	}
	req.Name = r.PostFormValue("name")
	req.Category = r.PostFormValue("category")
	req.Unit = r.PostFormValue("unit")

	var err error
	if req.Stock, err = optionalInt("stock", r.PostFormValue("stock")); err != nil {
		return ingredientRequest{}, err
	}
	if req.Minimum, err = optionalInt("minimum", r.PostFormValue("minimum")); err != nil {
		return ingredientRequest{}, err
	}
	if raw := strings.TrimSpace(r.PostFormValue("unit_cost")); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return ingredientRequest{}, fieldError("unit_cost", "unit cost must be a number")
		}
		req.UnitCost = &cost
	}
	return req, nil
}

// Ingredients lists ingredients on GET and creates one on POST.
func Ingredients(w http.ResponseWriter, r *http.Request) {
	if !adminReady(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, adminService.Ingredients(r.Context()))
	case http.MethodPost:
		req, err := readIngredientRequest(r)
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		if req.Stock == nil {
			respondAdminError(w, r, fieldError("stock", "stock is required"))
			return
		}
		ingredient, err := adminService.AddIngredient(r.Context(), admin.IngredientInput{
			Name:     req.Name,
			Category: req.Category,
			Unit:     req.Unit,
			Stock:    *req.Stock,
			Minimum:  req.Minimum,
			UnitCost: req.UnitCost,
		})
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		respondMutation(w, r, http.StatusCreated, ingredient)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// IngredientResource updates the stock and minimum of one ingredient on PUT and
// removes it on DELETE.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	name, ok := resourceName(r, ingredientPathPrefix)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !adminReady(w, r) {
		return
	}

	switch r.Method {
	case http.MethodPut:
		req, err := readIngredientRequest(r)
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		if req.Stock == nil {
			respondAdminError(w, r, fieldError("stock", "stock is required"))
			return
		}
		if req.Minimum == nil {
			respondAdminError(w, r, fieldError("minimum", "minimum is required"))
			return
		}
		ingredient, err := adminService.EditIngredient(r.Context(), name, *req.Stock, *req.Minimum)
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		respondMutation(w, r, http.StatusOK, ingredient)
	case http.MethodDelete:
		if err := adminService.DeleteIngredient(r.Context(), name); err != nil {
			respondAdminError(w, r, err)
			return
		}
		if isHTMX(r) {
			w.Header().Set("HX-Refresh", "true")
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func readDishRequest(r *http.Request) (dishRequest, error) {
	var req dishRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return dishRequest{}, fieldError("", "invalid request body")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(restock.MaxUploadSize); err != nil {
		return dishRequest{}, fieldError("", "invalid upload")
	}
	req.Name = r.PostFormValue("name")
	if raw := strings.TrimSpace(r.PostFormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return dishRequest{}, fieldError("price", fmt.Sprintf("price %q is not a number", raw))
		}
		req.Price = &price
	}
	req.Category = r.PostFormValue("category")

	names := r.PostForm["recipe_ingredient"]
	quantities := r.PostForm["recipe_quantity"]
	if len(names) != len(quantities) {
		return dishRequest{}, fieldError("recipe", "every recipe ingredient needs a quantity")
	}
	for i, name := range names {
		quantity, err := optionalInt("recipe", quantities[i])
		if err != nil {
			return dishRequest{}, err
		}
		// Blank and zero quantities are ingredients left out of the recipe.
		if quantity == nil || *quantity == 0 {
			continue
		}
		req.Recipe = append(req.Recipe, models.RecipeLine{Ingredient: name, Quantity: *quantity})
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil
		}
		return dishRequest{}, fieldError("image", "invalid image upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return dishRequest{}, fieldError("image", "invalid image upload")
	}
	req.ImageName = header.Filename
	req.Image = data
	return req, nil
}

// Dishes lists dishes on GET and creates one on POST. New dishes arrive as a
// multipart form with their photo, or as JSON with a base64 image.
func Dishes(w http.ResponseWriter, r *http.Request) {
	if !adminReady(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, adminService.Dishes(r.Context()))
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, restock.MaxUploadSize)
		req, err := readDishRequest(r)
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		if req.Price == nil {
			respondAdminError(w, r, fieldError("price", "price is required"))
			return
		}
		dish, err := adminService.AddDish(r.Context(), admin.DishInput{
			Name:      req.Name,
			Price:     *req.Price,
			Category:  req.Category,
			Recipe:    req.Recipe,
			ImageName: req.ImageName,
			Image:     req.Image,
		})
		if err != nil {
			respondAdminError(w, r, err)
			return
		}
		respondMutation(w, r, http.StatusCreated, dish)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DishResource removes one dish on DELETE. Editing is not supported.
func DishResource(w http.ResponseWriter, r *http.Request) {
	name, ok := resourceName(r, dishPathPrefix)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !adminReady(w, r) {
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		respondAdminError(w, r, adminService.EditDish(r.Context(), name, admin.DishInput{}))
	case http.MethodDelete:
		if err := adminService.DeleteDish(r.Context(), name); err != nil {
			respondAdminError(w, r, err)
			return
		}
		if isHTMX(r) {
			w.Header().Set("HX-Refresh", "true")
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
