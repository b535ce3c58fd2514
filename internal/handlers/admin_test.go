package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burgerexpress/internal/admin"
	"burgerexpress/models"
)

func multipartRequest(t *testing.T, target string, fields map[string][]string, fileField, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				t.Fatalf("write field %s: %v", name, err)
			}
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func protected(handler http.HandlerFunc) http.HandlerFunc {
	return RequireAdmin(handler).ServeHTTP
}

func TestAdminLoginRendersForm(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, AdminLogin, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `name="password"`) {
		t.Fatalf("expected password field: %s", w.Body.String())
	}
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, AdminLogin, formRequest(http.MethodPost, "/admin/login", "password=nope"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect password.") {
		t.Fatalf("expected error message: %s", w.Body.String())
	}

	w = env.do(t, protected(Reports), httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected reports to stay protected, got %d", w.Code)
	}
}

func TestAdminLoginGrantsAccess(t *testing.T) {
	env := withTestDependencies(t)
	env.signIn(t)

	w := env.do(t, protected(Reports), httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after sign in, got %d", w.Code)
	}

	w = env.do(t, AdminLogin, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Fatalf("expected signed in visitor to be redirected, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestAdminLoginFailsWithoutConfiguredPassword(t *testing.T) {
	env := withTestDependencies(t)
	adminPassword = ""

	w := env.do(t, AdminLogin, formRequest(http.MethodPost, "/admin/login", "password="))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no password is configured, got %d", w.Code)
	}
}

func TestAdminLoginComparesPasswordLiterally(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		submitted  string
		wantStatus int
	}{
		{"trailing space refused", testAdminPassword, testAdminPassword + " ", http.StatusUnauthorized},
		{"leading space refused", testAdminPassword, " " + testAdminPassword, http.StatusUnauthorized},
		{"padded secret matches itself", " secret ", " secret ", http.StatusSeeOther},
		{"padded secret needs its spaces", " secret ", "secret", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			env := withTestDependencies(t)
			adminPassword = tt.configured

			req := formRequest(http.MethodPost, "/admin/login", "password="+url.QueryEscape(tt.submitted))
			if w := env.do(t, AdminLogin, req); w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRequireAdminRedirectsPages(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, protected(AdminDashboard), httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestAdminLogoutKeepsCart(t *testing.T) {
	env := withTestDependencies(t)

	env.do(t, IncrementCartItem, jsonRequest(http.MethodPost, "/api/cart/items/increment", `{"dish":"Classic"}`))
	env.signIn(t)

	w := env.do(t, AdminLogout, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.do(t, protected(Reports), httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
	if resp := decodeCart(t, env.do(t, Cart, httptest.NewRequest(http.MethodGet, "/api/cart", nil))); resp.Count != 1 {
		t.Fatalf("expected cart to survive logout, got %+v", resp)
	}
}

func TestAdminDashboardRendersReport(t *testing.T) {
	env := withTestDependencies(t)
	env.signIn(t)

	w := env.do(t, protected(AdminDashboard), httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, token := range []string{"Stock alerts", "Patty: 1 unit (minimum 3)", "Missing: Bacon"} {
		if !strings.Contains(w.Body.String(), token) {
			t.Fatalf("expected dashboard to contain %q", token)
		}
	}
}

func TestReports(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, Reports, httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil))
	var report admin.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.IngredientCount != 3 || report.DishCount != 3 || report.AlertCount != 2 {
		t.Fatalf("unexpected counters: %+v", report)
	}
}

func TestIngredientsCreateAndList(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, Ingredients, jsonRequest(http.MethodPost, "/admin/api/ingredients", `{"name":"Onion","category":"salads","unit":"unit","stock":12,"unit_cost":"0.40"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Ingredient
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode ingredient: %v", err)
	}
	if created.Minimum != models.DefaultMinimum || created.UnitCost == nil || created.UnitCost.StringFixed(2) != "0.40" {
		t.Fatalf("unexpected ingredient: %+v", created)
	}

	w = env.do(t, Ingredients, formRequest(http.MethodPost, "/admin/api/ingredients", "name=onion&category=salads&unit=unit&stock=1"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate, got %d", w.Code)
	}
	var failure map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode failure: %v", err)
	}
	if failure["field"] != "name" {
		t.Fatalf("expected name field error, got %+v", failure)
	}

	w = env.do(t, Ingredients, formRequest(http.MethodPost, "/admin/api/ingredients", "name=Salt&category=extras&unit=grams&stock=many"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed stock, got %d", w.Code)
	}

	w = env.do(t, Ingredients, httptest.NewRequest(http.MethodGet, "/admin/api/ingredients", nil))
	var listed []models.Ingredient
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 4 || listed[3].Name != "Onion" {
		t.Fatalf("unexpected ingredient list: %+v", listed)
	}
}

func TestIngredientResourceUpdate(t *testing.T) {
	env := withTestDependencies(t)

	req := formRequest(http.MethodPut, "/admin/api/ingredients/Bacon", "stock=20&minimum=4")
	req.Header.Set("HX-Request", "true")
	w := env.do(t, IngredientResource, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("HX-Refresh") != "true" {
		t.Fatal("expected HTMX refresh after update")
	}

	resp := decodeCart(t, env.do(t, IncrementCartItem, jsonRequest(http.MethodPost, "/api/cart/items/increment", `{"dish":"Bacon Burger"}`)))
	if resp.Count != 1 {
		t.Fatalf("expected restocked dish to be orderable, got %+v", resp)
	}

	w = env.do(t, IngredientResource, jsonRequest(http.MethodPut, "/admin/api/ingredients/Ghost", `{"stock":1,"minimum":1}`))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = env.do(t, IngredientResource, jsonRequest(http.MethodPut, "/admin/api/ingredients/Bun", `{"stock":-1,"minimum":1}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	w = env.do(t, IngredientResource, jsonRequest(http.MethodPut, "/admin/api/ingredients/Bun", `{"stock":1}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without minimum, got %d", w.Code)
	}
}

func TestIngredientResourceDelete(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, IngredientResource, httptest.NewRequest(http.MethodDelete, "/admin/api/ingredients/Bun", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var conflict struct {
		Dishes []string `json:"dishes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conflict); err != nil {
		t.Fatalf("decode conflict: %v", err)
	}
	if strings.Join(conflict.Dishes, ",") != "Classic,Bacon Burger" {
		t.Fatalf("unexpected dependents: %v", conflict.Dishes)
	}

	env.do(t, Ingredients, jsonRequest(http.MethodPost, "/admin/api/ingredients", `{"name":"Salt/Pepper","category":"extras","unit":"grams","stock":1}`))
	w = env.do(t, IngredientResource, httptest.NewRequest(http.MethodDelete, "/admin/api/ingredients/Salt%2FPepper", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, IngredientResource, httptest.NewRequest(http.MethodDelete, "/admin/api/ingredients/Ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestIngredientResourceRejectsNestedPaths(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, IngredientResource, httptest.NewRequest(http.MethodDelete, "/admin/api/ingredients/Bun/extra", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	w = env.do(t, IngredientResource, httptest.NewRequest(http.MethodDelete, "/admin/api/ingredients/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty name, got %d", w.Code)
	}
}

func TestDishesCreateWithUpload(t *testing.T) {
	env := withTestDependencies(t)

	req := multipartRequest(t, "/admin/api/dishes", map[string][]string{
		"name":              {"Double Patty"},
		"price":             {"29.90"},
		"category":          {"hamburgers"},
		"recipe_ingredient": {"Bun", "Patty", "Bacon"},
		"recipe_quantity":   {"1", "2", "0"},
	}, "image", "double.PNG", []byte("png-bytes"))
	w := env.do(t, Dishes, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var dish models.Dish
	if err := json.Unmarshal(w.Body.Bytes(), &dish); err != nil {
		t.Fatalf("decode dish: %v", err)
	}
	if dish.Image != "double_patty.png" || len(dish.Recipe) != 2 || dish.Recipe[1].Quantity != 2 {
		t.Fatalf("unexpected dish: %+v", dish)
	}
	if _, err := os.Stat(filepath.Join(env.images.Dir(), "double_patty.png")); err != nil {
		t.Fatalf("expected uploaded image on disk: %v", err)
	}

	overrides := env.repo.StockOverrides(context.Background())
	if override, ok := overrides["Double Patty"]; !ok || override != models.DefaultStockOverride() {
		t.Fatalf("expected default stock override, got %+v", overrides)
	}
}

func TestDishesCreateValidation(t *testing.T) {
	env := withTestDependencies(t)

	tests := []struct {
		name   string
		fields map[string][]string
		file   string
		field  string
	}{
		{
			name:   "missing price",
			fields: map[string][]string{"name": {"Veggie"}, "category": {"hamburgers"}, "recipe_ingredient": {"Bun"}, "recipe_quantity": {"1"}},
			file:   "veggie.jpg",
			field:  "price",
		},
		{
			name:   "malformed price",
			fields: map[string][]string{"name": {"Veggie"}, "price": {"cheap"}, "category": {"hamburgers"}, "recipe_ingredient": {"Bun"}, "recipe_quantity": {"1"}},
			file:   "veggie.jpg",
			field:  "price",
		},
		{
			name:   "empty recipe",
			fields: map[string][]string{"name": {"Veggie"}, "price": {"10"}, "category": {"hamburgers"}, "recipe_ingredient": {"Bun"}, "recipe_quantity": {"0"}},
			file:   "veggie.jpg",
			field:  "recipe",
		},
		{
			name:   "missing image",
			fields: map[string][]string{"name": {"Veggie"}, "price": {"10"}, "category": {"hamburgers"}, "recipe_ingredient": {"Bun"}, "recipe_quantity": {"1"}},
			field:  "image",
		},
		{
			name:   "duplicate name",
			fields: map[string][]string{"name": {"classic"}, "price": {"10"}, "category": {"hamburgers"}, "recipe_ingredient": {"Bun"}, "recipe_quantity": {"1"}},
			file:   "classic.jpg",
			field:  "name",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fileField := ""
			if tt.file != "" {
				fileField = "image"
			}
			w := env.do(t, Dishes, multipartRequest(t, "/admin/api/dishes", tt.fields, fileField, tt.file, []byte("img")))
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}
			var failure map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &failure); err != nil {
				t.Fatalf("decode failure: %v", err)
			}
			if failure["field"] != tt.field {
				t.Fatalf("expected field %q, got %+v", tt.field, failure)
			}
		})
	}

	if dishes := env.repo.Dishes(context.Background()); len(dishes) != 3 {
		t.Fatalf("failed creations must not change dishes, got %d", len(dishes))
	}
}

func TestDishesCreateFromJSON(t *testing.T) {
	env := withTestDependencies(t)

	body := `{"name":"Lemonade","price":9.5,"category":"drinks","recipe":[{"ingredient":"Bun","quantity":1}],"image_name":"lemonade.jpg","image":"aW1n"}`
	w := env.do(t, Dishes, jsonRequest(http.MethodPost, "/admin/api/dishes", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data, err := os.ReadFile(filepath.Join(env.images.Dir(), "lemonade.jpg"))
	if err != nil || string(data) != "img" {
		t.Fatalf("expected decoded image on disk, got %q (%v)", data, err)
	}
}

func TestDishResource(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, DishResource, jsonRequest(http.MethodPut, "/admin/api/dishes/Classic", `{}`))
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 for edit, got %d", w.Code)
	}

	w = env.do(t, DishResource, httptest.NewRequest(http.MethodDelete, "/admin/api/dishes/Bacon%20Burger", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	for _, dish := range env.repo.Dishes(context.Background()) {
		if dish.Name == "Bacon Burger" {
			t.Fatal("expected dish to be removed")
		}
	}

	w = env.do(t, DishResource, httptest.NewRequest(http.MethodDelete, "/admin/api/dishes/Bacon%20Burger", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated delete, got %d", w.Code)
	}
}

func TestRestockFromText(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, Restock, formRequest(http.MethodPost, "/admin/api/restock", "text="+url.QueryEscape("Bacon;10\nTruffle;3\nbroken")))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp restockResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode restock: %v", err)
	}
	if len(resp.Applied) != 1 || resp.Applied[0].Ingredient != "Bacon" || resp.Applied[0].Quantity != 10 {
		t.Fatalf("unexpected applied lines: %+v", resp.Applied)
	}
	if len(resp.Unknown) != 1 || resp.Unknown[0] != "Truffle" {
		t.Fatalf("unexpected unknown lines: %+v", resp.Unknown)
	}
	if len(resp.Rejected) != 1 || resp.Rejected[0].Line != 3 {
		t.Fatalf("unexpected rejected lines: %+v", resp.Rejected)
	}

	for _, ingredient := range env.repo.Ingredients(context.Background()) {
		if ingredient.Name == "Bacon" && ingredient.Stock != 10 {
			t.Fatalf("expected Bacon stock 10, got %d", ingredient.Stock)
		}
	}
}

func TestRestockFromUploadedNote(t *testing.T) {
	env := withTestDependencies(t)

	note := []byte("ingredient,quantity\nbun,5\npatty,4\n")
	w := env.do(t, Restock, multipartRequest(t, "/admin/api/restock", nil, "note", "delivery.csv", note))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stock := map[string]int{}
	for _, ingredient := range env.repo.Ingredients(context.Background()) {
		stock[ingredient.Name] = ingredient.Stock
	}
	if stock["Bun"] != 15 || stock["Patty"] != 5 {
		t.Fatalf("unexpected stock after restock: %+v", stock)
	}
}

func TestRestockRejectsMissingAndUnsupportedNotes(t *testing.T) {
	env := withTestDependencies(t)

	w := env.do(t, Restock, formRequest(http.MethodPost, "/admin/api/restock", "text="))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty note, got %d", w.Code)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="note"; filename="delivery.zip"`)
	header.Set("Content-Type", "application/zip")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("PK")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/api/restock", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w = env.do(t, Restock, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for zip upload, got %d", w.Code)
	}
}
