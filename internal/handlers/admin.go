package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"burgerexpress/internal/admin"
	applog "burgerexpress/internal/log"
	"burgerexpress/internal/restock"
	"burgerexpress/internal/views/pages"
)

type restockResponse struct {
	Applied  []restock.Line     `json:"applied"`
	Unknown  []string           `json:"unknown"`
	Rejected []restock.Rejected `json:"rejected"`
	Overflow []restock.Line     `json:"overflow"`
}

func adminReady(w http.ResponseWriter, r *http.Request) bool {
	if adminService == nil {
		applog.Debug(r.Context(), "back office unavailable without records")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

// respondAdminError maps back office failures onto HTTP statuses.
func respondAdminError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *admin.ValidationError
	var dependency *admin.DependencyError
	switch {
	case errors.As(err, &validation):
		applog.Debug(r.Context(), "back office validation failed", "field", validation.Field, "error", validation.Message)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": validation.Message, "field": validation.Field})
	case errors.As(err, &dependency):
		applog.Debug(r.Context(), "ingredient still referenced", "ingredient", dependency.Ingredient, "dishes", dependency.Dishes)
		writeJSON(w, http.StatusConflict, map[string]any{"error": dependency.Error(), "dishes": dependency.Dishes})
	case errors.Is(err, admin.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, admin.ErrEditDishNotImplemented):
		writeJSONError(w, http.StatusNotImplemented, err.Error())
	default:
		applog.Error(r.Context(), "back office operation failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondMutation acknowledges a successful change. HTMX clients reload the
// dashboard so every section reflects the new records.
func respondMutation(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
	}
	writeJSON(w, status, payload)
}

// resourceName extracts the record name following prefix. The escaped
// remainder must be a single segment; it is unescaped so names may contain '/'.
func resourceName(r *http.Request, prefix string) (string, bool) {
	escaped := r.URL.EscapedPath()
	segment := strings.TrimPrefix(escaped, prefix)
	if segment == escaped || strings.Contains(segment, "/") {
		return "", false
	}
	name, err := url.PathUnescape(segment)
	if err != nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// AdminDashboard renders the back office page.
func AdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/admin" && r.URL.Path != "/admin/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !adminReady(w, r) {
		return
	}

	data := pages.AdminDashboardData{
		Report:      adminService.Report(r.Context()),
		Ingredients: adminService.Ingredients(r.Context()),
	}
	applog.Debug(r.Context(), "rendering back office", "ingredients", data.Report.IngredientCount, "dishes", data.Report.DishCount, "alerts", data.Report.AlertCount)
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.AdminDashboardPartial(data))
		return
	}
	renderComponent(w, r, http.StatusOK, pages.AdminDashboard(data))
}

// Reports returns stock alerts and per-dish cost, profit and margin.
func Reports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !adminReady(w, r) {
		return
	}
	report := adminService.Report(r.Context())
	applog.Debug(r.Context(), "report generated", "dishes", report.DishCount, "alerts", report.AlertCount)
	writeJSON(w, http.StatusOK, report)
}

// Restock applies a delivery note. The note is either an uploaded file in the
// "note" field or pasted text in the "text" field.
func Restock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !adminReady(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, restock.MaxUploadSize)
	data, contentType, err := readDeliveryNote(r)
	if err != nil {
		applog.Debug(r.Context(), "failed to read delivery note", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, rejected, err := restock.Parse(data, contentType)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, restock.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		applog.Debug(r.Context(), "failed to parse delivery note", "contentType", contentType, "error", err)
		writeJSONError(w, status, err.Error())
		return
	}

	result, err := adminService.Restock(r.Context(), lines)
	if err != nil {
		respondAdminError(w, r, err)
		return
	}
	if rejected == nil {
		rejected = []restock.Rejected{}
	}
	respondMutation(w, r, http.StatusOK, restockResponse{Applied: result.Applied, Unknown: result.Unknown, Rejected: rejected, Overflow: result.Overflow})
}

func readDeliveryNote(r *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(restock.MaxUploadSize); err != nil {
			return nil, "", errors.New("invalid upload")
		}
		file, header, err := r.FormFile("note")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, "", errors.New("invalid upload")
			}
			contentType := header.Header.Get("Content-Type")
			if contentType == "" || contentType == "application/octet-stream" {
				contentType = restock.MimeTypeFromName(header.Filename)
			}
			return data, contentType, nil
		}
		if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
			return []byte(text), "text/plain", nil
		}
		return nil, "", errors.New("a delivery note is required")
	}

	if err := r.ParseForm(); err != nil {
		return nil, "", errors.New("invalid form submission")
	}
	text := r.PostFormValue("text")
	if strings.TrimSpace(text) == "" {
		return nil, "", errors.New("a delivery note is required")
	}
	return []byte(text), "text/plain", nil
}
