package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"

	"burgerexpress/internal/admin"
	"burgerexpress/internal/images"
	applog "burgerexpress/internal/log"
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Records       admin.Repository
	Images        images.Store
	AdminPassword string
}

var (
	sessionManager *scs.SessionManager
	records        admin.Repository
	imageStore     images.Store
	adminService   *admin.Service
	adminPassword  string
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, deps Dependencies) {
	sessionManager = sm
	records = deps.Records
	imageStore = deps.Images
	adminPassword = deps.AdminPassword
	adminService = nil
	if deps.Records != nil {
		adminService = admin.NewService(deps.Records, deps.Images)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func renderComponent(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func dependenciesReady(w http.ResponseWriter, r *http.Request) bool {
	if sessionManager == nil || records == nil {
		applog.Debug(r.Context(), "handler dependencies unavailable", "hasSession", sessionManager != nil, "hasRecords", records != nil)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}
