package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	applog "burgerexpress/internal/log"
	"burgerexpress/internal/views/pages"
)

const incorrectPasswordMessage = "Incorrect password."

// AdminAuthenticated reports whether the request carries a signed-in back office session.
func AdminAuthenticated(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return loadState(r).Admin
}

func passwordMatches(candidate string) bool {
	if adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(adminPassword)) == 1
}

// AdminLogin renders the password form and signs the session in on a correct password.
func AdminLogin(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling admin login request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if AdminAuthenticated(r) {
			applog.Debug(r.Context(), "admin session active, redirecting to dashboard")
			redirect(w, r, "/admin")
			return
		}
		renderAdminLogin(w, r, http.StatusOK, "")
	case http.MethodPost:
		if sessionManager == nil {
			applog.Debug(r.Context(), "admin login unavailable without session manager")
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse admin login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		password := r.PostFormValue("password")
		if !passwordMatches(password) {
			applog.Warn(r.Context(), "admin login rejected", "remote", r.RemoteAddr)
			renderAdminLogin(w, r, http.StatusUnauthorized, incorrectPasswordMessage)
			return
		}

		if err := sessionManager.RenewToken(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to renew session token", "error", err)
			http.Error(w, "unable to sign in", http.StatusInternalServerError)
			return
		}
		state := loadState(r)
		state.Admin = true
		saveState(r, state)
		applog.Info(r.Context(), "admin signed in", "remote", r.RemoteAddr)
		redirect(w, r, "/admin")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderAdminLogin(w http.ResponseWriter, r *http.Request, status int, message string) {
	if isHTMX(r) {
		renderComponent(w, r, status, pages.AdminLoginPartial(message))
		return
	}
	renderComponent(w, r, status, pages.AdminLogin(message))
}

// AdminLogout clears the back office flag while keeping the storefront cart.
func AdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager != nil {
		state := loadState(r)
		state.Admin = false
		saveState(r, state)
		if err := sessionManager.RenewToken(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to renew session token on logout", "error", err)
		}
	}
	applog.Info(r.Context(), "admin signed out")
	redirect(w, r, "/admin/login")
}

// RequireAdmin guards back office routes. API requests receive a JSON 401 and
// pages are redirected to the login form.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if AdminAuthenticated(r) {
			next.ServeHTTP(w, r)
			return
		}
		applog.Debug(r.Context(), "admin access denied", "path", r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/admin/api/") {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		redirect(w, r, "/admin/login")
	})
}
