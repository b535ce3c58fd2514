package server

import (
	"context"
	"net/http"

	"burgerexpress/internal/handlers"
	"burgerexpress/internal/images"
	applog "burgerexpress/internal/log"
)

func newRouter(imageDir string) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")

	mux.HandleFunc("/api/menu", handlers.Menu)
	mux.HandleFunc("/api/category", handlers.SelectCategory)
	mux.HandleFunc("/api/cart", handlers.Cart)
	mux.HandleFunc("/api/cart/items", handlers.SetCartItem)
	mux.HandleFunc("/api/cart/items/increment", handlers.IncrementCartItem)
	mux.HandleFunc("/api/cart/items/decrement", handlers.DecrementCartItem)
	mux.HandleFunc("/api/orders", handlers.SubmitOrder)
	applog.Debug(context.Background(), "route registered", "path", "/api/", "group", "storefront")

	mux.HandleFunc("/admin/login", handlers.AdminLogin)
	mux.HandleFunc("/admin/logout", handlers.AdminLogout)
	applog.Debug(context.Background(), "route registered", "path", "/admin/login")
	mux.Handle("/admin", handlers.RequireAdmin(http.HandlerFunc(handlers.AdminDashboard)))
	mux.Handle("/admin/", handlers.RequireAdmin(http.HandlerFunc(handlers.AdminDashboard)))
	mux.Handle("/admin/api/ingredients", handlers.RequireAdmin(http.HandlerFunc(handlers.Ingredients)))
	mux.Handle("/admin/api/ingredients/", handlers.RequireAdmin(http.HandlerFunc(handlers.IngredientResource)))
	mux.Handle("/admin/api/dishes", handlers.RequireAdmin(http.HandlerFunc(handlers.Dishes)))
	mux.Handle("/admin/api/dishes/", handlers.RequireAdmin(http.HandlerFunc(handlers.DishResource)))
	mux.Handle("/admin/api/reports", handlers.RequireAdmin(http.HandlerFunc(handlers.Reports)))
	mux.Handle("/admin/api/restock", handlers.RequireAdmin(http.HandlerFunc(handlers.Restock)))
	applog.Debug(context.Background(), "route registered", "path", "/admin", "protected", true)

	mux.HandleFunc("/", handlers.Home)
	applog.Debug(context.Background(), "route registered", "path", "/")
	if imageDir != "" {
		mux.Handle(images.LocalPrefix, http.StripPrefix(images.LocalPrefix, http.FileServer(http.Dir(imageDir))))
		applog.Debug(context.Background(), "route registered", "path", images.LocalPrefix, "static", true, "dir", imageDir)
	}
	return mux
}
