package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Services bundles what the router needs from the application layer.
type Services struct {
	Catalog   ProductCatalog
	Inventory KeyInventory
	Purchases Purchaser
	Users     UserRegistrar
	Stats     StatsReader
}

// NewRouter wires the JSON API consumed by the shop front end.
func NewRouter(svcs Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
	r.NotFound(NotFoundHandler().ServeHTTP)

	r.Get("/health", HealthHandler)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", HandleListProducts(svcs.Catalog))
		r.Post("/", HandleCreateProduct(svcs.Catalog))
		r.Get("/{productID}", HandleGetProduct(svcs.Catalog))
		r.Delete("/{productID}", HandleDeleteProduct(svcs.Catalog))
		r.Post("/{productID}/keys", HandleAddKeys(svcs.Inventory))
	})

	r.Post("/purchases", HandlePurchase(svcs.Purchases, logger))
	r.Post("/users", HandleRegisterUser(svcs.Users))
	r.Get("/users/{userID}/purchases", HandlePurchaseHistory(svcs.Purchases))
	r.Get("/admin/stats", HandleStats(svcs.Stats))

	return r
}
