package httphandler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/niksmo/vip-store/internal/core/port"
)

// RouterDeps are the inbound ports served over HTTP.
type RouterDeps struct {
	Orders      OrdersHandler
	Products    ProductsHandler
	Auth        AuthHandler
	Health      HealthHandler
	Admin       port.Authenticator
	Limiter     port.LoginLimiter // optional
	UploadsDir  string
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	if deps.Admin == nil {
		panic("nil admin authenticator") // develop mistake
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", idempotencyKeyHeader,
		},
		MaxAge: 300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, codeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, codeValidation, "Method not allowed")
	})

	adminOnly := AdminOnly(deps.Admin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)

		r.Route("/auth", func(r chi.Router) {
			login := r.With(AllowJSON)
			if deps.Limiter != nil {
				login = login.With(LoginThrottle(deps.Limiter))
			}
			login.Post("/login", deps.Auth.Login)
			r.With(adminOnly).Get("/verify", deps.Auth.Verify)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", deps.Orders.CreateOrder)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", deps.Orders.ListOrders)
				r.Get("/stats", deps.Orders.OrderStats)
				r.Get("/{id}", deps.Orders.GetOrder)
				r.With(AllowJSON).Put("/{id}", deps.Orders.ChangeOrder)
				r.Delete("/{id}", deps.Orders.DeleteOrder)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.ListProducts)
			r.Get("/category/{category}", deps.Products.ListProductsByCategory)
			r.Get("/{id}", deps.Products.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly, AllowJSON)
				r.Post("/", deps.Products.CreateProduct)
				r.Put("/{id}", deps.Products.UpdateProduct)
				r.Delete("/{id}", deps.Products.DeleteProduct)
			})
		})
	})

	if deps.UploadsDir != "" {
		r.Get("/uploads/{name}", serveUpload(deps.UploadsDir))
	}

	return r
}

func serveUpload(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			writeMessage(w, http.StatusNotFound, codeNotFound, "Not found")
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, name))
	}
}
