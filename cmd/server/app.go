package main

import (
	"net/http"

	"github.com/diewo77/go-parcelles/internal/handlers"
	"github.com/diewo77/go-parcelles/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
}

// NewApp creates the application with all routes configured.
func NewApp(svc *services.ParcelleService) *App {
	app := &App{mux: http.NewServeMux()}
	app.setupRoutes(handlers.NewParcelleHandler(svc))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *App) setupRoutes(ph *handlers.ParcelleHandler) {
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	a.mux.HandleFunc("GET /parcelles", ph.List)
	a.mux.HandleFunc("POST /parcelles", ph.Create)
	a.mux.HandleFunc("DELETE /parcelles/{id}", ph.Delete)
	a.mux.HandleFunc("DELETE /parcelles", ph.Clear)
	a.mux.HandleFunc("POST /parcelles/export", ph.Export)
}
