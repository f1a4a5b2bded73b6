package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/resale-catalog-service/internal/delivery/http/handler"
	"github.com/user/resale-catalog-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.HandleHealthCheck)

		api.Post("/crawl", h.HandleStartCrawl)
		api.Get("/crawl/{id}", h.HandleGetRun)

		api.Get("/products", h.HandleListProducts)
		api.Get("/products/{id}", h.HandleGetProduct)
		api.Get("/stats", h.HandleStats)

		api.Get("/sizing", h.HandleSizingCharts)
		api.Post("/sizing/recommend", h.HandleRecommendSize)
		api.Get("/sizing/{brand}", h.HandleBrandSizing)
		api.Get("/sizing/{brand}/{category}", h.HandleCategorySizing)

		api.Post("/fit-score", h.HandleFitScore)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
