package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/resale-catalog-service/internal/delivery/http/request"
	"github.com/user/resale-catalog-service/internal/delivery/http/response"
	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
	"github.com/user/resale-catalog-service/internal/usecase"
)

// Crawl parameter bounds. Requests outside these are clamped, not rejected.
const (
	defaultMaxPages    = 5
	maxMaxPages        = 50
	defaultTargetCount = 50
	maxTargetCount     = 500
)

type Handler struct {
	runManager usecase.RunManager
	catalog    usecase.CatalogQuery
	sizing     usecase.SizingQuery
}

func NewHandler(runManager usecase.RunManager, catalog usecase.CatalogQuery, sizing usecase.SizingQuery) *Handler {
	return &Handler{
		runManager: runManager,
		catalog:    catalog,
		sizing:     sizing,
	}
}

func (h *Handler) HandleStartCrawl(w http.ResponseWriter, r *http.Request) {
	var req request.StartCrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		h.writeJSONError(w, "category is required", http.StatusBadRequest)
		return
	}

	params := usecase.CrawlParams{
		Category:    strings.TrimSpace(req.Category),
		MaxPages:    clamp(req.MaxPages, defaultMaxPages, maxMaxPages),
		TargetCount: clamp(req.TargetCount, defaultTargetCount, maxTargetCount),
	}

	run, err := h.runManager.Start(params)
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Failed to start crawl run", "category", params.Category, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.StartCrawlResponse{
		Status:  "accepted",
		Message: "Crawl run started",
		RunID:   run.ID,
	})
}

func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runManager.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Run not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get crawl run", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromRun(run))
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, total, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.ProductListResponse{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get product", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		slog.Error("Failed to compute catalog stats", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleSizingCharts(w http.ResponseWriter, r *http.Request) {
	chart, err := h.sizing.Chart(r.Context())
	if err != nil {
		slog.Error("Failed to load sizing charts", "error", err)
		h.writeJSONError(w, "Sizing charts unavailable", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, chart)
}

func (h *Handler) HandleBrandSizing(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")
	chart, err := h.sizing.BrandChart(r.Context(), brand)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Sizing chart not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to load brand sizing chart", "brand", brand, "error", err)
		h.writeJSONError(w, "Sizing charts unavailable", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.BrandChartResponse{Brand: brand, Chart: chart})
}

func (h *Handler) HandleCategorySizing(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")
	category := chi.URLParam(r, "category")

	sizes, fitNotes, err := h.sizing.CategoryChart(r.Context(), brand, category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Sizing chart not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to load category sizing chart", "brand", brand, "category", category, "error", err)
		h.writeJSONError(w, "Sizing charts unavailable", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CategoryChartResponse{
		Brand:       brand,
		Category:    category,
		SizingChart: sizes,
		FitNotes:    fitNotes,
	})
}

func (h *Handler) HandleFitScore(w http.ResponseWriter, r *http.Request) {
	var req request.FitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		h.writeJSONError(w, "product_id is required", http.StatusBadRequest)
		return
	}
	if err := req.Measurements.Validate(); err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get product for fit scoring", "product_id", req.ProductID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	preferences := make(map[entity.Category]string, len(req.Preferences))
	for category, pref := range req.Preferences {
		preferences[entity.Category(category)] = pref
	}

	result := usecase.ScoreFit(toUserMeasurements(req.Measurements), preferences, *product)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleRecommendSize(w http.ResponseWriter, r *http.Request) {
	var req request.SizeRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Brand == "" || req.Category == "" {
		h.writeJSONError(w, "brand and category are required", http.StatusBadRequest)
		return
	}
	if err := req.Measurements.Validate(); err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.sizing.RecommendSize(r.Context(), req.Brand, req.Category, toUserMeasurements(req.Measurements))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "No size recommendation available", http.StatusNotFound)
			return
		}
		slog.Error("Failed to recommend size", "brand", req.Brand, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseProductFilter(r *http.Request) (repository.ProductFilter, error) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Condition: q.Get("condition"),
		Size:      q.Get("size"),
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
	}

	if category := q.Get("category"); category != "" {
		c := entity.Category(category)
		if !c.Valid() {
			return filter, errors.New("unknown category")
		}
		filter.Category = c
	}
	if brands := q.Get("brand"); brands != "" {
		for _, b := range strings.Split(brands, ",") {
			if b = strings.TrimSpace(b); b != "" {
				filter.Brands = append(filter.Brands, b)
			}
		}
	}

	var err error
	if filter.MinPrice, err = parseFloatParam(q.Get("min_price")); err != nil {
		return filter, errors.New("invalid min_price")
	}
	if filter.MaxPrice, err = parseFloatParam(q.Get("max_price")); err != nil {
		return filter, errors.New("invalid max_price")
	}

	limit, err := parseIntParam(q.Get("limit"))
	if err != nil {
		return filter, errors.New("invalid limit")
	}
	filter.Limit = limit

	page, err := parseIntParam(q.Get("page"))
	if err != nil || page < 0 {
		return filter, errors.New("invalid page")
	}
	if page > 1 {
		if limit == 0 {
			limit = 24
		}
		filter.Offset = (page - 1) * limit
	}

	return filter, nil
}

func parseFloatParam(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func toUserMeasurements(p request.MeasurementsPayload) usecase.UserMeasurements {
	return usecase.UserMeasurements{
		Bust:   p.Bust,
		Waist:  p.Waist,
		Hips:   p.Hips,
		Height: p.Height,
	}
}

func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
