package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"regi/m/domain"
	"regi/m/internal/analytics"
	"regi/m/internal/cart"
	"regi/m/internal/catalog"
	"regi/m/internal/checkout"
	"regi/m/internal/saleslog"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	register  *checkout.Register
	catalog   *catalog.Catalog
	analytics *analytics.Service
	sales     saleslog.Store
	logger    *zap.Logger
	origins   []string
}

// New constructs a Handler.
func New(register *checkout.Register, cat *catalog.Catalog, sales saleslog.Store, logger *zap.Logger, origins []string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		register:  register,
		catalog:   cat,
		analytics: analytics.NewService(sales),
		sales:     sales,
		logger:    logger,
		origins:   origins,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Get("/products", h.listProducts)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.viewCart)
		r.Post("/items", h.addToCart)
		r.Delete("/items/{id}", h.removeFromCart)
		r.Post("/remove", h.removeByLabel)
	})

	r.Post("/payments", h.submitPayment)

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.viewAllSales)
		r.Get("/summary", h.viewSummary)
		r.Get("/transactions", h.listTransactions)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Products())
}

// Cart handlers

type addToCartRequest struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
}

type removeByLabelRequest struct {
	Label string `json:"label"`
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.register.Cart())
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Product) == "" {
		respondError(w, http.StatusBadRequest, "product is required")
		return
	}
	if !req.Quantity.IsInteger() || !req.Quantity.IsPositive() || req.Quantity.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		respondError(w, http.StatusBadRequest, domain.ErrInvalidQuantity.Error())
		return
	}

	display, err := h.register.AddToCart(req.Product, req.Quantity.IntPart())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, display)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	display, err := h.register.RemoveFromCart(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, display)
}

func (h *Handler) removeByLabel(w http.ResponseWriter, r *http.Request) {
	var req removeByLabelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	display, err := h.register.RemoveFromCartByLabel(req.Label)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, display)
}

// Payment handlers

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type paymentResponse struct {
	TransactionID int64        `json:"transaction_id"`
	Cart          cart.Display `json:"cart"`
	Change        string       `json:"change"`
	Receipt       string       `json:"receipt"`
}

func (h *Handler) submitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.register.Finalize(r.Context(), req.Amount)
	switch {
	case errors.Is(err, domain.ErrInsufficientPayment):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": checkout.InsufficientPaymentMessage,
			"cart":  h.register.Cart(),
		})
		return
	case errors.Is(err, domain.ErrPersistenceFailure):
		h.logger.Error("payment accepted but sale not recorded", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, paymentResponse{
		TransactionID: res.Transaction.ID,
		Cart:          res.Cart,
		Change:        res.Change,
		Receipt:       res.Receipt,
	})
}

// Reports

func (h *Handler) viewSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summarize(r.Context())
	if err != nil {
		h.logger.Error("unable to summarize sales", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to summarize sales")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) viewAllSales(w http.ResponseWriter, r *http.Request) {
	table, err := h.analytics.ListAll(r.Context())
	if err != nil {
		h.logger.Error("unable to list sales", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to list sales")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		body, err := table.HTML()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to render sales")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
		return
	}
	respondJSON(w, http.StatusOK, table)
}

type transactionsResponse struct {
	Available    bool                `json:"available"`
	Transactions []domain.SummaryRow `json:"transactions"`
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	rows, ok, err := h.sales.Summaries(r.Context())
	if err != nil {
		h.logger.Error("unable to list transactions", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to list transactions")
		return
	}
	if rows == nil {
		rows = []domain.SummaryRow{}
	}
	respondJSON(w, http.StatusOK, transactionsResponse{Available: ok, Transactions: rows})
}

// Helpers

const maxQuantity = 1_000_000

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPayment),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSettlementPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
