package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/orders"
	"github.com/satriastudio/studio-be/internal/routes"
)

// OrdersHandler serves public intake and the admin order list.
type OrdersHandler struct {
	svc          *orders.Service
	requireAdmin func(http.Handler) http.Handler
	limiter      func(http.Handler) http.Handler
}

// NewOrdersHandler constructs the handler. requireAdmin gates the list route
// and limiter wraps public intake.
func NewOrdersHandler(svc *orders.Service, requireAdmin, limiter func(http.Handler) http.Handler) *OrdersHandler {
	return &OrdersHandler{svc: svc, requireAdmin: requireAdmin, limiter: limiter}
}

// Register attaches order routes to the router.
func (h *OrdersHandler) Register(r *mux.Router) {
	r.Handle(routes.Orders, h.requireAdmin(http.HandlerFunc(h.handleList))).Methods(http.MethodGet)
	r.Handle(routes.Orders, h.limiter(http.HandlerFunc(h.handleCreate))).Methods(http.MethodPost)
}

func (h *OrdersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeStorageError(w, r, "list orders", err)
		return
	}
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		out = append(out, o.Order)
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.CodeInvalidPayload, "invalid JSON payload")
		return
	}

	created, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, orders.ErrValidation) {
			msg := strings.TrimPrefix(err.Error(), orders.ErrValidation.Error()+": ")
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, msg)
			return
		}
		writeStorageError(w, r, "create order", err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.CreateOrderResponse{ID: created.ID, CreatedAt: created.CreatedAt})
}
