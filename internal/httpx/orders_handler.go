package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	Create(ctx context.Context, userID, product string, price float64) (orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
}

type OrdersHandler struct {
	Svc OrderService
	Log *slog.Logger
}

type CreateOrderReq struct {
	UserID  string  `json:"userId" validate:"required"`
	Product string  `json:"product" validate:"required"`
	Price   float64 `json:"price" validate:"required,gt=0"`
}

type OrderResp struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Product   string    `json:"product"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOrderResp(o orders.Order) OrderResp {
	return OrderResp{
		ID:        o.ID,
		UserID:    o.UserID,
		Product:   o.Product,
		Price:     o.Price,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders/user/{userID}", h.listByUser)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, req.UserID, req.Product, req.Price)
	if err != nil {
		if errors.Is(err, orders.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		// remote-down and store failures both collapse to 500 for the client
		h.Log.Error("create order", "user_id", req.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResp(o))
}

func (h *OrdersHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("list orders", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]OrderResp, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResp(o))
	}
	writeJSON(w, http.StatusOK, out)
}
