package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/shopspring/decimal"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	screenshotField      = "screenshot"
	multipartMemory      = 1 << 20
)

// POST   /orders           multipart or JSON (201 Created, 200 OK on replay)
// GET    /orders?status=   admin
// GET    /orders/stats     admin
// GET    /orders/{id}      admin
// PUT    /orders/{id}      admin {status?, notes?}
// DELETE /orders/{id}      admin

type OrdersHandler struct {
	creator     port.OrderCreator
	manager     port.OrderManager
	screenshots port.ScreenshotSaver
	maxBody     int64
}

func NewOrdersHandler(
	creator port.OrderCreator,
	manager port.OrderManager,
	screenshots port.ScreenshotSaver,
	maxUploadBytes int64,
) OrdersHandler {
	if creator == nil || manager == nil || screenshots == nil {
		panic("nil order dependency") // develop mistake
	}
	return OrdersHandler{
		creator:     creator,
		manager:     manager,
		screenshots: screenshots,
		maxBody:     maxUploadBytes + multipartMemory,
	}
}

func (h OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.CreateOrder"
	log := slog.With("op", op)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var (
		req   CreateOrderRequest
		saved string
		err   error
	)
	if isMediaType(r, "multipart/form-data") {
		req, saved, err = h.readMultipart(r)
	} else {
		err = decodeJSON(r, &req)
	}
	if err != nil {
		log.Warn("failed to read order", "err", err)
		writeError(w, r, err)
		return
	}

	draft, err := req.toDomain(strings.TrimSpace(r.Header.Get(idempotencyKeyHeader)))
	if err != nil {
		h.discardScreenshot(r, saved)
		writeError(w, r, err)
		return
	}

	order, replayed, err := h.creator.CreateOrder(r.Context(), draft)
	if err != nil {
		h.discardScreenshot(r, saved)
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		if saved != order.PaymentScreenshot {
			h.discardScreenshot(r, saved)
		}
		status = http.StatusOK
	}
	writeJSON(w, status, orderResponse(order))
}

// discardScreenshot removes an upload no stored order refers to.
func (h OrdersHandler) discardScreenshot(r *http.Request, ref string) {
	const op = "OrdersHandler.discardScreenshot"

	if ref == "" {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	if err := h.screenshots.RemoveScreenshot(ctx, ref); err != nil {
		slog.Error("failed to remove unused screenshot", "op", op, "ref", ref, "err", err)
	}
}

// readMultipart also returns the reference of the screenshot it stored, if any.
func (h OrdersHandler) readMultipart(r *http.Request) (CreateOrderRequest, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			return CreateOrderRequest{}, "", domain.NewValidationError(screenshotField, "is too large")
		}
		return CreateOrderRequest{}, "", domain.NewValidationError("", "invalid multipart body")
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("failed to remove multipart temp files", "err", err)
		}
	}()

	req := CreateOrderRequest{
		CustomerName: r.FormValue("customerName"),
		Phone:        r.FormValue("phone"),
		Address:      r.FormValue("address"),
		Notes:        r.FormValue("notes"),
	}

	if items := r.FormValue("items"); items != "" {
		if err := json.Unmarshal([]byte(items), &req.Items); err != nil {
			return CreateOrderRequest{}, "", domain.NewValidationError("items", "must be a JSON array")
		}
	}

	if total := strings.TrimSpace(r.FormValue("total")); total != "" {
		d, err := decimal.NewFromString(total)
		if err != nil {
			return CreateOrderRequest{}, "", domain.NewValidationError("total", "must be a number")
		}
		req.Total = &d
	}

	file, header, err := r.FormFile(screenshotField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			req.PaymentScreenshot = r.FormValue("paymentScreenshot")
			return req, "", nil
		}
		return CreateOrderRequest{}, "", domain.NewValidationError(screenshotField, "is unreadable")
	}
	defer file.Close()

	ref, err := h.screenshots.SaveScreenshot(r.Context(), header.Filename, file)
	if err != nil {
		return CreateOrderRequest{}, "", err
	}
	req.PaymentScreenshot = ref
	return req, ref, nil
}

func (h OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var filter domain.OrderFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := domain.ParseOrderStatus(s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Status = status
	}

	orders, err := h.manager.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse(orders))
}

func (h OrdersHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.manager.OrderStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderStatsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Delivered: stats.Delivered,
		Revenue:   number(stats.Revenue),
	})
}

func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.manager.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse(order))
}

func (h OrdersHandler) ChangeOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.ChangeOrder"

	var req ChangeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	change, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.manager.ChangeOrder(r.Context(), chi.URLParam(r, "id"), change)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if id, ok := identityFrom(r.Context()); ok {
		slog.Info("order changed by admin", "op", op, "orderID", order.ID, "admin", id.Username)
	}
	writeJSON(w, http.StatusOK, orderResponse(order))
}

func (h OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted successfully"})
}
