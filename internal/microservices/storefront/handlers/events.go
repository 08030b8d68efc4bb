package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/microservices/storefront/service"
)

const keepAlive = 15 * time.Second

// EventsHandler - SSE-поток смен статуса одного заказа.
type EventsHandler struct {
	orders service.OrderServiceInterface
	hub    *hub.Hub
	lg     *logger.Logger
}

func NewEventsHandler(orders service.OrderServiceInterface, h *hub.Hub, lg *logger.Logger) *EventsHandler {
	return &EventsHandler{orders: orders, hub: h, lg: lg}
}

// Stream sends the current status first, then every change until the
// client disconnects or the order reaches a terminal status.
func (eh *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported", nil)
		return
	}
	id := param(r, "orderId")

	// подписываемся до чтения заказа, чтобы не потерять смену между ними
	events, cancel := eh.hub.Subscribe(id)
	defer cancel()

	order, err := eh.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "not_found", "Order not found", err)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "db_error", "Failed to fetch order", err)
		return
	}

	// поток живёт дольше WriteTimeout сервера
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	history := order.StatusHistory
	current := hub.Event{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.Name,
		Description: order.Status.Description,
		Color:       order.Status.Color,
	}
	if n := len(history); n > 0 {
		current.ChangedBy = history[n-1].ChangedBy
		current.ChangedAt = history[n-1].CreatedAt
	}
	if err := writeEvent(w, current); err != nil {
		return
	}
	flusher.Flush()
	if order.Status.Terminal() {
		return
	}

	eh.lg.Debug("order_stream_opened", map[string]any{"order_id": id, "request_id": RequestID(r.Context())})
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, e); err != nil {
				return
			}
			flusher.Flush()
			if isTerminal(e.Status) {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, e hub.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: status\ndata: %s\n\n", b)
	return err
}

func isTerminal(status string) bool {
	s, ok := dao.StatusByName(status)
	return ok && s.Terminal()
}
