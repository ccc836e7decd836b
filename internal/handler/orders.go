package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/payment"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/review"
	"github.com/iliyamo/cinema-ticketing/internal/service"
)

// OrderHandler serves the active user's orders.
type OrderHandler struct {
	Users  *repository.UserStore
	Events service.Publisher
	Log    *zap.Logger
	Now    func() time.Time
}

type reviewReq struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type orderView struct {
	model.Order
	Total       float64 `json:"total"`
	RatingLabel string  `json:"rating_label,omitempty"`
}

func newOrderView(o model.Order) orderView {
	v := orderView{Order: o, Total: o.Total()}
	if o.Rating != nil {
		v.RatingLabel = model.RatingLabel(*o.Rating)
	}
	return v
}

// List handles GET /v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
	u, err := h.Users.ActiveUser(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	out := make([]orderView, len(u.Orders))
	for i, o := range u.Orders {
		out[i] = newOrderView(o)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	o, err := h.Users.Order(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newOrderView(o))
}

// Cancel handles POST /v1/orders/:id/cancel.  Canceling an already
// canceled order succeeds without emitting another event.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx := c.Request().Context()
	// Read the status first so a repeated cancel emits no event.
	before, err := h.Users.Order(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	o, err := h.Users.SetOrderStatus(ctx, id, model.OrderStatusCanceled)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if before.Status != model.OrderStatusCanceled {
		h.publish(ctx, c, queue.OrderCanceled, o)
	}
	return c.JSON(http.StatusOK, newOrderView(o))
}

// Pay handles POST /v1/orders/:id/pay.  The card is validated; the order
// keeps status ordered.
func (h *OrderHandler) Pay(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var card payment.Card
	if err := c.Bind(&card); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	o, err := h.Users.Order(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if o.Status == model.OrderStatusCanceled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is canceled"})
	}
	if err := payment.Validate(card, h.now()); err != nil {
		return fail(c, h.Log, err)
	}
	h.publish(ctx, c, queue.OrderPaid, o)
	return c.JSON(http.StatusOK, echo.Map{"paid": true, "order": newOrderView(o)})
}

// Review handles POST /v1/orders/:id/review.
func (h *OrderHandler) Review(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	o, err := h.Users.Order(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}

	// The workflow trims the text, requires a rating and refreshes o
	// from the stored order.
	w := review.NewWorkflow(h.Users)
	w.Open(&o)
	if err := w.Submit(ctx, req.Rating, req.Review); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newOrderView(o))
}

func (h *OrderHandler) publish(ctx context.Context, c echo.Context, t queue.EventType, o model.Order) {
	if h.Events == nil {
		return
	}
	email, _ := h.Users.ActiveEmail(ctx)
	if err := h.Events.Publish(ctx, queue.NewOrderEvent(t, email, o, h.now())); err != nil {
		h.Log.Warn("publish order event failed",
			zap.String("type", string(t)),
			zap.Int64("order_id", o.ID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
}

func (h *OrderHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
