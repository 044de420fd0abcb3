package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatmate/seatmate/internal/broker"
)

// EventsHandler streams seat change and reset events to browsers over
// Server-Sent Events, fed by the in-process broker.
type EventsHandler struct {
	Broker *broker.Broker
}

// NewEventsHandler constructs an EventsHandler.
func NewEventsHandler(b *broker.Broker) *EventsHandler {
	return &EventsHandler{Broker: b}
}

// Stream handles GET /v1/events.  Each envelope is written as one SSE
// message named after its kind.  The stream ends when the client goes
// away; the subscription is torn down so the broker does not leak.
func (h *EventsHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ch := h.Broker.Subscribe()
	defer h.Broker.Unsubscribe(ch)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-ch:
			if !ok {
				return nil
			}
			data, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", env.Kind, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
