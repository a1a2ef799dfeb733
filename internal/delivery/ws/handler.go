package ws

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	domainerrors "ofertas/internal/domain/errors"
	"ofertas/internal/domain/service"
	"ofertas/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Inbound event types.
const (
	EventJoin           = "join"
	EventUpdateLocation = "update-location"
	EventGetAvailable   = "get-available"
)

// Outbound event types.
const (
	EventRoomJoined        = "room-joined"
	EventRoomError         = "room-error"
	EventLocationUpdated   = "location-updated"
	EventLocationConfirmed = "location-confirmed"
	EventLocationError     = "location-error"
	EventAvailableList     = "available-list"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set the Authorization header on WebSocket handshakes,
	// so the token arrives via query parameter and origins are not filtered.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandlerParams holds dependencies for Handler, injected by Fx.
type HandlerParams struct {
	fx.In

	Hub       *Hub
	TokenSvc  service.TokenService
	UserUC    usecase.UserUsecase
	CourierUC usecase.CourierUsecase
	Logger    *slog.Logger
}

// Handler upgrades HTTP requests onto the presence channel and dispatches
// channel events.
type Handler struct {
	hub       *Hub
	tokenSvc  service.TokenService
	userUC    usecase.UserUsecase
	courierUC usecase.CourierUsecase
	logger    *slog.Logger
}

// NewHandler is the constructor for Handler.
func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		hub:       params.Hub,
		tokenSvc:  params.TokenSvc,
		userUC:    params.UserUC,
		courierUC: params.CourierUC,
		logger:    params.Logger,
	}
}

type joinPayload struct {
	CourierID uuid.UUID `json:"mandaditoId"`
}

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type availableQueryPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Serve authenticates the handshake and runs the connection pumps. An
// invalid or unresolvable token rejects the connection before the upgrade;
// every later failure is reported as a named event instead.
func (h *Handler) Serve(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	claims, err := h.tokenSvc.ValidateToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	user, err := h.userUC.Verify(c.Request().Context(), claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn, user)
	h.hub.register <- client

	go client.writePump()
	go client.readPump(h)

	return nil
}

func (h *Handler) dispatch(c *Client, event Event) {
	switch event.Type {
	case EventJoin:
		h.handleJoin(c, event.Payload)
	case EventUpdateLocation:
		h.handleUpdateLocation(c, event.Payload)
	case EventGetAvailable:
		h.handleGetAvailable(c, event.Payload)
	default:
		h.logger.Debug("ws unknown event", slog.String("type", event.Type))
	}
}

func (h *Handler) handleJoin(c *Client, raw json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.CourierID == uuid.Nil {
		c.Emit(EventRoomError, errorPayload{Message: "invalid courier id"})

		return
	}

	// The room target must resolve to a courier; errors keep the
	// connection alive.
	if _, err := h.courierUC.Profile(context.Background(), payload.CourierID); err != nil {
		c.Emit(EventRoomError, errorPayload{Message: "courier not found"})

		return
	}

	h.hub.Subscribe(c, payload.CourierID)
	c.Emit(EventRoomJoined, joinPayload{CourierID: payload.CourierID})
}

func (h *Handler) handleUpdateLocation(c *Client, raw json.RawMessage) {
	var payload locationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.Emit(EventLocationError, errorPayload{Message: "invalid location payload"})

		return
	}

	point, err := h.courierUC.UpdateLocation(context.Background(), usecase.UpdateLocationInput{
		UserID: c.user.ID,
		Lat:    payload.Lat,
		Lng:    payload.Lng,
	})
	if err != nil {
		c.Emit(EventLocationError, errorPayload{Message: errorMessage(err)})

		return
	}

	c.Emit(EventLocationConfirmed, point)
	h.hub.Broadcast(c.user.ID, c, EventLocationUpdated, map[string]any{
		"mandaditoId": c.user.ID,
		"lat":         point.Lat,
		"lng":         point.Lng,
		"updatedAt":   point.UpdatedAt,
	})
}

func (h *Handler) handleGetAvailable(c *Client, raw json.RawMessage) {
	var payload availableQueryPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.Emit(EventLocationError, errorPayload{Message: "invalid query payload"})

			return
		}
	}

	couriers, err := h.courierUC.QueryAvailable(context.Background(), usecase.QueryAvailableInput{
		OriginLat: payload.Lat,
		OriginLng: payload.Lng,
	})
	if err != nil {
		c.Emit(EventLocationError, errorPayload{Message: errorMessage(err)})

		return
	}

	c.Emit(EventAvailableList, couriers)
}

func errorMessage(err error) string {
	var appErr domainerrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message()
	}

	return "internal error"
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return c.QueryParam("token")
}
