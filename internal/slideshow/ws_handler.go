package slideshow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/mechanics-site/pkg/http/errors"
	ws "github.com/gokatarajesh/mechanics-site/pkg/http/ws"
)

// WSHandler streams slide changes to viewers and accepts navigation commands.
type WSHandler struct {
	ctrl     *Controller
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewWSHandler subscribes the hub to every rendered change of ctrl.
func NewWSHandler(ctrl *Controller, hub *ws.Hub, upgrader websocket.Upgrader, logger zerolog.Logger) *WSHandler {
	h := &WSHandler{
		ctrl:     ctrl,
		hub:      hub,
		upgrader: upgrader,
		logger:   logger.With().Str("component", "slideshow_ws").Logger(),
	}
	ctrl.Subscribe(h.broadcast)
	return h
}

func (h *WSHandler) broadcast(ch Change) {
	msg, err := ws.NewMessage(ws.TypeSlideChanged, ws.SlideChangedPayload{
		ContainerID: ch.ContainerID,
		Index:       ch.Index,
		Source:      string(ch.Source),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode slide change")
		return
	}
	if err := h.hub.Broadcast(ch.ContainerID, msg); err != nil {
		h.logger.Debug().Err(err).Str("container_id", ch.ContainerID).Msg("slide change not delivered to every viewer")
	}
}

// HandleWebSocket upgrades GET /ws/slideshows and serves the connection until it closes.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.logger)
	clientID := h.hub.Register(client)
	go client.WritePump()

	client.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(clientID, msg)
	})

	h.hub.Unregister(clientID)
}

func (h *WSHandler) handleMessage(clientID uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSubscribe:
		var req ws.SubscribePayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(clientID, httperrors.ErrCodeInvalidPayload, "Invalid subscribe payload")
		}
		h.hub.Subscribe(clientID, req.ContainerIDs)
		return nil
	case ws.TypeSlideCommand:
		var req ws.SlideCommandPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(clientID, httperrors.ErrCodeInvalidPayload, "Invalid slide_command payload")
		}
		idx, err := h.runCommand(req)
		if err != nil {
			return h.sendError(clientID, commandErrorCode(err), err.Error())
		}
		ack, err := ws.NewMessage(ws.TypeCommandAck, ws.CommandAckPayload{ContainerID: req.ContainerID, Action: req.Action, Index: idx})
		if err != nil {
			return err
		}
		ack.RequestID = msg.RequestID
		return h.hub.SendTo(clientID, ack)
	case ws.TypePing:
		return h.hub.SendTo(clientID, ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	default:
		return h.sendError(clientID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

var errUnknownAction = errors.New("unknown slide action")

// runCommand maps a remote command onto the controller.
func (h *WSHandler) runCommand(req ws.SlideCommandPayload) (int, error) {
	switch req.Action {
	case ws.ActionPrev:
		return h.ctrl.Prev(req.ContainerID)
	case ws.ActionNext:
		return h.ctrl.Next(req.ContainerID)
	case ws.ActionShow:
		return h.ctrl.Show(req.ContainerID, req.Index)
	case ws.ActionPlus:
		return h.ctrl.PlusSlides(req.N)
	case ws.ActionCurrent:
		return h.ctrl.CurrentSlide(req.N)
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownAction, req.Action)
	}
}

func commandErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownContainer):
		return httperrors.ErrCodeContainerNotFound
	case errors.Is(err, ErrNoContainers), errors.Is(err, ErrEmptyContainer):
		return httperrors.ErrCodeNoContainers
	case errors.Is(err, ErrContainerFault):
		return httperrors.ErrCodeContainerFault
	default:
		return httperrors.ErrCodeUnknownAction
	}
}

func (h *WSHandler) sendError(clientID uuid.UUID, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return h.hub.SendTo(clientID, msg)
}
