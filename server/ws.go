package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nstehr/arena-core/model"
)

// wsReply is sent for every inbound text message. Error is set when the
// snapshot was rejected.
type wsReply struct {
	Moves       []model.Move `json:"moves"`
	NoObjective bool         `json:"no_objective,omitempty"`
	Error       string       `json:"error,omitempty"`
}

type WSHandler struct {
	player   Player
	upgrader websocket.Upgrader
}

func NewWSHandler(p Player) *WSHandler {
	return &WSHandler{
		player: p,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades and then answers each snapshot with a moves reply until
// the peer hangs up. A bad snapshot gets an error reply; the session stays
// open.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBody)

	slog.Info("websocket session opened", "remote", r.RemoteAddr)
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed", "error", err)
			}
			slog.Info("websocket session closed", "remote", r.RemoteAddr)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply wsReply
		snap, err := model.DecodeSnapshot(payload)
		if err != nil {
			reply.Error = err.Error()
		} else {
			d := h.player.Play(snap)
			reply.Moves = d.Moves
			reply.NoObjective = d.NoObjective
		}

		if err := conn.WriteJSON(reply); err != nil {
			slog.Warn("websocket write failed", "error", err)
			return
		}
	}
}
