package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"cakechase/internal/game"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = 25 * time.Second
	socketReadLimit  = 4 << 10
)

// Message types on the websocket channel.
const (
	MsgKey     = "key"
	MsgRestart = "restart"
	MsgState   = "state"
	MsgError   = "error"
	MsgClosed  = "closed"
)

// ClientMessage is sent by the browser: a key press or a restart request.
type ClientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type  string         `json:"type"`
	State *game.Snapshot `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are left to the CORS configuration of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *SessionHandler) socket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	sess, ok := h.store.GetSession(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	hub, ok := h.store.Broadcaster(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("socket upgrade error session=%s err=%v", sessionID, err)
		return
	}
	defer conn.Close()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// Only this goroutine writes to conn; the reader hands replies over.
	replies := make(chan ServerMessage, 4)
	done := make(chan struct{})
	go h.readSocket(conn, sessionID, replies, done)

	send := func(msg ServerMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		return conn.WriteJSON(msg)
	}
	sendState := func() error {
		snapshot := sess.Snapshot()
		return send(ServerMessage{Type: MsgState, State: &snapshot})
	}

	if err := sendState(); err != nil {
		return
	}

	ping := time.NewTicker(socketPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-replies:
			if err := send(msg); err != nil {
				return
			}
		case _, open := <-sub:
			if !open {
				_ = send(ServerMessage{Type: MsgClosed})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(socketWriteWait))
				return
			}
			if err := sendState(); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *SessionHandler) readSocket(conn *websocket.Conn, sessionID string, replies chan<- ServerMessage, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(socketReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("socket read error session=%s err=%v", sessionID, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply(replies, ServerMessage{Type: MsgError, Error: "invalid message"})
			continue
		}
		if err := h.handleClientMessage(sessionID, msg); err != nil {
			if errors.Is(err, game.ErrUnknownKey) {
				// Keys outside the four directions are ignored.
				continue
			}
			reply(replies, ServerMessage{Type: MsgError, Error: err.Error()})
		}
	}
}

func (h *SessionHandler) handleClientMessage(sessionID string, msg ClientMessage) error {
	switch msg.Type {
	case MsgKey:
		return h.store.Move(sessionID, msg.Key)
	case MsgRestart:
		return h.store.Restart(sessionID)
	default:
		return errors.New("unknown message type")
	}
}

func reply(replies chan<- ServerMessage, msg ServerMessage) {
	select {
	case replies <- msg:
	default:
	}
}
