package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cakechase/internal/game"
	"cakechase/internal/viewmodel"
	"cakechase/views/components"
	"cakechase/views/pages"
)

type SessionHandler struct {
	store   *game.Store
	baseURL string
}

func NewSessionHandler(store *game.Store, baseURL string) *SessionHandler {
	return &SessionHandler{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/session/{id}", func(r chi.Router) {
		// Streams stay open for the life of the page, so only the short
		// request/response routes get a timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(15 * time.Second))
			r.Get("/", h.sessionPage)
			r.Get("/state", h.state)
			r.Post("/move", h.move)
			r.Post("/restart", h.restart)
			r.Delete("/", h.closeSession)
		})
		r.Get("/stream", h.stream)
		r.Get("/ws", h.socket)
	})
}

func (h *SessionHandler) sessionPage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	sess, ok := h.store.GetSession(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	snapshot := sess.Snapshot()
	data := viewmodel.GamePage{
		Title:        "Cake Chase",
		SessionID:    sessionID,
		ShareURL:     h.sessionURL(r, sessionID),
		StreamURL:    "/session/" + sessionID + "/stream",
		SocketURL:    "/session/" + sessionID + "/ws",
		Width:        snapshot.Field.Width,
		Height:       snapshot.Field.Height,
		PlayerSize:   snapshot.Field.PlayerSize,
		EnemySize:    snapshot.Field.EnemySize,
		TargetSize:   snapshot.Field.TargetSize,
		TickMs:       sess.Config.TickInterval.Milliseconds(),
		InitialState: snapshot,
	}
	render(w, r, pages.GamePage(data, scoreboard(snapshot)))
}

func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.store.GetSession(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type moveRequest struct {
	Key string `json:"key"`
}

func (h *SessionHandler) move(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	key, err := readKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Move(sessionID, key); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) restart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := h.store.Restart(sessionID); err != nil {
		writeError(w, r, err)
		return
	}
	if wantsJSON(r) {
		sess, ok := h.store.GetSession(sessionID)
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())
		return
	}
	http.Redirect(w, r, "/session/"+sessionID+"/", http.StatusSeeOther)
}

func (h *SessionHandler) closeSession(w http.ResponseWriter, r *http.Request) {
	if !h.store.Close(chi.URLParam(r, "id")) {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) stream(w http.ResponseWriter, r *http.Request) {
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
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendSnapshot := func() {
		snapshot := sess.Snapshot()
		payload, err := json.Marshal(snapshot)
		if err != nil {
			log.Printf("stream encode error session=%s err=%v", sessionID, err)
			return
		}
		writeSSE(w, "state", string(payload))
		writeSSE(w, "scoreboard", renderToString(r, components.Scoreboard(scoreboard(snapshot))))
		flusher.Flush()
	}

	sendSnapshot()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub:
			if !open {
				writeSSE(w, "closed", sessionID)
				flusher.Flush()
				return
			}
			sendSnapshot()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *SessionHandler) sessionURL(r *http.Request, sessionID string) string {
	if h.baseURL != "" {
		return h.baseURL + "/session/" + sessionID + "/"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/session/" + sessionID + "/"
}

func readKey(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errors.New("invalid json")
		}
		return req.Key, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", errors.New("invalid form")
	}
	return r.FormValue("key"), nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		http.NotFound(w, r)
	case errors.Is(err, game.ErrUnknownKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("session request error path=%s err=%v", r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func scoreboard(snapshot game.Snapshot) viewmodel.Scoreboard {
	status := string(snapshot.Status)
	return viewmodel.Scoreboard{
		SessionID: snapshot.ID,
		Score:     snapshot.Score,
		Status:    status,
		Message:   components.Message(status),
	}
}
