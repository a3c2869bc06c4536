package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cakechase/internal/game"
	"cakechase/internal/viewmodel"
	"cakechase/views/pages"
)

type HomeHandler struct {
	store *game.Store
}

func NewHomeHandler(store *game.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/sessions", h.createSession)
	r.Get("/healthz", h.health)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.HomePage(viewmodel.HomePage{
		Title:    "Cake Chase",
		Sessions: h.store.Len(),
	}))
}

func (h *HomeHandler) createSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession()
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, sess.Snapshot())
		return
	}
	http.Redirect(w, r, "/session/"+sess.ID+"/", http.StatusSeeOther)
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.store.Len(),
	})
}
