package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"content-hub/internal/page"
)

type episodesPageData struct {
	SessionID string
	View      page.View
}

// ServeEpisodes mounts a fresh page and renders it once both fetches have
// settled. Every call is a full reload.
func (h *Handlers) ServeEpisodes(w http.ResponseWriter, r *http.Request) {
	p := page.New(h.episodes, h.videos, h.logger)

	if raw := r.URL.Query().Get("tab"); raw != "" {
		tab, err := page.ParseTab(raw)
		if err != nil {
			http.Error(w, "Unknown tab", http.StatusBadRequest)
			return
		}
		p.SelectTab(tab)
	}

	if err := p.Mount(r.Context()); err != nil {
		h.logger.WithError(err).Error("Error mounting page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	id := h.sessions.Add(p)

	if err := p.Wait(r.Context()); err != nil && !errors.Is(err, page.ErrUnmounted) {
		h.logger.WithError(err).WithField("session", id).Debug("Client left before page settled")
		return
	}

	h.render(w, id, p)
}

// ServeSession renders the current state of a mounted page, which may still
// be loading.
func (h *Handlers) ServeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	p, err := h.sessions.Get(id)
	if err != nil {
		http.Redirect(w, r, "/episodes", http.StatusSeeOther)
		return
	}
	h.render(w, id, p)
}

// SelectTab switches the tab of a mounted page without fetching anything.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	tab, err := page.ParseTab(r.FormValue("tab"))
	if err != nil {
		http.Error(w, "Unknown tab", http.StatusBadRequest)
		return
	}

	p, err := h.sessions.Get(id)
	if err != nil {
		http.Redirect(w, r, "/episodes?tab="+string(tab), http.StatusSeeOther)
		return
	}
	p.SelectTab(tab)

	http.Redirect(w, r, "/episodes/"+id, http.StatusSeeOther)
}

type sessionViewResponse struct {
	SessionID string    `json:"session_id"`
	View      page.View `json:"view"`
}

// GetSessionView returns the view of a mounted page as JSON.
func (h *Handlers) GetSessionView(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	p, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionViewResponse{
		SessionID: id,
		View:      page.Select(p.Snapshot(), h.cfg.Render),
	})
}

// CloseSession unmounts a page.
func (h *Handlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	if err := h.sessions.Remove(id); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) render(w http.ResponseWriter, id string, p *page.Page) {
	data := episodesPageData{
		SessionID: id,
		View:      page.Select(p.Snapshot(), h.cfg.Render),
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "episodes.html", data); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{"session": id}).Error("Error executing template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}
