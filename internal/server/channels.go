package server

import (
	"net/http"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/store"
)

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	req, err := parseList(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	channels, total, err := s.catalog.ListChannels(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newListResponse(models.EntityChannels, nonNil(channels), total))
}

func (s *Server) handleAllChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.catalog.AllChannels(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(channels))
}

func (s *Server) handleCountChannels(w http.ResponseWriter, r *http.Request) {
	n, err := s.catalog.CountChannels(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{"count": n})
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	ch, err := s.catalog.GetChannel(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ch)
}

type createChannelRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req createChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	ch, err := s.catalog.CreateChannel(r.Context(), store.ChannelInput{
		Name:     req.Name,
		IsActive: boolOr(req.IsActive, true),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ch)
}

type updateChannelRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req updateChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	ch, err := s.catalog.UpdateChannel(r.Context(), id, store.ChannelUpdate{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ch)
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	ch, err := s.catalog.DeleteChannel(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ch)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
