package server

import (
	"net/http"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/service"
	"github.com/voyagen/tvguide/internal/store"
)

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	req, err := parseList(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	programs, total, err := s.catalog.ListPrograms(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newListResponse(models.EntityPrograms, nonNil(programs), total))
}

func (s *Server) handleAllPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.catalog.AllPrograms(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(programs))
}

func (s *Server) handleCountPrograms(w http.ResponseWriter, r *http.Request) {
	n, err := s.catalog.CountPrograms(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{"count": n})
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.catalog.GetProgram(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

type createProgramRequest struct {
	Title       string  `json:"title"`
	Duration    int32   `json:"duration"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	ChannelID   int64   `json:"channelId"`
	TypeID      int64   `json:"typeId"`
	CategoryID  int64   `json:"categoryId"`
	IsActive    *bool   `json:"isActive"`
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req createProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.catalog.CreateProgram(r.Context(), service.NewProgram{
		Title:       req.Title,
		Duration:    req.Duration,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		ChannelID:   req.ChannelID,
		TypeID:      req.TypeID,
		CategoryID:  req.CategoryID,
		IsActive:    boolOr(req.IsActive, true),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

type updateProgramRequest struct {
	Title       *string `json:"title"`
	Duration    *int32  `json:"duration"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	ChannelID   *int64  `json:"channelId"`
	TypeID      *int64  `json:"typeId"`
	CategoryID  *int64  `json:"categoryId"`
	IsActive    *bool   `json:"isActive"`
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req updateProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.catalog.UpdateProgram(r.Context(), id, store.ProgramUpdate{
		Title:       req.Title,
		Duration:    req.Duration,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		ChannelID:   req.ChannelID,
		TypeID:      req.TypeID,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.catalog.DeleteProgram(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}
