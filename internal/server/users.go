package server

import (
	"errors"
	"net/http"

	"github.com/voyagen/tvguide/internal/auth"
	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/service"
)

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.catalog.CreateUser(r.Context(), service.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, u)
}

type listUsersResponse struct {
	Users []models.User `json:"users"`
	Count int           `json:"count"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.catalog.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	users = nonNil(users)
	writeJSON(w, r, http.StatusOK, listUsersResponse{Users: users, Count: len(users)})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.catalog.GetUser(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

// updateUserRequest: a missing or empty password keeps the stored one.
type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"isAdmin"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.catalog.UpdateUser(r.Context(), id, service.UserChanges{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.catalog.DeleteUser(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	writeNoContent(w)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.catalog.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, r, http.StatusUnauthorized, loginResponse{Success: false})
			return
		}
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, loginResponse{Success: true, User: u})
}
