package server

import (
	"net/http"
	"strings"

	"eduportal/internal/app"
	"eduportal/pkg/domain"
)

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Color       string `json:"color"`
}

type eventPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Color       *string `json:"color"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		events, err := s.app.ListEvents(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if events == nil {
			events = []domain.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	case http.MethodPost:
		var req eventRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		event, err := s.app.CreateEvent(user, app.EventInput{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Category:    req.Category,
			Priority:    req.Priority,
			Status:      req.Status,
			Color:       req.Color,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	default:
		methodNotAllowed(w)
	}
}

// /api/events/{id}
func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req eventPatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		event, err := s.app.UpdateEvent(user, id, app.EventPatch{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Category:    req.Category,
			Priority:    req.Priority,
			Status:      req.Status,
			Color:       req.Color,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	case http.MethodDelete:
		if err := s.app.DeleteEvent(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}
