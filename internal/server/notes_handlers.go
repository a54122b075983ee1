package server

import (
	"net/http"
	"strings"

	"eduportal/internal/app"
	"eduportal/pkg/domain"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Subject string `json:"subject"`
}

type notePatchRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Subject *string `json:"subject"`
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		notes, err := s.app.ListNotes(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if notes == nil {
			notes = []domain.Note{}
		}
		writeJSON(w, http.StatusOK, notes)
	case http.MethodPost:
		var req noteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		note, err := s.app.CreateNote(user, app.NoteInput{
			Title:   req.Title,
			Content: req.Content,
			Subject: req.Subject,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	default:
		methodNotAllowed(w)
	}
}

// /api/notes/{id}
func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/notes/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req notePatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		note, err := s.app.UpdateNote(user, id, app.NotePatch{
			Title:   req.Title,
			Content: req.Content,
			Subject: req.Subject,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, note)
	case http.MethodDelete:
		if err := s.app.DeleteNote(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}
