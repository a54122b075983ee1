package server

import (
	"net/http"

	"eduportal/pkg/domain"
)

// /api/chat: POST relays a message, DELETE clears the caller's context.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			UserMessage string `json:"userMessage"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		reply, err := s.app.SendChatMessage(r.Context(), user, req.UserMessage)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	case http.MethodDelete:
		s.app.ClearChat(user)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}
