package server

import (
	"errors"
	"net/http"
	"strings"

	"eduportal/internal/app"
	"eduportal/pkg/domain"
)

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		resources, err := s.app.ListResources(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if resources == nil {
			resources = []domain.Resource{}
		}
		writeJSON(w, http.StatusOK, resources)
	case http.MethodPost:
		s.handleUploadResource(w, r, user)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUploadResource(w http.ResponseWriter, r *http.Request, user domain.User) {
	if max := s.app.MaxUploadBytes(); max > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, max)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeAppError(w, app.ErrUploadTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	title := r.FormValue("title")
	resource, err := s.app.UploadResource(r.Context(), user, title, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resource)
}

// /api/library/{id} or /api/library/{id}/download
func (s *Server) handleLibraryByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/library/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if len(parts) == 2 {
		if parts[1] != "download" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		url, err := s.app.ResourceDownloadURL(r.Context(), user, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}
	switch r.Method {
	case http.MethodDelete:
		if err := s.app.DeleteResource(r.Context(), user, id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}
