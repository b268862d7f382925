package api

import (
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-reach/pkg/archive"
)

func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listArchive(w, r) }).
		Delete(func() { s.requireAuth(s.deleteArchive)(w, r) }).
		NotAllowed()
}

func (s *Server) listArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.respondError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	names, err := s.archive.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "list archive"))
		return
	}

	s.respondJSON(w, http.StatusOK, ArchiveListResponse{Snapshots: names})
}

func (s *Server) deleteArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.respondError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	if err := s.archive.Delete(r.Context(), name); err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "delete snapshot"))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

func (s *Server) handleArchiveSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.archive == nil {
		s.respondError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	var req ArchiveRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req)
	if decoder.RespondError() {
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "missing snapshot name")
		return
	}

	g, ok := s.CurrentGraph()
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrNoGraph.Error())
		return
	}

	if err := s.archive.PutGraph(r.Context(), req.Name, g); err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "save snapshot"))
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"saved": req.Name})
}

func (s *Server) handleArchiveLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.archive == nil {
		s.respondError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	var req ArchiveRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req)
	if decoder.RespondError() {
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "missing snapshot name")
		return
	}

	g, err := s.archive.GetGraph(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "load snapshot"))
		return
	}

	s.setGraph(g, "archive")
	s.respondJSON(w, http.StatusOK, s.Info())
}
