package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/graphio"
	"github.com/dd0wney/cluso-reach/pkg/validation"
)

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getGraphInfo(w, r) }).
		Post(func() { s.requireAuth(s.uploadGraph)(w, r) }).
		NotAllowed()
}

func (s *Server) getGraphInfo(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.Info())
}

// uploadGraph reads an adjacency matrix in the text graph format from
// the request body and installs it as the current graph.
func (s *Server) uploadGraph(w http.ResponseWriter, r *http.Request) {
	g, err := graphio.Read(r.Body)
	if err != nil {
		if graphio.IsInvalidFormat(err) || graph.IsInvalidMatrix(err) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "read graph"))
		return
	}

	if err := validation.ValidateGraphSize(g.VertexCount()); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if g.VertexCount() > s.cfg.Sweep.MaxVertices {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("graph exceeds configured limit of %d vertices", s.cfg.Sweep.MaxVertices))
		return
	}

	s.setGraph(g, "upload")
	s.respondJSON(w, http.StatusCreated, s.Info())
}

func (s *Server) handleGraphRandom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.RandomGraphRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateRandomGraph(&req)
	if decoder.RespondError() {
		return
	}
	if req.Vertices > s.cfg.Sweep.MaxVertices {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("graph exceeds configured limit of %d vertices", s.cfg.Sweep.MaxVertices))
		return
	}

	if _, err := s.LoadRandom(req.Vertices, req.Seed); err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "generate graph"))
		return
	}

	s.respondJSON(w, http.StatusCreated, s.Info())
}

func (s *Server) handleGraphMatrix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	g, ok := s.CurrentGraph()
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrNoGraph.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, MatrixResponse{
		Vertices: g.VertexCount(),
		Matrix:   g.Matrix(),
	})
}

func (s *Server) handleGraphNeighbors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	g, ok := s.CurrentGraph()
	if !ok {
		s.respondError(w, http.StatusNotFound, ErrNoGraph.Error())
		return
	}

	vertexStr := r.URL.Query().Get("vertex")
	if vertexStr == "" {
		s.respondError(w, http.StatusBadRequest, "missing vertex parameter")
		return
	}

	vertex, err := strconv.Atoi(vertexStr)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid vertex parameter")
		return
	}

	neighbors, err := g.Neighbors(vertex)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, NeighborsResponse{
		Vertex:    vertex,
		Neighbors: neighbors,
		Degree:    len(neighbors),
	})
}
