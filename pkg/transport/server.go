package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-reach/pkg/logging"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// Backend is the surface the transport needs from the server.
type Backend interface {
	// Info describes the currently loaded graph.
	Info() InfoResult

	// Sweep traverses the loaded graph from every vertex.
	Sweep(workers int) (*traverse.SweepResult, error)
}

// Server answers req/rep requests against a Backend.
type Server struct {
	sock    mangos.Socket
	backend Backend
	logger  logging.Logger
	wg      sync.WaitGroup
}

// NewServer listens on addr (any mangos URL, e.g. tcp://127.0.0.1:9090)
// and serves requests until Close.
func NewServer(addr string, backend Backend, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	sock, err := rep.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("create rep socket: %w", err)
	}

	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := &Server{
		sock:    sock,
		backend: backend,
		logger:  logger.With(logging.Component("transport"), logging.Addr(addr)),
	}

	s.wg.Add(1)
	go s.serve()

	s.logger.Info("transport listening")
	return s, nil
}

// Close shuts the socket down and waits for the serve loop to exit.
func (s *Server) Close() error {
	err := s.sock.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	for {
		msg, err := s.sock.Recv()
		if err != nil {
			if !errors.Is(err, mangos.ErrClosed) {
				s.logger.Error("transport receive failed", logging.Error(err))
			}
			return
		}

		resp := s.dispatch(msg)

		out, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("transport marshal failed", logging.Error(err))
			out = []byte(`{"ok":false,"error":"internal error"}`)
		}

		if err := s.sock.Send(out); err != nil {
			if !errors.Is(err, mangos.ErrClosed) {
				s.logger.Error("transport send failed", logging.Error(err))
			}
			return
		}
	}
}

func (s *Server) dispatch(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Response{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	switch req.Op {
	case OpInfo:
		return s.handleInfo()
	case OpSweep:
		return s.handleSweep(req.Payload)
	default:
		return Response{Error: fmt.Sprintf("unknown op %q", req.Op)}
	}
}

func (s *Server) handleInfo() Response {
	return okResponse(s.backend.Info())
}

func (s *Server) handleSweep(payload json.RawMessage) Response {
	var args SweepArgs
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &args); err != nil {
			return Response{Error: fmt.Sprintf("invalid sweep args: %v", err)}
		}
	}

	res, err := s.backend.Sweep(args.Workers)
	if err != nil {
		s.logger.Warn("sweep request failed",
			logging.Workers(args.Workers),
			logging.Error(err))
		return Response{Error: err.Error()}
	}

	s.logger.Info("sweep served",
		logging.RunID(res.RunID),
		logging.Workers(res.Workers),
		logging.VertexCount(len(res.Results)))
	return okResponse(res)
}

func okResponse(result any) Response {
	data, err := json.Marshal(result)
	if err != nil {
		return Response{Error: fmt.Sprintf("marshal result: %v", err)}
	}
	return Response{OK: true, Result: data}
}
