// Package transport serves graph info and sweeps over an nng req/rep
// socket, for embedders that speak nanomsg instead of HTTP.
package transport

import (
	"encoding/json"
)

// Operations.
const (
	OpInfo  = "info"
	OpSweep = "sweep"
)

// Request is the wire envelope. Op selects the operation and Payload
// carries its JSON-encoded arguments.
type Request struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the wire reply. Exactly one of Error and Result is set.
type Response struct {
	OK     bool            `json:"ok"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// SweepArgs are the arguments for OpSweep.
type SweepArgs struct {
	Workers int `json:"workers"`
}

// InfoResult is the result of OpInfo.
type InfoResult struct {
	Loaded   bool `json:"loaded"`
	Vertices int  `json:"vertices"`
	Edges    int  `json:"edges"`
}
