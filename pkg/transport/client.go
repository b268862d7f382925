package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"

	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// ErrRemote wraps errors reported by the server.
var ErrRemote = errors.New("remote error")

// Client is a req/rep client for a transport Server.
type Client struct {
	sock mangos.Socket
}

// Dial connects to a transport server. The timeout bounds every send
// and receive on the socket.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("create req socket: %w", err)
	}

	if err := sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.SetOption(mangos.OptionSendDeadline, timeout); err != nil {
		sock.Close()
		return nil, err
	}

	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{sock: sock}, nil
}

// Close closes the underlying socket.
func (c *Client) Close() error {
	return c.sock.Close()
}

// Info fetches a description of the loaded graph.
func (c *Client) Info() (*InfoResult, error) {
	raw, err := c.roundTrip(OpInfo, nil)
	if err != nil {
		return nil, err
	}

	var info InfoResult
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode info result: %w", err)
	}
	return &info, nil
}

// Sweep runs a full-graph traversal on the server.
func (c *Client) Sweep(workers int) (*traverse.SweepResult, error) {
	raw, err := c.roundTrip(OpSweep, SweepArgs{Workers: workers})
	if err != nil {
		return nil, err
	}

	var res traverse.SweepResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode sweep result: %w", err)
	}
	return &res, nil
}

func (c *Client) roundTrip(op string, args any) (json.RawMessage, error) {
	request := Request{Op: op}

	if args != nil {
		payload, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal %s args: %w", op, err)
		}
		request.Payload = payload
	}

	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if err := c.sock.Send(data); err != nil {
		return nil, fmt.Errorf("send %s: %w", op, err)
	}

	reply, err := c.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("receive %s reply: %w", op, err)
	}

	var resp Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", op, err)
	}

	if !resp.OK {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}

	return resp.Result, nil
}
