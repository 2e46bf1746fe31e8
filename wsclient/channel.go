// Package wsclient is a Go client for the correlation protocol spoken by the
// generated TypeScript channels: every request carries a fresh id and an
// operation tag, and the reply echoing that id settles the matching call.
package wsclient

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/logger"
)

// Wire keys shared with the generated TypeScript.
const (
	IDKey        = "id"
	OperationKey = "operation"
	BodyKey      = "body"
)

// ErrClosed settles calls still pending when the connection goes away.
var ErrClosed = errors.New("websocket channel closed")

// Response is the decoded reply envelope.
type Response struct {
	ID   string          `json:"id"`
	OK   bool            `json:"ok"`
	Body json.RawMessage `json:"body,omitempty"`
}

// Channel multiplexes calls over one websocket connection.
type Channel struct {
	conn    *websocket.Conn
	table   *Table
	log     *zap.SugaredLogger
	writeMu sync.Mutex
	done    chan struct{}
	newID   func() string
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger overrides the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Channel) { c.log = log }
}

// WithIDSource replaces uuid v4 correlation ids.
func WithIDSource(next func() string) Option {
	return func(c *Channel) { c.newID = next }
}

// Dial connects to url and starts the read loop.
func Dial(ctx context.Context, url string, header http.Header, opts ...Option) (*Channel, error) {
	d := websocket.Dialer{}
	if deadline, ok := ctx.Deadline(); ok {
		d.HandshakeTimeout = time.Until(deadline)
	}
	conn, _, err := d.DialContext(ctx, url, header)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", url)
	}
	return New(conn, opts...), nil
}

// New wraps an established connection and starts the read loop.
func New(conn *websocket.Conn, opts ...Option) *Channel {
	c := &Channel{
		conn:  conn,
		table: NewTable(),
		log:   logger.ComponentLogger("wsclient"),
		done:  make(chan struct{}),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

// Send registers a call and writes the request. An object body is merged
// into the message unless it has its own "id" or "operation" key; any other
// body is nested under "body". A nil body is omitted. Once the connection is
// gone Send fails with ErrClosed.
func (c *Channel) Send(operation string, body any) (*Call, error) {
	id := c.newID()
	data, err := encodeRequest(id, operation, body)
	if err != nil {
		return nil, err
	}

	call, err := c.table.Register(id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s", operation)
	}

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.table.Fail(id, err)
		return nil, errors.Wrapf(err, "failed to send %s", operation)
	}
	c.log.Debugw("Sent request",
		logger.FieldOperation, operation,
		logger.FieldCorrelationID, id)
	return call, nil
}

// Call sends operation and waits for its reply.
func (c *Channel) Call(ctx context.Context, operation string, body any) (*Response, error) {
	call, err := c.Send(operation, body)
	if err != nil {
		return nil, err
	}
	raw, err := call.Wait(ctx)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to decode reply to %s", operation)
	}
	return &resp, nil
}

// Pending returns the number of calls awaiting a reply.
func (c *Channel) Pending() int { return c.table.Len() }

// Close closes the connection and waits for the read loop to exit.
func (c *Channel) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *Channel) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if n := c.table.Close(errors.Wrap(ErrClosed, err.Error())); n > 0 {
				c.log.Warnw("Connection lost with calls pending",
					logger.FieldCount, n,
					logger.FieldError, err)
			}
			return
		}
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			c.log.Warnw("Discarding undecodable message", logger.FieldError, err)
			continue
		}
		if !c.table.Settle(head.ID, data) {
			c.log.Debugw("Ignoring reply with no pending call",
				logger.FieldCorrelationID, head.ID)
		}
	}
}

func encodeRequest(id, operation string, body any) ([]byte, error) {
	msg := map[string]json.RawMessage{}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s body", operation)
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &msg); err != nil {
				return nil, errors.Wrapf(err, "failed to merge %s body", operation)
			}
			// An object that reuses a correlation key is nested instead.
			_, hasID := msg[IDKey]
			_, hasOperation := msg[OperationKey]
			if hasID || hasOperation {
				msg = map[string]json.RawMessage{BodyKey: trimmed}
			}
		} else if !bytes.Equal(trimmed, []byte("null")) {
			msg[BodyKey] = trimmed
		}
	}

	var err error
	if msg[IDKey], err = json.Marshal(id); err != nil {
		return nil, err
	}
	if msg[OperationKey], err = json.Marshal(operation); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
