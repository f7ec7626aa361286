// Package realtime subscribes to live entity updates over a websocket.
//
// The server speaks a small JSON protocol:
//
//	-> {"type":"subscribe","id":"<uuid>","kind":"jobs","filter":{"status":"in-bay"}}
//	-> {"type":"unsubscribe","id":"<uuid>"}
//	<- {"type":"data","id":"<uuid>","items":[...]}
//	<- {"type":"error","id":"<uuid>","message":"..."}
//
// Each data frame carries the full current result set for the subscription.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/logging"
)

// ErrClosed is returned once the connection has gone away.
var ErrClosed = errors.New("realtime: connection closed")

const (
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameData        = "data"
	frameError       = "error"
)

// Filter is a structural filter: every key must equal the item's field.
type Filter map[string]any

// Handler receives the full result set each time it changes.
type Handler func(items []json.RawMessage)

type frame struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Kind    string            `json:"kind,omitempty"`
	Filter  Filter            `json:"filter,omitempty"`
	Items   []json.RawMessage `json:"items,omitempty"`
	Message string            `json:"message,omitempty"`
}

type subscription struct {
	kind    string
	handler Handler
}

// Client multiplexes subscriptions over one websocket connection.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu   sync.Mutex
	subs map[string]subscription

	done      chan struct{}
	closeOnce sync.Once
	err       error
	log       *logrus.Entry
}

// Dial connects to url, authenticating with apiKey when it is set.
func Dial(ctx context.Context, url, apiKey string) (*Client, error) {
	header := http.Header{}
	if apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn: conn,
		subs: make(map[string]subscription),
		done: make(chan struct{}),
		log:  logging.NewLogger("realtime"),
	}
	go c.readLoop()
	return c, nil
}

// Subscribe starts a subscription and returns its id. onData runs on the
// client's reader goroutine and must not block.
func (c *Client) Subscribe(kind string, filter Filter, onData Handler) (string, error) {
	if onData == nil {
		return "", fmt.Errorf("subscribe %s: handler is required", kind)
	}
	id := uuid.NewString()

	c.mu.Lock()
	c.subs[id] = subscription{kind: kind, handler: onData}
	c.mu.Unlock()

	if err := c.write(frame{Type: frameSubscribe, ID: id, Kind: kind, Filter: filter}); err != nil {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		return "", fmt.Errorf("subscribe %s: %w", kind, err)
	}
	c.log.WithFields(logrus.Fields{"id": id, "kind": kind}).Debug("subscribed")
	return id, nil
}

// Unsubscribe stops a subscription. Unknown ids are ignored.
func (c *Client) Unsubscribe(id string) error {
	c.mu.Lock()
	_, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	if err := c.write(frame{Type: frameUnsubscribe, ID: id}); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", id, err)
	}
	return nil
}

// Active returns the number of live subscriptions.
func (c *Client) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended, once Done is closed.
func (c *Client) Err() error {
	<-c.done
	return c.err
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	return nil
}

func (c *Client) write(f frame) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(f)
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		_ = c.conn.Close()
		c.mu.Lock()
		c.subs = make(map[string]subscription)
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Client) readLoop() {
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = ErrClosed
			} else {
				c.log.WithError(err).Warn("realtime connection lost")
			}
			c.shutdown(err)
			return
		}

		switch f.Type {
		case frameData:
			c.mu.Lock()
			sub, ok := c.subs[f.ID]
			c.mu.Unlock()
			if !ok {
				continue
			}
			sub.handler(f.Items)
		case frameError:
			c.log.WithFields(logrus.Fields{"id": f.ID, "message": f.Message}).Warn("subscription error")
		default:
			c.log.WithField("type", f.Type).Debug("ignored frame")
		}
	}
}

// Decode unmarshals each item into T.
func Decode[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
