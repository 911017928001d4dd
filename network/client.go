package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/imdvls/Pixelknight/shared/messages"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

const (
	inboxSize    = 1024
	readLimit    = 4 << 20 // handshakes carry the whole map
	writeTimeout = 5 * time.Second
)

var ErrNotConnected = errors.New("not connected")

// Client manages the WebSocket connection to the game server, reconnecting
// forever until its context ends. All shared fields are protected by mu; the
// reader goroutine only decodes frames and pushes them to the inbox.
type Client struct {
	url string

	// Tunables, read once by Run.
	ReconnectDelay    time.Duration
	HeartbeatInterval time.Duration

	mu        sync.RWMutex
	state     netconfig.ClientState
	lastError error
	playerID  string
	conn      *websocket.Conn

	inbox chan messages.ServerMessage
}

// NewClient targets address, either host:port or a full ws:// URL.
func NewClient(address string) *Client {
	url := address
	if !strings.Contains(address, "://") {
		url = "ws://" + address + "/ws"
	}
	return &Client{
		url:               url,
		ReconnectDelay:    netconfig.ReconnectDelay,
		HeartbeatInterval: netconfig.HeartbeatInterval,
		state:             netconfig.StateDisconnected,
		inbox:             make(chan messages.ServerMessage, inboxSize),
	}
}

// Run connects and reconnects until ctx is done. Each connection attempt
// follows Connecting, Connected, Disconnected, then a fixed delay.
func (c *Client) Run(ctx context.Context) {
	for {
		err := c.session(ctx)
		c.mu.Lock()
		c.state = netconfig.StateDisconnected
		c.conn = nil
		c.playerID = ""
		if err != nil {
			c.lastError = err
		}
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		log.Printf("[client] disconnected: %v; retrying in %s", err, c.ReconnectDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.ReconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	c.setState(netconfig.StateConnecting)

	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	c.conn = conn
	c.state = netconfig.StateConnected
	c.lastError = nil
	c.mu.Unlock()
	log.Println("[client] connected to server")

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.Send(messages.NewConnect()); err != nil {
		return err
	}
	go c.heartbeat(sessionCtx)

	for {
		_, data, err := conn.Read(sessionCtx)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		msg, err := messages.DecodeServer(data)
		if err != nil {
			log.Printf("[client] dropping frame: %v", err)
			continue
		}
		if hs, ok := msg.(*messages.Handshake); ok {
			c.mu.Lock()
			c.playerID = hs.PlayerID
			c.mu.Unlock()
			log.Printf("[client] joined as %s", hs.PlayerID)
		}
		select {
		case c.inbox <- msg:
		default:
			log.Printf("[client] inbox full, dropping %s", msg.MessageType())
		}
	}
}

func (c *Client) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(c.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Send(messages.NewHeartbeat()); err != nil {
				return
			}
		}
	}
}

// Send writes one message as a text frame.
func (c *Client) Send(m messages.ClientMessage) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := messages.Encode(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("send %s: %w", m.MessageType(), err)
	}
	return nil
}

// Disconnect tells the server we are leaving and closes the socket. Run
// reconnects unless its context is cancelled too.
func (c *Client) Disconnect() {
	_ = c.Send(messages.NewDisconnect())

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

func (c *Client) setState(s netconfig.ClientState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) State() netconfig.ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// PlayerID is the id from the current connection's handshake, or "".
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// Drain returns every message received since the last call, non-blocking.
func (c *Client) Drain() []messages.ServerMessage {
	return drainChan(c.inbox)
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
