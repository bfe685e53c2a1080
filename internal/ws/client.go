package ws

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
	"tasklists/internal/logger"
	"tasklists/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize   = 4096
	maxSubscriptions = 32
)

// LiveViews is the part of service.TaskService a connection needs.
type LiveViews interface {
	SubscribeList(ctx context.Context, uid, listID string, onChange service.ListObserver) (service.Unsubscribe, error)
	SubscribeProfile(ctx context.Context, uid string, onChange service.ProfileObserver) (service.Unsubscribe, error)
	Dashboard(ctx context.Context, uid string, now time.Time) (categorize.DashboardView, error)
}

// Client is one WebSocket connection and the live views it subscribed to.
type Client struct {
	UserID  string
	TokenID string
	Conn    *websocket.Conn
	Send    chan []byte

	hub        *Hub
	views      LiveViews
	defaultLoc *time.Location

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[string]service.Unsubscribe
	seq  int

	closeOnce sync.Once
}

func NewClient(userID, tokenID string, conn *websocket.Conn, hub *Hub, views LiveViews, defaultLoc *time.Location) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Client{
		UserID:     userID,
		TokenID:    tokenID,
		Conn:       conn,
		Send:       make(chan []byte, 256),
		hub:        hub,
		views:      views,
		defaultLoc: defaultLoc,
		ctx:        ctx,
		cancel:     cancel,
		subs:       make(map[string]service.Unsubscribe),
	}
}

// Run serves the connection until it closes, then releases every
// subscription.
func (c *Client) Run() {
	c.hub.register(c)
	defer c.hub.unregister(c)

	go c.writePump()
	c.send(simple(MsgReady))

	c.readPump()

	c.Close()
	c.releaseAll()
	logger.Debug("ws: client done", "user_id", c.UserID)
}

// Close stops the connection. Run finishes the cleanup.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.Conn.Close()
	})
}

// read
func (c *Client) readPump() {
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws: read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.sendError("", "malformed message")
			continue
		}
		c.handle(in)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws: write error", "user_id", c.UserID, "error", err)
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Client) send(msg []byte) {
	select {
	case c.Send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *Client) sendError(subID, text string) {
	c.send(encode(errorMsg{Type: MsgError, SubID: subID, Error: text}))
}

func (c *Client) handle(in Inbound) {
	switch in.Type {
	case MsgPing:
		c.send(simple(MsgPong))
	case MsgSubscribeList:
		c.subscribeList(in)
	case MsgSubscribeDashboard:
		c.subscribeDashboard(in)
	case MsgUnsubscribe:
		if !c.release(in.SubID) {
			c.sendError(in.SubID, "unknown subscription")
		}
	default:
		c.sendError("", "unknown message type")
	}
}

func (c *Client) subscribeList(in Inbound) {
	loc, err := categorize.LoadLocation(in.TZ, c.defaultLoc)
	if err != nil {
		c.sendError("", err.Error())
		return
	}
	filter, err := categorize.ParseDateFilter(in.Date, loc)
	if err != nil {
		c.sendError("", err.Error())
		return
	}

	c.subscribe("list", func(subID string, ready <-chan struct{}) (service.Unsubscribe, error) {
		return c.views.SubscribeList(c.ctx, c.UserID, in.ListID, func(l *domain.TaskList) {
			if !c.wait(ready) {
				return
			}
			if l == nil {
				// the service side has already ended; calling its Unsubscribe
				// from here would wait on this callback
				c.forget(subID)
				c.send(encode(listViewMsg{Type: MsgListView, SubID: subID, Deleted: true}))
				return
			}
			now := time.Now().In(loc)
			view := categorize.CategorizeList(l.Tasks, now, filter)
			c.send(encode(listViewMsg{
				Type:   MsgListView,
				SubID:  subID,
				List:   l,
				View:   &view,
				States: categorize.States(l.Tasks, now),
				Date:   filter.String(),
			}))
		})
	})
}

func (c *Client) subscribeDashboard(in Inbound) {
	loc, err := categorize.LoadLocation(in.TZ, c.defaultLoc)
	if err != nil {
		c.sendError("", err.Error())
		return
	}

	c.subscribe("dashboard", func(subID string, ready <-chan struct{}) (service.Unsubscribe, error) {
		return c.views.SubscribeProfile(c.ctx, c.UserID, func(*domain.UserProfile) {
			if !c.wait(ready) {
				return
			}
			view, err := c.views.Dashboard(c.ctx, c.UserID, time.Now().In(loc))
			if err != nil {
				if c.ctx.Err() == nil {
					logger.Warn("ws: dashboard refresh failed", "user_id", c.UserID, "error", err)
				}
				return
			}
			c.send(encode(dashboardMsg{Type: MsgDashboard, SubID: subID, View: view}))
		})
	})
}

// subscribe registers a subscription and announces it before its first
// update goes out.
func (c *Client) subscribe(kind string, start func(subID string, ready <-chan struct{}) (service.Unsubscribe, error)) {
	c.mu.Lock()
	if len(c.subs) >= maxSubscriptions {
		c.mu.Unlock()
		c.sendError("", "too many subscriptions")
		return
	}
	c.seq++
	subID := kind + "-" + strconv.Itoa(c.seq)
	c.mu.Unlock()

	ready := make(chan struct{})
	unsubscribe, err := start(subID, ready)
	if err != nil {
		c.sendError(subID, publicError(err))
		return
	}

	c.mu.Lock()
	c.subs[subID] = unsubscribe
	c.mu.Unlock()

	c.send(encode(subscribedMsg{Type: MsgSubscribed, SubID: subID, Kind: kind}))
	close(ready)
}

func (c *Client) wait(ready <-chan struct{}) bool {
	select {
	case <-ready:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) release(subID string) bool {
	c.mu.Lock()
	unsubscribe, ok := c.subs[subID]
	delete(c.subs, subID)
	c.mu.Unlock()
	if ok {
		unsubscribe()
	}
	return ok
}

// forget drops subID without unsubscribing.
func (c *Client) forget(subID string) {
	c.mu.Lock()
	delete(c.subs, subID)
	c.mu.Unlock()
}

func (c *Client) releaseAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]service.Unsubscribe)
	c.mu.Unlock()

	for _, unsubscribe := range subs {
		unsubscribe()
	}
}

// ActiveSubscriptions returns the number of live subscriptions.
func (c *Client) ActiveSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func publicError(err error) string {
	switch {
	case domain.IsValidation(err):
		return err.Error()
	case isNotFound(err):
		return "list not found"
	case isUnauthenticated(err):
		return "not authenticated"
	default:
		return "internal error"
	}
}
