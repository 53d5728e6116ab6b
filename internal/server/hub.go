package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

// Client is one websocket connection. It is bound to at most one lobby seat
// and at most one game seat at a time.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	lobbyID  string
	memberID string
	gameID   string
	playerID string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

func (c *Client) lobby() (lobbyID, memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbyID, c.memberID
}

func (c *Client) setLobby(lobbyID, memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobbyID, c.memberID = lobbyID, memberID
}

func (c *Client) seat() (gameID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID, c.playerID
}

func (c *Client) setSeat(gameID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID, c.playerID = gameID, playerID
}

// Hub tracks connections, the rooms they listen to and which connection
// holds each game seat.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	seats      map[string]map[string]*Client // game id -> player id -> connection
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	// gone is told about every connection the hub drops.
	gone   func(*Client)
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewHub creates a hub. Run must be started before clients register.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		seats:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("conn_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				h.dropLocked(client)
			}
			h.mu.Unlock()
			if ok {
				h.logger.Debug("client unregistered", zap.String("conn_id", client.id))
				if h.gone != nil {
					h.gone(client)
				}
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				h.dropLocked(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection's send queue and ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) dropLocked(c *Client) {
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
}

// Join adds c to room.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
}

// Leave removes c from room.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize returns the number of connections listening to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Members returns the connections listening to room.
func (h *Hub) Members(room string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		out = append(out, c)
	}
	return out
}

// Bind gives playerID's seat in gameID to c. The previous holder of the seat
// loses its binding and stops receiving the game's broadcasts.
func (h *Hub) Bind(gameID, playerID string, c *Client) (previous *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seats, ok := h.seats[gameID]
	if !ok {
		seats = make(map[string]*Client)
		h.seats[gameID] = seats
	}
	previous = seats[playerID]
	if previous == c {
		previous = nil
	}
	if previous != nil {
		if members, ok := h.rooms[gameID]; ok {
			delete(members, previous)
		}
		previous.setSeat("", "")
	}
	seats[playerID] = c
	c.setSeat(gameID, playerID)
	if h.clients[c] {
		members, ok := h.rooms[gameID]
		if !ok {
			members = make(map[*Client]bool)
			h.rooms[gameID] = members
		}
		members[c] = true
	}
	return previous
}

// Unbind releases c's game seat if it still holds it.
func (h *Hub) Unbind(c *Client) {
	gameID, playerID := c.seat()
	if gameID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if seats, ok := h.seats[gameID]; ok && seats[playerID] == c {
		delete(seats, playerID)
		if len(seats) == 0 {
			delete(h.seats, gameID)
		}
	}
	if members, ok := h.rooms[gameID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, gameID)
		}
	}
	c.setSeat("", "")
}

// Holder returns the connection holding playerID's seat in gameID.
func (h *Hub) Holder(gameID, playerID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.seats[gameID][playerID]
	return c, ok
}

// Broadcast queues msg for every connection in room. Slow connections whose
// queue is full miss the message.
func (h *Hub) Broadcast(room string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping message for slow client",
				zap.String("conn_id", c.id),
				zap.String("room", room),
			)
		}
	}
}

// Send queues msg for c alone.
func (h *Hub) Send(c *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("dropping message for slow client", zap.String("conn_id", c.id))
	}
}

func (c *Client) readPump(h *Hub, handle func(*Client, []byte)) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}
		handle(c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
