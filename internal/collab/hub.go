package collab

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/b-hayes/room-planner-sub000/internal/engine"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
	"github.com/b-hayes/room-planner-sub000/internal/typeid"
)

// GridFactory builds the Grid behind a new session.
type GridFactory func() (*engine.Grid, error)

// Room is one shared editing session. Every Grid call happens under mu, so
// the engine sees one event at a time no matter how many clients send.
type Room struct {
	sessionID string
	clients   map[string]*Client // clientID -> client, guarded by Hub.mu
	presence  *PresenceManager

	mu     sync.Mutex
	grid   *engine.Grid
	seq    int64
	handle engine.CallbackHandle
}

func NewRoom(sessionID string, grid *engine.Grid) *Room {
	return &Room{
		sessionID: sessionID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		grid:      grid,
	}
}

func (r *Room) frame() (engine.Frame, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grid.Frame(), r.seq
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sessionID -> room
	newGrid    GridFactory
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewHub(newGrid GridFactory) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		newGrid:    newGrid,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			return
		}
	}
}

// Stop ends Run, disconnects every client and releases the session grids.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, room := range h.rooms {
			room.handle.Remove()
			room.grid.Close()
			for _, c := range room.clients {
				close(c.send)
			}
			delete(h.rooms, id)
		}
		slog.Info("hub stopped")
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
		h.removeClient(client)
	}
}

// Open creates an empty session and returns its id.
func (h *Hub) Open() (string, error) {
	grid, err := h.newGrid()
	if err != nil {
		return "", fmt.Errorf("create grid: %w", err)
	}
	sessionID := typeid.NewSessionID()
	room := NewRoom(sessionID, grid)
	room.handle = grid.On(engine.EventAll, func(n engine.Notification) {
		h.relay(sessionID, n)
	})

	h.mu.Lock()
	h.rooms[sessionID] = room
	h.mu.Unlock()

	slog.Info("session opened", "session", sessionID)
	return sessionID, nil
}

func (h *Hub) Exists(sessionID string) bool {
	return h.room(sessionID) != nil
}

func (h *Hub) room(sessionID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[sessionID]
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if ok {
		room.clients[client.ClientID] = client
	}
	h.mu.Unlock()

	if !ok {
		client.sendError("", "session not found")
		close(client.send)
		return
	}

	frame, seq := room.frame()
	welcome, err := newMessage(TypeWelcome, WelcomePayload{
		SessionID: client.SessionID,
		ClientID:  client.ClientID,
		UserID:    client.UserID,
		Frame:     frame,
	})
	if err != nil {
		slog.Error("marshal welcome", "error", err)
		return
	}
	welcome.SessionID = client.SessionID
	welcome.Seq = seq
	client.Send(welcome)

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinMsg, err := newMessage(TypePresenceJoin, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	if err == nil {
		joinMsg.UserID = client.UserID
		h.broadcastToRoom(client.SessionID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	// Empty rooms stay open so that issued tokens remain usable.
	// TODO: expire rooms that stay empty for longer than the session TTL.
	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)
	h.mu.Unlock()

	leaveMsg, err := newMessage(TypePresenceLeave, PresenceLeavePayload{UserID: client.UserID})
	if err == nil {
		leaveMsg.UserID = client.UserID
		h.broadcastToRoom(client.SessionID, leaveMsg, "")
	}

	slog.Info("client left", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room := h.room(sender.SessionID)
	if room == nil {
		sender.sendError(msg.Type, "session not found")
		return
	}

	switch msg.Type {
	case TypeInput:
		var in engine.Input
		if !decode(sender, msg, &in) {
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error { return g.Dispatch(in) })

	case TypeMetrics:
		var m engine.Metrics
		if !decode(sender, msg, &m) {
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error { return g.SetMetrics(m) })

	case TypeShapeAdd:
		var p ShapeAddPayload
		if !decode(sender, msg, &p) {
			return
		}
		pos, err := shape.ParsePatch(p.Fields)
		if err != nil {
			sender.sendError(msg.Type, err.Error())
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error {
			_, err := g.NewShape(p.ID, pos)
			return err
		})

	case TypeShapeRemove:
		var ref ShapeRefPayload
		if !decode(sender, msg, &ref) {
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error { return g.RemoveShape(ref.ID) })
		room.presence.ClearSelection(ref.ID)

	case TypeShapeSelect:
		var ref ShapeRefPayload
		if !decode(sender, msg, &ref) {
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error { return g.Select(ref.ID) })

	case TypeShapeFocus:
		var ref ShapeRefPayload
		if !decode(sender, msg, &ref) {
			return
		}
		h.mutate(room, sender, msg.Type, func(g *engine.Grid) error { return g.Focus(ref.ID, 0, nil) })

	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.sendError(msg.Type, "unknown message type")
	}
}

func decode(sender *Client, msg *Message, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		slog.Warn("invalid payload", "type", msg.Type, "error", err)
		sender.sendError(msg.Type, "invalid payload")
		return false
	}
	return true
}

// mutate applies fn to the room's grid and broadcasts the resulting frame.
// A failure is reported to the sender only.
func (h *Hub) mutate(room *Room, sender *Client, request string, fn func(*engine.Grid) error) {
	room.mu.Lock()
	err := fn(room.grid)
	var frame engine.Frame
	var seq int64
	if err == nil {
		room.seq++
		seq = room.seq
		frame = room.grid.Frame()
	}
	room.mu.Unlock()

	if err != nil {
		slog.Debug("request rejected", "type", request, "user", sender.UserID, "error", err)
		sender.sendError(request, err.Error())
		return
	}

	msg, err := newMessage(TypeFrame, frame)
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}
	msg.SessionID = room.sessionID
	msg.Seq = seq
	h.broadcastToRoom(room.sessionID, msg, "")
}

// relay forwards a grid notification to the whole room. Debounced kinds
// arrive here from a timer goroutine.
func (h *Hub) relay(sessionID string, n engine.Notification) {
	msg, err := newMessage(TypeNotify, n)
	if err != nil {
		slog.Error("marshal notification", "kind", n.Kind, "error", err)
		return
	}
	msg.SessionID = sessionID
	h.broadcastToRoom(sessionID, msg, "")
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if !decode(sender, msg, &presence) {
		return
	}

	presence.DisplayName = sender.DisplayName
	presence.World = nil
	if presence.Cursor != nil && presence.Cursor.Finite() {
		room.mu.Lock()
		world := presence.Cursor.Add(room.grid.Scroll()).Div(room.grid.Scale())
		room.mu.Unlock()
		presence.World = &world
	}

	room.presence.Update(sender.UserID, &presence)

	outMsg, err := newMessage(TypePresenceUpdate, presence)
	if err != nil {
		return
	}
	outMsg.UserID = sender.UserID
	h.broadcastToRoom(sender.SessionID, outMsg, sender.ClientID)
}

// broadcastToRoom sends while holding the read lock so that no client's
// channel is closed underneath it.
func (h *Hub) broadcastToRoom(sessionID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
