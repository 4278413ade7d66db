package room

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/sirupsen/logrus"

	"pong/game"
	"pong/metrics"
)

// DefaultRoomCode is where joins without an explicit code land.
const DefaultRoomCode = "main"

// RoomInfo is returned by the API for the room list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	Active  bool   `json:"active"`
}

// Manager is the registry: rooms by code plus the reverse connection→room
// index used for input routing and disconnect cleanup. Both maps live under
// one mutex; the rooms themselves run independently of each other.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	conns map[string]string // connection id → room code
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		conns: make(map[string]string),
	}
}

// GetOrCreateRoom returns the room for code, creating and starting it if
// needed.
func (m *Manager) GetOrCreateRoom(code string) *Room {
	if code == "" {
		code = DefaultRoomCode
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(code)
}

func (m *Manager) getOrCreateLocked(code string) *Room {
	if r, ok := m.rooms[code]; ok {
		return r
	}
	r := New(code)
	r.OnEmpty = func(c string) { m.removeRoom(c) }
	m.rooms[code] = r
	metrics.RoomsActive.Inc()
	go r.Run()
	logrus.WithField("room", code).Info("room created")
	return r
}

func (m *Manager) removeRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		r.Stop()
		delete(m.rooms, code)
		metrics.RoomsActive.Dec()
		logrus.WithField("room", code).Info("room destroyed")
	}
}

// Join resolves (or creates) the target room, registers the connection in
// the reverse index, and waits for the paddle assignment. If the connection
// already belongs to a room the existing membership wins and nothing
// changes. A room destroyed while the join is in flight is re-resolved
// through the registry; a stopped room is never resurrected.
func (m *Manager) Join(connID, code string, c Conn) JoinResult {
	if code == "" {
		code = DefaultRoomCode
	}
	for {
		m.mu.Lock()
		target := code
		if existing, ok := m.conns[connID]; ok {
			target = existing
		}
		r := m.getOrCreateLocked(target)
		m.conns[connID] = target
		m.mu.Unlock()

		reply := make(chan JoinResult, 1)
		select {
		case r.Inbox <- Join{ConnID: connID, Conn: c, Reply: reply}:
		case <-r.Done():
			m.dropIndex(connID)
			continue
		}
		select {
		case res := <-reply:
			return res
		case <-r.Done():
			m.dropIndex(connID)
		}
	}
}

// Move routes a paddle move to the connection's room. Unknown connections
// are a no-op.
func (m *Manager) Move(connID string, dir game.Direction) {
	m.mu.RLock()
	code, ok := m.conns[connID]
	r := m.rooms[code]
	m.mu.RUnlock()
	if !ok || r == nil {
		return
	}
	select {
	case r.Inbox <- Move{ConnID: connID, Direction: dir}:
	case <-r.Done():
	}
}

// Disconnect removes the connection from its room, if any. Idempotent: an
// unknown connection is a no-op.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	code, ok := m.conns[connID]
	if ok {
		delete(m.conns, connID)
	}
	r := m.rooms[code]
	m.mu.Unlock()
	if !ok || r == nil {
		return
	}
	select {
	case r.Inbox <- Leave{ConnID: connID}:
	case <-r.Done():
	}
}

// RoomOf returns the room code the connection is registered to.
func (m *Manager) RoomOf(connID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.conns[connID]
	return code, ok
}

// Lookup returns the live room for code, if any.
func (m *Manager) Lookup(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

func (m *Manager) dropIndex(connID string) {
	m.mu.Lock()
	delete(m.conns, connID)
	m.mu.Unlock()
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom generates a unique 6-char code, creates the room, and returns
// the code.
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.getOrCreateLocked(code)
		return code
	}
}

// ListRooms returns all active rooms with code, member count and match
// status.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Players: r.NumPlayers(), Active: r.Active()})
	}
	return out
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
