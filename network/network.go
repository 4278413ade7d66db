package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pong/game"
	"pong/metrics"
	"pong/protocol"
	"pong/room"
)

const (
	readLimit    = 1 << 20 // 1MB
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bridges websocket connections to room commands: it resolves each
// inbound message to the connection's room through the registry and relays
// the result. It never touches room state directly.
type Server struct {
	manager *room.Manager
}

func NewServer(m *room.Manager) *Server {
	return &Server{manager: m}
}

// Routes registers the websocket endpoint and the room APIs on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/rooms", s.handleRooms)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	connID := uuid.NewString()
	c := newClient(connID, ws)
	metrics.ConnectionsActive.Inc()
	log := logrus.WithField("conn", connID)
	log.Info("client connected")

	defer func() {
		s.manager.Disconnect(connID)
		_ = c.Close()
		metrics.ConnectionsActive.Dec()
		log.Info("client disconnected")
	}()

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go c.writeLoop()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			log.WithError(err).Debug("bad envelope")
			continue
		}
		s.dispatch(log, c, env)
	}
}

func (s *Server) dispatch(log *logrus.Entry, c *client, env protocol.Envelope) {
	switch env.T {
	case protocol.MsgJoin:
		// The payload is optional; an empty join targets the default room.
		var j protocol.Join
		if len(env.P) > 0 {
			dec, err := protocol.DecodePayload[protocol.Join](env)
			if err != nil {
				log.WithError(err).Debug("bad join payload")
				return
			}
			j = dec
		}
		res := s.manager.Join(c.id, j.Room, c)
		if res.Side != "" {
			log.WithField("side", res.Side).Info("paddle assigned")
		} else {
			log.Info("joined as spectator")
		}

	case protocol.MsgMovePaddle:
		mv, err := protocol.DecodePayload[protocol.MovePaddle](env)
		if err != nil {
			log.WithError(err).Debug("bad move payload")
			return
		}
		switch dir := game.Direction(mv.Direction); dir {
		case game.DirUp, game.DirDown:
			s.manager.Move(c.id, dir)
		}

	default:
		log.WithField("type", env.T).Debug("unknown message type")
	}
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.manager.ListRooms())
	case http.MethodPost:
		code := s.manager.CreateRoom()
		writeJSON(w, http.StatusCreated, room.RoomInfo{Code: code})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
