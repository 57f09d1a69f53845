package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/gorilla/websocket"

	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/notify"
	"farmtycoon/internal/domain/farm"
)

const (
	DefaultStateInterval = 200 * time.Millisecond

	writeWait = 5 * time.Second
	readWait  = 60 * time.Second
	outBuffer = 64
)

type StateSource interface {
	State(ctx context.Context, sessionID string) (farm.FarmState, error)
}

type notificationsMsg struct {
	Type          string                `json:"type"`
	Notifications []notify.Notification `json:"notifications"`
}

type stateMsg struct {
	Type  string         `json:"type"`
	State farm.FarmState `json:"state"`
}

// Server streams one farm session per connection: the notification list on
// every queue change and the full state on a fixed interval.
type Server struct {
	states   StateSource
	notices  *notify.Hub
	interval time.Duration

	upgrader websocket.Upgrader
	conns    atomic.Int64
}

func NewServer(states StateSource, notices *notify.Hub, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultStateInterval
	}
	return &Server{
		states:   states,
		notices:  notices,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Mux serves the stream at /ws and a liveness probe at /healthz.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.WSHandler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]int64{"connections": s.conns.Load()})
	})
	return mux
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sessionID := game.NormalizeSessionID(r.URL.Query().Get("session"))

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		s.conns.Add(1)
		defer s.conns.Add(-1)
		hlog.Infof("ws: session %s connected from %s", sessionID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, outBuffer)
		enqueue := func(b []byte) {
			if b == nil {
				return
			}
			select {
			case out <- b:
			default:
				// Slow client; the next change or state frame supersedes this one.
			}
		}

		var queue *notify.Queue
		if s.notices != nil {
			queue = s.notices.Queue(sessionID)
			enqueue(encodeNotifications(queue.Notifications()))
			unsubscribe := queue.Subscribe(func(list []notify.Notification) {
				enqueue(encodeNotifications(list))
			})
			defer unsubscribe()
		}
		enqueue(s.encodeState(ctx, sessionID))

		writeErr := make(chan error, 1)
		go func() {
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			for {
				var b []byte
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b = <-out:
				case <-ticker.C:
					b = s.encodeState(ctx, sessionID)
					if b == nil {
						continue
					}
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}()

		// Client frames carry nothing; reading keeps deadlines and close
		// handling alive.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		hlog.Infof("ws: session %s disconnected", sessionID)
	}
}

func (s *Server) encodeState(ctx context.Context, sessionID string) []byte {
	if s.states == nil {
		return nil
	}
	state, err := s.states.State(ctx, sessionID)
	if err != nil {
		if ctx.Err() == nil {
			hlog.CtxWarnf(ctx, "ws: load state for %s: %v", sessionID, err)
		}
		return nil
	}
	b, err := json.Marshal(stateMsg{Type: "state", State: state})
	if err != nil {
		return nil
	}
	return b
}

func encodeNotifications(list []notify.Notification) []byte {
	if list == nil {
		list = []notify.Notification{}
	}
	b, err := json.Marshal(notificationsMsg{Type: "notifications", Notifications: list})
	if err != nil {
		return nil
	}
	return b
}
