package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/pkg/domain"
)

// Notification is a lifecycle event relayed to SSE subscribers.
type Notification struct {
	Type   domain.EventType `json:"type"`
	RunID  int              `json:"run_id"`
	Detail any              `json:"detail,omitempty"`
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- Notification]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a manager without subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- Notification]struct{}),
		logger:      logging.NewNop(),
	}
}

// SetLogger replaces the manager's logger.
func (sm *StreamManager) SetLogger(logger *slog.Logger) {
	sm.logger = logger
}

// Subscribe registers a buffered channel. The returned func unregisters and closes it.
func (sm *StreamManager) Subscribe() (chan Notification, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Notification, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast delivers n to every subscriber. Slow clients miss notifications.
func (sm *StreamManager) Broadcast(n Notification) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "type", n.Type, "subscribers", len(sm.subscribers))
	for ch := range sm.subscribers {
		select {
		case ch <- n:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "type", n.Type)
		}
	}
}

// Hooks returns lifecycle hooks broadcasting every engine event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	run := func(_ context.Context, e *domain.RunEvent) {
		sm.Broadcast(Notification{Type: e.Type, RunID: e.RunID, Detail: e})
	}
	return domain.LifecycleHooks{
		OnInitialized: run,
		OnStarting:    run,
		OnReset:       run,
		OnIterationChecked: func(_ context.Context, e *domain.IterationEvent) {
			sm.Broadcast(Notification{Type: e.Type, RunID: e.RunID, Detail: e})
		},
		OnCompleted: func(_ context.Context, e *domain.CompletionEvent) {
			sm.Broadcast(Notification{Type: e.Type, RunID: e.RunID, Detail: e})
		},
		OnWarning: func(_ context.Context, e *domain.WarningEvent) {
			detail := map[string]string{"message": e.Message}
			if e.Err != nil {
				detail["error"] = e.Err.Error()
			}
			sm.Broadcast(Notification{Type: e.Type, RunID: e.RunID, Detail: detail})
		},
	}
}

// streamFrame is one SSE data payload: the event plus the snapshot taken when it is sent.
type streamFrame struct {
	Notification
	State domain.SystemState `json:"state"`
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional watch parameter filters by comma-separated event types.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var watch map[domain.EventType]bool
	if raw := r.URL.Query().Get("watch"); raw != "" {
		watch = make(map[domain.EventType]bool)
		for _, t := range strings.Split(raw, ",") {
			watch[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: Client subscribed", "watch", r.URL.Query().Get("watch"))
	s.writeFrame(w, "snapshot", Notification{Type: "snapshot"})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil && !watch[n.Type] {
				continue
			}
			s.writeFrame(w, string(n.Type), n)
			flusher.Flush()
		}
	}
}

func (s *Server) writeFrame(w http.ResponseWriter, event string, n Notification) {
	data, err := json.Marshal(streamFrame{Notification: n, State: s.Sim.State()})
	if err != nil {
		s.Logger.Error("SSE: frame encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
