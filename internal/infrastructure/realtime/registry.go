// Package realtime keeps the process-wide registry of streaming connections.
// It knows nothing about notifications: callers broadcast opaque events to
// topics and every connection subscribed to that topic receives them.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

const (
	defaultMaxConnsPerUser = 5
	defaultSendBuffer      = 32
)

// Event is one server-sent event.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// Conn is one subscriber. Send is closed when the connection is removed.
type Conn struct {
	ID          string
	Topic       string
	UserID      uint
	Send        chan []byte
	ConnectedAt time.Time
	closed      atomic.Bool
}

// TrySend attempts to send data to the connection.
// Returns false if the channel is closed or full.
func (c *Conn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Conn) close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Send)
	}
}

type RegistryConfig struct {
	MaxConnsPerUser int
	SendBuffer      int
}

// Registry tracks connections per topic. It must be started before it accepts
// subscribers, and Stop closes every connection.
type Registry struct {
	mu        sync.RWMutex
	conns     map[string]*Conn
	topics    map[string]map[string]*Conn
	userConns map[uint]int
	running   bool

	maxConnsPerUser int
	sendBuffer      int

	logger logger.Interface
}

func NewRegistry(log logger.Interface, config *RegistryConfig) *Registry {
	r := &Registry{
		conns:           make(map[string]*Conn),
		topics:          make(map[string]map[string]*Conn),
		userConns:       make(map[uint]int),
		maxConnsPerUser: defaultMaxConnsPerUser,
		sendBuffer:      defaultSendBuffer,
		logger:          log,
	}
	if config != nil {
		if config.MaxConnsPerUser > 0 {
			r.maxConnsPerUser = config.MaxConnsPerUser
		}
		if config.SendBuffer > 0 {
			r.sendBuffer = config.SendBuffer
		}
	}
	return r
}

func (r *Registry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	r.logger.Infow("realtime registry started")
}

// Stop closes every connection. Safe to call multiple times.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false

	for _, conn := range r.conns {
		conn.close()
	}
	r.conns = make(map[string]*Conn)
	r.topics = make(map[string]map[string]*Conn)
	r.userConns = make(map[uint]int)

	r.logger.Infow("realtime registry stopped")
}

// Subscribe registers a connection on topic on behalf of userID.
func (r *Registry) Subscribe(topic string, userID uint) (*Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil, errors.NewTransientError("realtime registry is not running", nil)
	}
	if r.userConns[userID] >= r.maxConnsPerUser {
		r.logger.Warnw("stream connection limit exceeded",
			"user_id", userID,
			"limit", r.maxConnsPerUser,
		)
		return nil, errors.NewConflictError("too many stream connections")
	}

	conn := &Conn{
		ID:          uuid.NewString(),
		Topic:       topic,
		UserID:      userID,
		Send:        make(chan []byte, r.sendBuffer),
		ConnectedAt: time.Now().UTC(),
	}
	r.conns[conn.ID] = conn
	if r.topics[topic] == nil {
		r.topics[topic] = make(map[string]*Conn)
	}
	r.topics[topic][conn.ID] = conn
	r.userConns[userID]++

	r.logger.Infow("stream connection registered",
		"conn_id", conn.ID,
		"user_id", userID,
		"topic", topic,
	)
	return conn, nil
}

func (r *Registry) Unsubscribe(connID string) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
		if subs := r.topics[conn.Topic]; subs != nil {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(r.topics, conn.Topic)
			}
		}
		if r.userConns[conn.UserID] > 0 {
			r.userConns[conn.UserID]--
		}
		if r.userConns[conn.UserID] == 0 {
			delete(r.userConns, conn.UserID)
		}
	}
	r.mu.Unlock()

	if ok {
		conn.close()
		r.logger.Infow("stream connection unregistered",
			"conn_id", connID,
			"user_id", conn.UserID,
		)
	}
}

// Broadcast sends event to every connection on topic without blocking.
// Slow subscribers drop the event. Returns the number of connections reached.
func (r *Registry) Broadcast(topic string, event Event) int {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}

	data, err := formatSSEEvent(event)
	if err != nil {
		r.logger.Errorw("failed to format stream event",
			"event_type", event.Type,
			"error", err,
		)
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sent := 0
	for _, conn := range r.topics[topic] {
		if conn.TrySend(data) {
			sent++
			continue
		}
		r.logger.Warnw("dropped stream event, channel full",
			"conn_id", conn.ID,
			"event_type", event.Type,
		)
	}
	return sent
}

// ConnCount returns the current number of connections.
func (r *Registry) ConnCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func formatSSEEvent(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}
