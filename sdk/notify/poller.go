package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrPollerRunning    = errors.New("poller already running")
	ErrPollerNotRunning = errors.New("poller not running")
	ErrAckQueueFull     = errors.New("acknowledgment queue full")
)

// Source is where a Poller fetches unread notifications and sends acknowledgments.
// *Client implements it.
type Source interface {
	ListUnread(ctx context.Context) ([]Item, error)
	MarkRead(ctx context.Context, ids []uint) (int64, error)
}

// Presenter shows newly seen notifications to the user. It is called from the
// poll goroutine and should return quickly.
//
// Present may call Stop. Stop then cancels the session and returns without
// waiting for the poll goroutine, which exits once Present returns.
type Presenter interface {
	Present(items []Item)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(items []Item)

func (f PresenterFunc) Present(items []Item) { f(items) }

// PollerConfig configures a Poller. Zero values fall back to defaults.
type PollerConfig struct {
	// Interval between polls (default: 10s)
	Interval time.Duration
	// RequestTimeout bounds each request and is clamped below Interval (default: 8s)
	RequestTimeout time.Duration
	// MaxAckRetries is the number of retries after a failed mark-read (default: 3, negative disables)
	MaxAckRetries int
	// AckRetryBackoff is the first retry delay, growing exponentially (default: 500ms)
	AckRetryBackoff time.Duration
	// AckQueueSize bounds pending acknowledgments (default: 64)
	AckQueueSize int
	// OnError is called for poll and acknowledgment failures. Optional.
	OnError func(op string, err error)
}

// DefaultPollerConfig returns the default poller configuration.
func DefaultPollerConfig() *PollerConfig {
	return &PollerConfig{
		Interval:        10 * time.Second,
		RequestTimeout:  8 * time.Second,
		MaxAckRetries:   3,
		AckRetryBackoff: 500 * time.Millisecond,
		AckQueueSize:    64,
	}
}

func (c *PollerConfig) normalize() PollerConfig {
	def := DefaultPollerConfig()
	out := *def
	if c != nil {
		out = *c
	}
	if out.Interval <= 0 {
		out.Interval = def.Interval
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = def.RequestTimeout
	}
	if out.RequestTimeout >= out.Interval {
		out.RequestTimeout = out.Interval * 4 / 5
	}
	switch {
	case out.MaxAckRetries == 0:
		out.MaxAckRetries = def.MaxAckRetries
	case out.MaxAckRetries < 0:
		out.MaxAckRetries = 0
	}
	if out.AckRetryBackoff <= 0 {
		out.AckRetryBackoff = def.AckRetryBackoff
	}
	if out.AckQueueSize <= 0 {
		out.AckQueueSize = def.AckQueueSize
	}
	return out
}

// Poller runs one client session: a fixed-interval fetch loop that presents
// each notification at most once per session, plus a background worker that
// acknowledges ids without blocking the caller.
//
// At most one fetch is in flight. The seen set lives only as long as the
// session. A session ends when Stop is called or when the context given to
// Start is done, whichever comes first.
type Poller struct {
	source    Source
	presenter Presenter
	cfg       PollerConfig

	mu   sync.Mutex
	sess *session
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	seen   map[uint]struct{}
	acks   chan []uint

	presenting atomic.Bool
	pollDone   chan struct{}
	ackDone    chan struct{}
}

func (s *session) ended() bool {
	return s.ctx.Err() != nil
}

func NewPoller(source Source, presenter Presenter, cfg *PollerConfig) *Poller {
	return &Poller{
		source:    source,
		presenter: presenter,
		cfg:       cfg.normalize(),
	}
}

// Start begins the session. The first poll happens immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.activeLocked() != nil {
		return ErrPollerRunning
	}
	if p.sess != nil {
		p.sess.cancel()
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &session{
		ctx:      sessionCtx,
		cancel:   cancel,
		seen:     make(map[uint]struct{}),
		acks:     make(chan []uint, p.cfg.AckQueueSize),
		pollDone: make(chan struct{}),
		ackDone:  make(chan struct{}),
	}
	p.sess = s

	go p.pollLoop(s)
	go p.ackLoop(s)
	go p.release(s)

	return nil
}

// Stop ends the session: in-flight requests are aborted, both goroutines exit
// and the seen set is dropped. Safe to call multiple times and from Present.
func (p *Poller) Stop() {
	p.mu.Lock()
	s := p.sess
	p.sess = nil
	p.mu.Unlock()

	if s == nil {
		return
	}

	s.cancel()
	<-s.ackDone
	if s.presenting.Load() {
		return
	}
	<-s.pollDone
}

// Acknowledge queues ids to be marked read on the server. It never blocks.
func (p *Poller) Acknowledge(ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.activeLocked()
	if s == nil {
		return ErrPollerNotRunning
	}

	batch := make([]uint, len(ids))
	copy(batch, ids)

	select {
	case s.acks <- batch:
		return nil
	default:
		return ErrAckQueueFull
	}
}

// Seen reports whether id was presented in the current session.
func (p *Poller) Seen(id uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.activeLocked()
	if s == nil {
		return false
	}
	_, ok := s.seen[id]
	return ok
}

// SeenCount returns the size of the session's seen set.
func (p *Poller) SeenCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.activeLocked()
	if s == nil {
		return 0
	}
	return len(s.seen)
}

// activeLocked returns the live session, or nil. p.mu must be held.
func (p *Poller) activeLocked() *session {
	if p.sess == nil || p.sess.ended() {
		return nil
	}
	return p.sess
}

// release drops the session once both goroutines have exited, however the
// session ended.
func (p *Poller) release(s *session) {
	<-s.pollDone
	<-s.ackDone

	p.mu.Lock()
	if p.sess == s {
		p.sess = nil
	}
	p.mu.Unlock()
}

func (p *Poller) pollLoop(s *session) {
	defer close(s.pollDone)

	p.poll(s)

	// A Ticker drops ticks a slow poll misses, so polls never overlap.
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			p.poll(s)
		}
	}
}

func (p *Poller) poll(s *session) {
	reqCtx, cancel := context.WithTimeout(s.ctx, p.cfg.RequestTimeout)
	defer cancel()

	items, err := p.source.ListUnread(reqCtx)
	if err != nil {
		if !s.ended() {
			p.reportError("poll", err)
		}
		return
	}

	fresh := p.markSeen(s, items)
	if len(fresh) == 0 || s.ended() {
		return
	}

	s.presenting.Store(true)
	defer s.presenting.Store(false)
	p.presenter.Present(fresh)
}

// markSeen returns the items not yet seen in s and records them.
func (p *Poller) markSeen(s *session, items []Item) []Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	var fresh []Item
	for _, item := range items {
		if _, ok := s.seen[item.ID]; ok {
			continue
		}
		s.seen[item.ID] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh
}

func (p *Poller) ackLoop(s *session) {
	defer close(s.ackDone)

	for {
		select {
		case <-s.ctx.Done():
			return
		case ids := <-s.acks:
			p.acknowledge(s.ctx, ids)
		}
	}
}

// acknowledge calls MarkRead with exponential backoff between attempts.
// Delays are capped at the poll interval.
func (p *Poller) acknowledge(ctx context.Context, ids []uint) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.cfg.AckRetryBackoff
	expBackoff.MaxInterval = p.cfg.Interval
	expBackoff.Reset()

	var err error
	for attempt := 0; attempt <= p.cfg.MaxAckRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(expBackoff.NextBackOff())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
		_, err = p.source.MarkRead(reqCtx, ids)
		cancel()
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() && apiErr.StatusCode < 500 {
			break
		}
	}

	p.reportError("ack", err)
}

func (p *Poller) reportError(op string, err error) {
	if p.cfg.OnError != nil {
		p.cfg.OnError(op, err)
	}
}
