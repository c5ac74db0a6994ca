package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	unread    []Item
	listCalls int
	listErr   error
	markErrs  []error
	marked    [][]uint
}

func (f *fakeSource) ListUnread(ctx context.Context) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Item(nil), f.unread...), nil
}

func (f *fakeSource) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, ids)
	if len(f.markErrs) > 0 {
		err := f.markErrs[0]
		f.markErrs = f.markErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeSource) markAttempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.marked)
}

type recordingPresenter struct {
	mu      sync.Mutex
	batches [][]Item
}

func (r *recordingPresenter) Present(items []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, items)
}

func (r *recordingPresenter) presentedIDs() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, b := range r.batches {
		for _, it := range b {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func fastConfig() *PollerConfig {
	return &PollerConfig{
		Interval:        20 * time.Millisecond,
		RequestTimeout:  10 * time.Millisecond,
		MaxAckRetries:   2,
		AckRetryBackoff: time.Millisecond,
		AckQueueSize:    4,
	}
}

func TestPoller_PresentsEachNotificationOnce(t *testing.T) {
	source := &fakeSource{unread: []Item{{ID: 1, Message: "a"}, {ID: 2, Message: "b"}}}
	presenter := &recordingPresenter{}
	p := NewPoller(source, presenter, fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return source.calls() >= 3 }, time.Second, 5*time.Millisecond)

	assert.ElementsMatch(t, []uint{1, 2}, presenter.presentedIDs())
	assert.True(t, p.Seen(1))
	assert.Equal(t, 2, p.SeenCount())

	source.mu.Lock()
	source.unread = append(source.unread, Item{ID: 3, Message: "c"})
	source.mu.Unlock()

	require.Eventually(t, func() bool { return len(presenter.presentedIDs()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint{1, 2, 3}, presenter.presentedIDs())
}

func TestPoller_StartTwice(t *testing.T) {
	p := NewPoller(&fakeSource{}, PresenterFunc(func([]Item) {}), fastConfig())
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	assert.ErrorIs(t, p.Start(context.Background()), ErrPollerRunning)
}

func TestPoller_StopClearsSession(t *testing.T) {
	source := &fakeSource{unread: []Item{{ID: 9}}}
	presenter := &recordingPresenter{}
	p := NewPoller(source, presenter, fastConfig())

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return p.Seen(9) }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.Equal(t, 0, p.SeenCount())
	assert.ErrorIs(t, p.Acknowledge(9), ErrPollerNotRunning)

	// A new session presents the same item again.
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()
	require.Eventually(t, func() bool { return len(presenter.presentedIDs()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestPoller_AcknowledgeRetries(t *testing.T) {
	source := &fakeSource{markErrs: []error{errors.New("network down"), nil}}
	p := NewPoller(source, PresenterFunc(func([]Item) {}), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.NoError(t, p.Acknowledge(4, 5))
	require.Eventually(t, func() bool { return source.markAttempts() == 2 }, time.Second, 5*time.Millisecond)

	source.mu.Lock()
	assert.Equal(t, []uint{4, 5}, source.marked[1])
	source.mu.Unlock()
}

func TestPoller_AcknowledgeGivesUp(t *testing.T) {
	var (
		mu     sync.Mutex
		failed []string
	)
	cfg := fastConfig()
	cfg.OnError = func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, op)
	}

	boom := errors.New("boom")
	source := &fakeSource{markErrs: []error{boom, boom, boom, boom}}
	p := NewPoller(source, PresenterFunc(func([]Item) {}), cfg)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.NoError(t, p.Acknowledge(1))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, time.Second, 5*time.Millisecond)

	// initial attempt plus MaxAckRetries
	assert.Equal(t, 3, source.markAttempts())
}

func TestPoller_AcknowledgeDoesNotRetryClientErrors(t *testing.T) {
	source := &fakeSource{markErrs: []error{&APIError{StatusCode: 400, Type: "bad_request"}}}
	p := NewPoller(source, PresenterFunc(func([]Item) {}), fastConfig())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.NoError(t, p.Acknowledge(1))
	require.Eventually(t, func() bool { return source.markAttempts() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, source.markAttempts())
}

func TestPoller_PollErrorsReported(t *testing.T) {
	errs := make(chan string, 8)
	cfg := fastConfig()
	cfg.OnError = func(op string, err error) {
		select {
		case errs <- op:
		default:
		}
	}

	source := &fakeSource{listErr: errors.New("unavailable")}
	presenter := &recordingPresenter{}
	p := NewPoller(source, presenter, cfg)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	select {
	case op := <-errs:
		assert.Equal(t, "poll", op)
	case <-time.After(time.Second):
		t.Fatal("expected poll error")
	}
	assert.Empty(t, presenter.presentedIDs())
}

func TestPollerConfig_Normalize(t *testing.T) {
	cfg := (*PollerConfig)(nil).normalize()
	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, 8*time.Second, cfg.RequestTimeout)

	clamped := (&PollerConfig{Interval: time.Second, RequestTimeout: 5 * time.Second}).normalize()
	assert.Less(t, clamped.RequestTimeout, clamped.Interval)
	assert.Equal(t, 800*time.Millisecond, clamped.RequestTimeout)
	assert.Equal(t, 3, clamped.MaxAckRetries)
}

// blockingSource holds every ListUnread call until its context ends.
type blockingSource struct {
	mu          sync.Mutex
	calls       int
	inflight    int
	maxInflight int
	ctxErrs     []error
	started     chan struct{}
}

func newBlockingSource() *blockingSource {
	return &blockingSource{started: make(chan struct{}, 64)}
}

func (b *blockingSource) ListUnread(ctx context.Context) ([]Item, error) {
	b.mu.Lock()
	b.calls++
	b.inflight++
	b.maxInflight = max(b.maxInflight, b.inflight)
	b.mu.Unlock()

	select {
	case b.started <- struct{}{}:
	default:
	}

	<-ctx.Done()

	b.mu.Lock()
	b.inflight--
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	b.mu.Unlock()
	return nil, ctx.Err()
}

func (b *blockingSource) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	return int64(len(ids)), nil
}

func (b *blockingSource) stats() (calls, maxInflight int, errs []error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls, b.maxInflight, append([]error(nil), b.ctxErrs...)
}

func TestPoller_StuckFetchTimesOutAndNextTickPolls(t *testing.T) {
	var (
		mu       sync.Mutex
		pollErrs []error
	)
	cfg := fastConfig()
	cfg.OnError = func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if op == "poll" {
			pollErrs = append(pollErrs, err)
		}
	}

	source := newBlockingSource()
	p := NewPoller(source, PresenterFunc(func([]Item) {}), cfg)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool {
		calls, _, _ := source.stats()
		return calls >= 4
	}, 2*time.Second, 5*time.Millisecond)

	_, maxInflight, ctxErrs := source.stats()
	assert.Equal(t, 1, maxInflight)
	require.NotEmpty(t, ctxErrs)
	for _, err := range ctxErrs {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, pollErrs)
	assert.ErrorIs(t, pollErrs[0], context.DeadlineExceeded)
}

func TestPoller_StopAbortsInFlightFetch(t *testing.T) {
	cfg := &PollerConfig{Interval: 10 * time.Second, RequestTimeout: 8 * time.Second}
	source := newBlockingSource()
	p := NewPoller(source, PresenterFunc(func([]Item) {}), cfg)
	require.NoError(t, p.Start(context.Background()))

	select {
	case <-source.started:
	case <-time.After(time.Second):
		t.Fatal("first poll did not start")
	}

	begin := time.Now()
	p.Stop()
	assert.Less(t, time.Since(begin), 500*time.Millisecond)

	calls, maxInflight, ctxErrs := source.stats()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, maxInflight)
	require.Len(t, ctxErrs, 1)
	assert.ErrorIs(t, ctxErrs[0], context.Canceled)
}

func TestPoller_ParentCancelEndsSession(t *testing.T) {
	source := &fakeSource{unread: []Item{{ID: 7}}}
	presenter := &recordingPresenter{}
	p := NewPoller(source, presenter, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	require.Eventually(t, func() bool { return p.Seen(7) }, time.Second, 5*time.Millisecond)

	cancel()

	assert.ErrorIs(t, p.Acknowledge(7), ErrPollerNotRunning)
	assert.False(t, p.Seen(7))
	assert.Equal(t, 0, p.SeenCount())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.NoError(t, p.Acknowledge(7))
	require.Eventually(t, func() bool { return source.markAttempts() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(presenter.presentedIDs()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestPoller_StopFromPresenter(t *testing.T) {
	source := &fakeSource{unread: []Item{{ID: 1}}}
	stopped := make(chan struct{})
	var once sync.Once

	var p *Poller
	p = NewPoller(source, PresenterFunc(func([]Item) {
		p.Stop()
		once.Do(func() { close(stopped) })
	}), fastConfig())
	require.NoError(t, p.Start(context.Background()))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop called from Present did not return")
	}

	assert.ErrorIs(t, p.Acknowledge(1), ErrPollerNotRunning)

	// The old poll goroutine exits and a new session can start.
	require.NoError(t, p.Start(context.Background()))
	p.Stop()
	assert.Equal(t, 0, p.SeenCount())
}
