// Package testutil provides mock implementations for testing the notification application layer.
package testutil

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// DirectoryUser is one entry of MockDirectory.
type DirectoryUser struct {
	ID       uint
	Username string
	Role     authorization.Role
	Active   bool
}

// MockDirectory is an in-memory user.Directory.
type MockDirectory struct {
	mu    sync.RWMutex
	users []DirectoryUser
	err   error
	calls int
}

func NewMockDirectory(users ...DirectoryUser) *MockDirectory {
	return &MockDirectory{users: users}
}

func (m *MockDirectory) AddUser(u DirectoryUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
}

// SetError makes every lookup fail with err.
func (m *MockDirectory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of lookups served.
func (m *MockDirectory) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MockDirectory) FindActiveIDByUsername(ctx context.Context, username string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	for _, u := range m.users {
		if u.Active && u.Username == username {
			return u.ID, nil
		}
	}
	return 0, nil
}

func (m *MockDirectory) ListActiveIDs(ctx context.Context) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	ids := []uint{}
	for _, u := range m.users {
		if u.Active {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (m *MockDirectory) ListActiveIDsByRoles(ctx context.Context, roles []authorization.Role) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	ids := []uint{}
	for _, u := range m.users {
		if u.Active && slices.Contains(roles, u.Role) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// MockNotificationRepository is an in-memory notification.NotificationRepository.
type MockNotificationRepository struct {
	mu          sync.RWMutex
	items       map[uint]*notification.Notification
	nextID      uint
	createError error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		items: make(map[uint]*notification.Notification),
	}
}

func (m *MockNotificationRepository) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createError = err
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	m.nextID++
	if err := n.SetID(m.nextID); err != nil {
		return err
	}
	m.items[n.ID()] = n
	return nil
}

// Add stores an already-identified notification.
func (m *MockNotificationRepository) Add(n *notification.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[n.ID()] = n
	if n.ID() > m.nextID {
		m.nextID = n.ID()
	}
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.items[id]
	if !ok {
		return nil, errors.NewNotFoundError("notification not found")
	}
	return n, nil
}

func (m *MockNotificationRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

type deliveryKey struct {
	userID         uint
	notificationID uint
}

type deliveryRow struct {
	id        uint
	isRead    bool
	readAt    *time.Time
	createdAt time.Time
}

// MockDeliveryRepository is an in-memory notification.DeliveryRepository that
// enforces the (user, notification) uniqueness the real store guarantees.
type MockDeliveryRepository struct {
	mu     sync.RWMutex
	notifs *MockNotificationRepository
	rows   map[deliveryKey]*deliveryRow
	nextID uint
	err    error
}

func NewMockDeliveryRepository(notifs *MockNotificationRepository) *MockDeliveryRepository {
	return &MockDeliveryRepository{
		notifs: notifs,
		rows:   make(map[deliveryKey]*deliveryRow),
	}
}

// SetError makes every call fail with err.
func (m *MockDeliveryRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockDeliveryRepository) CreateUserNotifications(ctx context.Context, notificationID uint, userIDs []uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var inserted int64
	for _, uid := range userIDs {
		key := deliveryKey{userID: uid, notificationID: notificationID}
		if _, exists := m.rows[key]; exists {
			continue
		}
		m.nextID++
		m.rows[key] = &deliveryRow{id: m.nextID, createdAt: time.Now().UTC()}
		inserted++
	}
	return inserted, nil
}

func (m *MockDeliveryRepository) FilterUndelivered(ctx context.Context, notificationID uint, userIDs []uint) ([]uint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	missing := []uint{}
	for _, uid := range userIDs {
		if _, exists := m.rows[deliveryKey{userID: uid, notificationID: notificationID}]; !exists {
			missing = append(missing, uid)
		}
	}
	return missing, nil
}

func (m *MockDeliveryRepository) feed(userID uint, includeRead bool) ([]*notification.FeedItem, error) {
	items := []*notification.FeedItem{}
	for key, row := range m.rows {
		if key.userID != userID || (!includeRead && row.isRead) {
			continue
		}
		n, err := m.notifs.GetByID(context.Background(), key.notificationID)
		if err != nil {
			return nil, err
		}
		d, err := notification.ReconstructUserNotification(row.id, key.userID, key.notificationID, row.isRead, row.readAt, row.createdAt)
		if err != nil {
			return nil, err
		}
		items = append(items, &notification.FeedItem{Notification: n, Delivery: d})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].Notification, items[j].Notification
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID() > b.ID()
	})
	return items, nil
}

func (m *MockDeliveryRepository) FindUnreadForUser(ctx context.Context, userID uint) ([]*notification.FeedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.feed(userID, false)
}

func (m *MockDeliveryRepository) FindAllForUser(ctx context.Context, userID uint, includeRead bool, limit, offset int) ([]*notification.FeedItem, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	items, err := m.feed(userID, includeRead)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(items))
	if offset >= len(items) {
		return []*notification.FeedItem{}, total, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, total, nil
}

func (m *MockDeliveryRepository) markRead(userID uint, match func(uint) bool) int64 {
	now := time.Now().UTC()
	var updated int64
	for key, row := range m.rows {
		if key.userID == userID && !row.isRead && match(key.notificationID) {
			row.isRead = true
			row.readAt = &now
			updated++
		}
	}
	return updated
}

func (m *MockDeliveryRepository) MarkRead(ctx context.Context, userID uint, notificationIDs []uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.markRead(userID, func(id uint) bool { return slices.Contains(notificationIDs, id) }), nil
}

func (m *MockDeliveryRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.markRead(userID, func(uint) bool { return true }), nil
}

func (m *MockDeliveryRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return 0, m.err
	}
	var count int64
	for key, row := range m.rows {
		if key.userID == userID && !row.isRead {
			count++
		}
	}
	return count, nil
}

// RowCount returns the number of delivery rows stored for a notification.
func (m *MockDeliveryRepository) RowCount(notificationID uint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for key := range m.rows {
		if key.notificationID == notificationID {
			n++
		}
	}
	return n
}

// IsRead reports the read flag of one row; ok is false when no row exists.
func (m *MockDeliveryRepository) IsRead(userID, notificationID uint) (read bool, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[deliveryKey{userID: userID, notificationID: notificationID}]
	if !ok {
		return false, false
	}
	return row.isRead, true
}

// MockTransactionManager runs the unit of work inline.
type MockTransactionManager struct {
	mu    sync.Mutex
	calls int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *MockTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockPublisher records published delivery events.
type MockPublisher struct {
	mu        sync.RWMutex
	delivered []notification.DeliveredEvent
	read      []notification.ReadEvent
	err       error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockPublisher) PublishDelivered(ctx context.Context, event notification.DeliveredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.delivered = append(m.delivered, event)
	return nil
}

func (m *MockPublisher) PublishRead(ctx context.Context, event notification.ReadEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.read = append(m.read, event)
	return nil
}

func (m *MockPublisher) Delivered() []notification.DeliveredEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]notification.DeliveredEvent(nil), m.delivered...)
}

func (m *MockPublisher) Read() []notification.ReadEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]notification.ReadEvent(nil), m.read...)
}

// MockLogger is a mock implementation of logger.Interface for testing.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// LogEntry records a log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		entries: make([]LogEntry, 0),
	}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.log("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)  { m.log("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.log("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any) { m.log("ERROR", msg, args...) }
func (m *MockLogger) Fatal(msg string, args ...any) { m.log("FATAL", msg, args...) }

func (m *MockLogger) With(args ...any) logger.Interface { return m }
func (m *MockLogger) Named(name string) logger.Interface { return m }

func (m *MockLogger) Debugw(msg string, keysAndValues ...interface{}) { m.log("DEBUG", msg, keysAndValues...) }
func (m *MockLogger) Infow(msg string, keysAndValues ...interface{})  { m.log("INFO", msg, keysAndValues...) }
func (m *MockLogger) Warnw(msg string, keysAndValues ...interface{})  { m.log("WARN", msg, keysAndValues...) }
func (m *MockLogger) Errorw(msg string, keysAndValues ...interface{}) { m.log("ERROR", msg, keysAndValues...) }
func (m *MockLogger) Fatalw(msg string, keysAndValues ...interface{}) { m.log("FATAL", msg, keysAndValues...) }

func (m *MockLogger) log(level, msg string, fields ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := LogEntry{
		Level:   level,
		Message: msg,
		Fields:  make(map[string]interface{}),
	}
	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			entry.Fields[key] = fields[i+1]
		}
	}
	m.entries = append(m.entries, entry)
}

// GetEntries returns all logged entries.
func (m *MockLogger) GetEntries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LogEntry(nil), m.entries...)
}

// HasEntry reports whether a message was logged at the given level.
func (m *MockLogger) HasEntry(level, msg string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
