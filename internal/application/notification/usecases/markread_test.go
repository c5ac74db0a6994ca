package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/application/notification/testutil"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

type feedFixture struct {
	notifs     *testutil.MockNotificationRepository
	deliveries *testutil.MockDeliveryRepository
	publisher  *testutil.MockPublisher
	logger     *testutil.MockLogger
}

func newFeedFixture() *feedFixture {
	notifs := testutil.NewMockNotificationRepository()
	return &feedFixture{
		notifs:     notifs,
		deliveries: testutil.NewMockDeliveryRepository(notifs),
		publisher:  testutil.NewMockPublisher(),
		logger:     testutil.NewMockLogger(),
	}
}

// deliver stores a notification created at the given time and fans it out to userIDs.
func (f *feedFixture) deliver(t *testing.T, id uint, createdAt time.Time, userIDs ...uint) {
	t.Helper()
	n, err := notification.ReconstructNotification(id, "notice", nil, vo.TargetSpec{}, createdAt)
	require.NoError(t, err)
	f.notifs.Add(n)
	_, err = f.deliveries.CreateUserNotifications(context.Background(), id, userIDs)
	require.NoError(t, err)
}

func TestMarkRead_ForeignIDContributesNothing(t *testing.T) {
	f := newFeedFixture()
	now := time.Now().UTC()
	f.deliver(t, 1, now, 10)
	f.deliver(t, 2, now, 20)

	uc := NewMarkReadUseCase(f.deliveries, f.publisher, 100, f.logger)
	resp, err := uc.Execute(context.Background(), 10, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UpdatedCount)

	read, _ := f.deliveries.IsRead(20, 2)
	assert.False(t, read, "foreign row is untouched")

	events := f.publisher.Read()
	require.Len(t, events, 1)
	assert.Equal(t, uint(10), events[0].UserID)
	assert.Equal(t, int64(1), events[0].UpdatedCount)
}

func TestMarkRead_IsIdempotent(t *testing.T) {
	f := newFeedFixture()
	f.deliver(t, 1, time.Now().UTC(), 10)
	uc := NewMarkReadUseCase(f.deliveries, f.publisher, 100, f.logger)

	first, err := uc.Execute(context.Background(), 10, []uint{1, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UpdatedCount)

	second, err := uc.Execute(context.Background(), 10, []uint{1})
	require.NoError(t, err)
	assert.Zero(t, second.UpdatedCount)
	assert.Len(t, f.publisher.Read(), 1, "no event when nothing changed")

	read, ok := f.deliveries.IsRead(10, 1)
	require.True(t, ok)
	assert.True(t, read)
}

func TestMarkRead_RejectsMalformedIDList(t *testing.T) {
	f := newFeedFixture()
	uc := NewMarkReadUseCase(f.deliveries, f.publisher, 3, f.logger)

	for name, ids := range map[string][]uint{
		"nil":      nil,
		"empty":    {},
		"zero id":  {1, 0},
		"too many": {1, 2, 3, 4},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), 10, ids)
			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
		})
	}
}

func TestMarkRead_Unauthenticated(t *testing.T) {
	f := newFeedFixture()
	f.deliveries.SetError(assert.AnError)
	uc := NewMarkReadUseCase(f.deliveries, nil, 0, f.logger)

	_, err := uc.Execute(context.Background(), 0, []uint{1})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
}

func TestMarkRead_StoreFailureIsTransient(t *testing.T) {
	f := newFeedFixture()
	f.deliveries.SetError(errors.NewTransientError("failed to mark notifications as read", assert.AnError))
	uc := NewMarkReadUseCase(f.deliveries, nil, 0, f.logger)

	_, err := uc.Execute(context.Background(), 10, []uint{1})
	require.Error(t, err)
	assert.True(t, errors.IsTransientError(err))
}

func TestMarkAllRead(t *testing.T) {
	f := newFeedFixture()
	now := time.Now().UTC()
	f.deliver(t, 1, now, 10, 20)
	f.deliver(t, 2, now, 10)

	uc := NewMarkAllReadUseCase(f.deliveries, f.publisher, f.logger)
	resp, err := uc.Execute(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.UpdatedCount)

	count, err := NewGetUnreadCountUseCase(f.deliveries, f.logger).Execute(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, &dto.UnreadCountResponse{Count: 1}, count)
}
