package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/application/notification/testutil"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/services/markdown"
)

type createFixture struct {
	notifs     *testutil.MockNotificationRepository
	deliveries *testutil.MockDeliveryRepository
	tx         *testutil.MockTransactionManager
	publisher  *testutil.MockPublisher
	logger     *testutil.MockLogger
	uc         *CreateNotificationUseCase
}

func newCreateFixture() *createFixture {
	f := &createFixture{
		notifs:    testutil.NewMockNotificationRepository(),
		tx:        testutil.NewMockTransactionManager(),
		publisher: testutil.NewMockPublisher(),
		logger:    testutil.NewMockLogger(),
	}
	f.deliveries = testutil.NewMockDeliveryRepository(f.notifs)
	resolver := NewFanoutResolver(directoryFixture(), f.logger)
	f.uc = NewCreateNotificationUseCase(f.notifs, f.deliveries, resolver, f.tx, f.publisher, markdown.NewMarkdownService(), f.logger)
	return f
}

func TestCreateNotification_RoleTargets(t *testing.T) {
	f := newCreateFixture()

	resp, err := f.uc.Execute(context.Background(), dto.CreateNotificationRequest{
		Message:     "Policy updated",
		RoleTargets: []string{"HR", "ADMIN"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.DeliveredCount)
	assert.Equal(t, 3, resp.RecipientCount)
	assert.Equal(t, []string{"ADMIN", "HR"}, resp.Notification.RoleTargets)
	assert.Contains(t, resp.Notification.MessageHTML, "Policy updated")
	assert.Equal(t, 1, f.tx.Calls())

	id := resp.Notification.ID
	assert.Equal(t, 3, f.deliveries.RowCount(id))
	for _, uid := range []uint{1, 2, 3} {
		read, ok := f.deliveries.IsRead(uid, id)
		assert.True(t, ok)
		assert.False(t, read, "new deliveries start unread")
	}

	delivered := f.publisher.Delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, id, delivered[0].NotificationID)
	assert.Equal(t, []uint{1, 2, 3}, delivered[0].UserIDs)
}

func TestCreateNotification_DirectRecipient(t *testing.T) {
	f := newCreateFixture()
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, dto.CreateNotificationRequest{
		Message:           "Your leave request was approved",
		RecipientUsername: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.DeliveredCount)

	aliceUnread, err := f.deliveries.FindUnreadForUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, aliceUnread, 1)
	assert.Equal(t, resp.Notification.ID, aliceUnread[0].Notification.ID())

	bobUnread, err := f.deliveries.FindUnreadForUser(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, bobUnread)
}

func TestCreateNotification_EmptyTarget(t *testing.T) {
	f := newCreateFixture()

	resp, err := f.uc.Execute(context.Background(), dto.CreateNotificationRequest{Message: "Nobody hears this"})
	require.NoError(t, err)

	assert.Zero(t, resp.DeliveredCount)
	assert.Equal(t, 1, f.notifs.Count(), "notification is still stored")
	assert.True(t, f.logger.HasEntry("WARN", "notification target resolved to no recipients"))
	assert.Empty(t, f.publisher.Delivered())
}

func TestCreateNotification_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateNotificationRequest
	}{
		{name: "missing message", req: dto.CreateNotificationRequest{RoleTargets: []string{"HR"}}},
		{name: "blank message", req: dto.CreateNotificationRequest{Message: "   ", RoleTargets: []string{"HR"}}},
		{name: "unknown role", req: dto.CreateNotificationRequest{Message: "hi", RoleTargets: []string{"CONTRACTOR"}}},
		{name: "empty role string", req: dto.CreateNotificationRequest{Message: "hi", RoleTargets: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
			assert.Zero(t, f.notifs.Count(), "nothing is written on validation failure")
			assert.Zero(t, f.tx.Calls())
		})
	}
}

func TestCreateNotification_StoreFailureIsTransient(t *testing.T) {
	f := newCreateFixture()
	f.notifs.SetCreateError(errors.NewTransientError("failed to create notification", assert.AnError))

	_, err := f.uc.Execute(context.Background(), dto.CreateNotificationRequest{
		Message:     "Policy updated",
		RoleTargets: []string{"EVERYONE"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsTransientError(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, f.publisher.Delivered())
}

func TestCreateNotification_PublishFailureIsNotFatal(t *testing.T) {
	f := newCreateFixture()
	f.publisher.SetError(assert.AnError)

	resp, err := f.uc.Execute(context.Background(), dto.CreateNotificationRequest{
		Message:     "Policy updated",
		RoleTargets: []string{"EMPLOYEE"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeliveredCount)
	assert.True(t, f.logger.HasEntry("WARN", "failed to publish delivery event"))
}
