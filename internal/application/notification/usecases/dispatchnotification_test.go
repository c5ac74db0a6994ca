package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/application/notification/testutil"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

func TestDispatchNotification_IsIdempotent(t *testing.T) {
	f := newCreateFixture()
	ctx := context.Background()

	created, err := f.uc.Execute(ctx, dto.CreateNotificationRequest{
		Message:     "Benefits enrollment opens Monday",
		RoleTargets: []string{"EVERYONE"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), created.DeliveredCount)

	dispatch := NewDispatchNotificationUseCase(f.notifs, f.deliveries, NewFanoutResolver(directoryFixture(), f.logger), f.publisher, f.logger)

	resp, err := dispatch.Execute(ctx, created.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.RecipientCount)
	assert.Zero(t, resp.InsertedCount, "second fan-out inserts nothing")
	assert.Equal(t, 5, f.deliveries.RowCount(created.Notification.ID))
	assert.Len(t, f.publisher.Delivered(), 1, "no event when nothing new was delivered")
}

func TestDispatchNotification_PicksUpNewUsers(t *testing.T) {
	f := newCreateFixture()
	ctx := context.Background()

	created, err := f.uc.Execute(ctx, dto.CreateNotificationRequest{
		Message:     "HR sync at 3pm",
		RoleTargets: []string{"HR"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.DeliveredCount)

	grown := directoryFixture()
	grown.AddUser(testutil.DirectoryUser{ID: 7, Username: "irene", Role: authorization.RoleHR, Active: true})
	dispatch := NewDispatchNotificationUseCase(f.notifs, f.deliveries, NewFanoutResolver(grown, f.logger), f.publisher, f.logger)

	resp, err := dispatch.Execute(ctx, created.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.InsertedCount)

	delivered := f.publisher.Delivered()
	require.Len(t, delivered, 2)
	assert.Equal(t, []uint{7}, delivered[1].UserIDs, "only the newly inserted recipient is hinted")
}

func TestDispatchNotification_StoreFailure(t *testing.T) {
	f := newCreateFixture()
	ctx := context.Background()

	created, err := f.uc.Execute(ctx, dto.CreateNotificationRequest{
		Message:     "HR sync at 3pm",
		RoleTargets: []string{"HR"},
	})
	require.NoError(t, err)

	f.deliveries.SetError(errors.NewTransientError("db down", nil))
	dispatch := NewDispatchNotificationUseCase(f.notifs, f.deliveries, NewFanoutResolver(directoryFixture(), f.logger), f.publisher, f.logger)

	_, err = dispatch.Execute(ctx, created.Notification.ID)
	require.Error(t, err)
	assert.Len(t, f.publisher.Delivered(), 1)
}

func TestDispatchNotification_NotFound(t *testing.T) {
	f := newCreateFixture()
	dispatch := NewDispatchNotificationUseCase(f.notifs, f.deliveries, NewFanoutResolver(directoryFixture(), f.logger), nil, f.logger)

	_, err := dispatch.Execute(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
