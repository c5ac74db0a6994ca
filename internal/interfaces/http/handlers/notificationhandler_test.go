package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// =====================================================================
// Mock notification service
// =====================================================================

type mockNotificationService struct {
	createFn            func(ctx context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error)
	dispatchFn          func(ctx context.Context, notificationID uint) (*dto.DispatchResponse, error)
	listUnreadFn        func(ctx context.Context, userID uint) ([]*dto.NotificationItem, error)
	listNotificationsFn func(ctx context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error)
	markReadFn          func(ctx context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error)
	markAllReadFn       func(ctx context.Context, userID uint) (*dto.MarkReadResponse, error)
	getUnreadCountFn    func(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error)
}

func (m *mockNotificationService) Create(ctx context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, nil
}

func (m *mockNotificationService) Dispatch(ctx context.Context, notificationID uint) (*dto.DispatchResponse, error) {
	if m.dispatchFn != nil {
		return m.dispatchFn(ctx, notificationID)
	}
	return nil, nil
}

func (m *mockNotificationService) ListUnread(ctx context.Context, userID uint) ([]*dto.NotificationItem, error) {
	if m.listUnreadFn != nil {
		return m.listUnreadFn(ctx, userID)
	}
	return []*dto.NotificationItem{}, nil
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error) {
	if m.listNotificationsFn != nil {
		return m.listNotificationsFn(ctx, req)
	}
	return &dto.ListResponse{Items: []*dto.NotificationItem{}}, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error) {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, userID, ids)
	}
	return &dto.MarkReadResponse{}, nil
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID uint) (*dto.MarkReadResponse, error) {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx, userID)
	}
	return &dto.MarkReadResponse{}, nil
}

func (m *mockNotificationService) GetUnreadCount(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error) {
	if m.getUnreadCountFn != nil {
		return m.getUnreadCountFn(ctx, userID)
	}
	return &dto.UnreadCountResponse{}, nil
}

func newTestNotificationHandler(svc *mockNotificationService) *NotificationHandler {
	return NewNotificationHandler(svc, testutil.NewMockLogger())
}

func decodeData(t *testing.T, raw []byte, target interface{}) testutil.APIResponse {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	if target != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, target))
	}
	return resp
}

// =====================================================================
// ListUnread
// =====================================================================

func TestNotificationHandler_ListUnread_Success(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var gotUser uint
	svc := &mockNotificationService{
		listUnreadFn: func(_ context.Context, userID uint) ([]*dto.NotificationItem, error) {
			gotUser = userID
			return []*dto.NotificationItem{
				{ID: 12, Message: "Policy updated", MessageHTML: "<p>Policy updated</p>", CreatedAt: created},
			}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications/unread", nil)
	testutil.SetAuthContext(c, 4, "EMPLOYEE")
	handler.ListUnread(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(4), gotUser)

	var items []map[string]interface{}
	resp := decodeData(t, w.Body.Bytes(), &items)
	assert.True(t, resp.Success)
	require.Len(t, items, 1)
	assert.EqualValues(t, 12, items[0]["id"])
	assert.Equal(t, false, items[0]["is_read"])
	assert.Equal(t, "<p>Policy updated</p>", items[0]["message_html"])
	assert.NotContains(t, items[0], "target_url")
}

func TestNotificationHandler_ListUnread_Unauthenticated(t *testing.T) {
	called := false
	svc := &mockNotificationService{
		listUnreadFn: func(context.Context, uint) ([]*dto.NotificationItem, error) {
			called = true
			return nil, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications/unread", nil)
	handler.ListUnread(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called, "store must not be touched")
}

func TestNotificationHandler_ListUnread_TransientError(t *testing.T) {
	svc := &mockNotificationService{
		listUnreadFn: func(context.Context, uint) ([]*dto.NotificationItem, error) {
			return nil, errors.NewTransientError("failed to load notifications", stderrors.New("dial tcp: refused"))
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications/unread", nil)
	testutil.SetAuthContext(c, 4, "EMPLOYEE")
	handler.ListUnread(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))

	resp := decodeData(t, w.Body.Bytes(), nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "transient_error", resp.Error.Type)
	assert.NotContains(t, w.Body.String(), "refused")
}

// =====================================================================
// ListNotifications
// =====================================================================

func TestNotificationHandler_ListNotifications_Params(t *testing.T) {
	var got dto.ListNotificationsRequest
	svc := &mockNotificationService{
		listNotificationsFn: func(_ context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error) {
			got = req
			return &dto.ListResponse{Items: []*dto.NotificationItem{}, Total: 41}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications", nil)
	testutil.SetAuthContext(c, 9, "HR")
	testutil.SetQueryParams(c, map[string]string{"unread_only": "true", "limit": "500", "offset": "20"})
	handler.ListNotifications(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ListNotificationsRequest{UserID: 9, UnreadOnly: true, Limit: 100, Offset: 20}, got)

	var page struct {
		Items  []interface{} `json:"items"`
		Total  int64         `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}
	decodeData(t, w.Body.Bytes(), &page)
	assert.NotNil(t, page.Items)
	assert.EqualValues(t, 41, page.Total)
	assert.Equal(t, 100, page.Limit)
}

func TestNotificationHandler_ListNotifications_BadBool(t *testing.T) {
	handler := newTestNotificationHandler(&mockNotificationService{})

	c, w := testutil.NewTestContext(http.MethodGet, "/notifications", nil)
	testutil.SetAuthContext(c, 9, "HR")
	testutil.SetQueryParams(c, map[string]string{"unread_only": "maybe"})
	handler.ListNotifications(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// MarkRead
// =====================================================================

func TestNotificationHandler_MarkRead_Success(t *testing.T) {
	var gotUser uint
	var gotIDs []uint
	svc := &mockNotificationService{
		markReadFn: func(_ context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error) {
			gotUser, gotIDs = userID, ids
			return &dto.MarkReadResponse{UpdatedCount: 1}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications/read", map[string]interface{}{"ids": []uint{3, 8}})
	testutil.SetAuthContext(c, 2, "EMPLOYEE")
	handler.MarkRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(2), gotUser)
	assert.Equal(t, []uint{3, 8}, gotIDs)

	var result dto.MarkReadResponse
	decodeData(t, w.Body.Bytes(), &result)
	assert.EqualValues(t, 1, result.UpdatedCount)
}

func TestNotificationHandler_MarkRead_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing ids", map[string]interface{}{}},
		{"not json", "{ids:"},
		{"negative id", `{"ids":[-1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockNotificationService{
				markReadFn: func(context.Context, uint, []uint) (*dto.MarkReadResponse, error) {
					called = true
					return nil, nil
				},
			}
			handler := newTestNotificationHandler(svc)

			c, w := testutil.NewTestContext(http.MethodPost, "/notifications/read", tt.body)
			testutil.SetAuthContext(c, 2, "EMPLOYEE")
			handler.MarkRead(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, called)
		})
	}
}

func TestNotificationHandler_MarkRead_ServiceRejectsList(t *testing.T) {
	svc := &mockNotificationService{
		markReadFn: func(context.Context, uint, []uint) (*dto.MarkReadResponse, error) {
			return nil, errors.NewBadRequestError("invalid id list", "ids must not be empty")
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications/read", `{"ids":[]}`)
	testutil.SetAuthContext(c, 2, "EMPLOYEE")
	handler.MarkRead(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// MarkAllRead / GetUnreadCount
// =====================================================================

func TestNotificationHandler_MarkAllReadAndCount(t *testing.T) {
	svc := &mockNotificationService{
		markAllReadFn: func(context.Context, uint) (*dto.MarkReadResponse, error) {
			return &dto.MarkReadResponse{UpdatedCount: 4}, nil
		},
		getUnreadCountFn: func(context.Context, uint) (*dto.UnreadCountResponse, error) {
			return &dto.UnreadCountResponse{Count: 0}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications/read-all", nil)
	testutil.SetAuthContext(c, 2, "EMPLOYEE")
	handler.MarkAllRead(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated_count":4`)

	c, w = testutil.NewTestContext(http.MethodGet, "/notifications/unread-count", nil)
	testutil.SetAuthContext(c, 2, "EMPLOYEE")
	handler.GetUnreadCount(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

// =====================================================================
// Producer endpoints
// =====================================================================

func TestNotificationHandler_CreateNotification(t *testing.T) {
	var got dto.CreateNotificationRequest
	svc := &mockNotificationService{
		createFn: func(_ context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error) {
			got = req
			return &dto.CreateNotificationResponse{
				Notification:   &dto.NotificationResponse{ID: 1, Message: req.Message, RoleTargets: req.RoleTargets},
				RecipientCount: 3,
				DeliveredCount: 3,
			}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	body := map[string]interface{}{"message": "Policy updated", "role_targets": []string{"HR", "ADMIN"}}
	c, w := testutil.NewTestContext(http.MethodPost, "/notifications", body)
	testutil.SetAuthContext(c, 1, "HR")
	handler.CreateNotification(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"HR", "ADMIN"}, got.RoleTargets)

	var result dto.CreateNotificationResponse
	decodeData(t, w.Body.Bytes(), &result)
	assert.EqualValues(t, 3, result.DeliveredCount)
}

func TestNotificationHandler_CreateNotification_Invalid(t *testing.T) {
	svc := &mockNotificationService{
		createFn: func(context.Context, dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error) {
			return nil, errors.NewValidationError("unknown role target", "MANAGER")
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications", map[string]interface{}{})
	handler.CreateNotification(c)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing message")

	c, w = testutil.NewTestContext(http.MethodPost, "/notifications",
		map[string]interface{}{"message": "x", "role_targets": []string{"MANAGER"}})
	handler.CreateNotification(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeData(t, w.Body.Bytes(), nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_error", resp.Error.Type)
}

func TestNotificationHandler_DispatchNotification(t *testing.T) {
	svc := &mockNotificationService{
		dispatchFn: func(_ context.Context, id uint) (*dto.DispatchResponse, error) {
			if id == 404 {
				return nil, errors.NewNotFoundError("notification not found")
			}
			return &dto.DispatchResponse{NotificationID: id, RecipientCount: 5, InsertedCount: 0}, nil
		},
	}
	handler := newTestNotificationHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/notifications/7/dispatch", nil)
	testutil.SetURLParam(c, "id", "7")
	handler.DispatchNotification(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inserted_count":0`)

	c, w = testutil.NewTestContext(http.MethodPost, "/notifications/404/dispatch", nil)
	testutil.SetURLParam(c, "id", "404")
	handler.DispatchNotification(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/notifications/abc/dispatch", nil)
	testutil.SetURLParam(c, "id", "abc")
	handler.DispatchNotification(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
