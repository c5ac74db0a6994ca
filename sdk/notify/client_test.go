package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_ListUnread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/unread", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 7, "message": "Payroll closes Friday", "created_at": "2026-01-02T03:04:05Z", "is_read": false},
			},
		})
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL+"/", "tok").ListUnread(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(7), items[0].ID)
	assert.Equal(t, "Payroll closes Friday", items[0].Message)
	assert.Nil(t, items[0].TargetURL)
}

func TestClient_ListUnread_EmptyIsNonNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": nil})
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL, "tok").ListUnread(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_MarkRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications/read", r.URL.Path)

		var body struct {
			IDs []uint `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []uint{1, 2}, body.IDs)

		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"updated_count": 1},
		})
	}))
	defer srv.Close()

	n, err := NewClient(srv.URL, "tok").MarkRead(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		errType    string
		retryAfter string
		retryable  bool
	}{
		{"validation", http.StatusBadRequest, "validation_error", "", false},
		{"unauthorized", http.StatusUnauthorized, "unauthorized", "", false},
		{"transient", http.StatusServiceUnavailable, "transient_error", "5", true},
		{"rate limited", http.StatusTooManyRequests, "bad_request", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				writeEnvelope(w, tt.status, map[string]any{
					"success": false,
					"error":   map[string]any{"type": tt.errType, "message": "boom"},
				})
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok").UnreadCount(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.errType, apiErr.Type)
			assert.Equal(t, "boom", apiErr.Message)
			assert.Equal(t, tt.retryable, apiErr.Retryable())
			if tt.retryAfter != "" {
				assert.Equal(t, 5*time.Second, apiErr.RetryAfter)
			}
		})
	}
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"EMPLOYEE"}, req.RoleTargets)

		writeEnvelope(w, http.StatusCreated, map[string]any{
			"success": true,
			"data": map[string]any{
				"notification":    map[string]any{"id": 3, "message": req.Message, "role_targets": req.RoleTargets},
				"recipient_count": 2,
				"delivered_count": 2,
			},
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "tok").Create(context.Background(), CreateRequest{
		Message:     "Benefits enrollment is open",
		RoleTargets: []string{"EMPLOYEE"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), res.Notification.ID)
	assert.Equal(t, 2, res.RecipientCount)
	assert.Equal(t, int64(2), res.DeliveredCount)
}
