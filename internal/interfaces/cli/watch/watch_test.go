package watch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/sdk/notify"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("12, #13 14")
	require.NoError(t, err)
	assert.Equal(t, []uint{12, 13, 14}, ids)

	_, err = parseIDs("12,abc")
	assert.Error(t, err)

	_, err = parseIDs("0")
	assert.Error(t, err)
}

func TestRenderItem(t *testing.T) {
	url := "/policies/leave"
	out := renderItem(notify.Item{
		ID:        42,
		Message:   "Leave policy updated",
		CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		TargetURL: &url,
	})

	assert.Contains(t, out, "#42")
	assert.Contains(t, out, "Leave policy updated")
	assert.Contains(t, out, "/policies/leave")
}

type fakeAcker struct {
	ids [][]uint
	err error
}

func (f *fakeAcker) Acknowledge(ids ...uint) error {
	f.ids = append(f.ids, ids)
	return f.err
}

type fakeMarker struct {
	calls int
}

func (f *fakeMarker) MarkAllRead(ctx context.Context) (int64, error) {
	f.calls++
	return 3, nil
}

func TestReadCommands(t *testing.T) {
	var out bytes.Buffer
	acker := &fakeAcker{}
	marker := &fakeMarker{}

	in := strings.NewReader("7\n\nall\nbogus\n8,9\nq\n10\n")
	readCommands(context.Background(), in, marker, acker, newTerminalPresenter(&out))

	assert.Equal(t, [][]uint{{7}, {8, 9}}, acker.ids)
	assert.Equal(t, 1, marker.calls)
	assert.Contains(t, out.String(), "marked 3 read")
	assert.Contains(t, out.String(), "invalid id")
}

func TestReadCommands_AckError(t *testing.T) {
	var out bytes.Buffer
	acker := &fakeAcker{err: errors.New("queue full")}

	readCommands(context.Background(), strings.NewReader("1\n"), &fakeMarker{}, acker, newTerminalPresenter(&out))

	assert.Contains(t, out.String(), "ack failed: queue full")
}
