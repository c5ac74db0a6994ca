package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/notifyd/internal/shared/logger"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
}

func TestSafeGo_RunsFn(t *testing.T) {
	ran := false
	waitDone(t, SafeGo(logger.NewLogger(), "test", func() { ran = true }))
	assert.True(t, ran)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := SafeGo(logger.NewNopLogger(), "panicky", func() { panic("boom") })
	waitDone(t, done)
}
