package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAfterFires(t *testing.T) {
	s := New(zap.NewNop())

	var fired atomic.Bool
	s.After(10*time.Millisecond, "test", func() { fired.Store(true) })

	require.Eventually(t, fired.Load, time.Second, 5*time.Millisecond)
}

func TestAfterNegativeDelayFiresImmediately(t *testing.T) {
	s := New(zap.NewNop())

	done := make(chan struct{})
	s.After(-time.Second, "test", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestAfterDoesNotBlockCaller(t *testing.T) {
	s := New(zap.NewNop())

	start := time.Now()
	s.After(200*time.Millisecond, "test", func() {})
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
