package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/scheduler"
	"github.com/lalith-99/huddle/internal/store"
)

// newTestService builds a service on a fresh store with persistence, mail
// and live events disabled.
func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New()
	logger := zap.NewNop()
	svc := New(st, logger, "test-secret", "", nil, scheduler.New(logger), nil)
	return svc, st
}

func register(t *testing.T, svc *Service, email, first, last string) AuthResult {
	t.Helper()
	res, err := svc.Register(email, "password123", first, last)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestSnapshotPersistence(t *testing.T) {
	st := store.New()
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "snap.json")
	svc := New(st, logger, "test-secret", path, nil, scheduler.New(logger), nil)

	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	_, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	// Writes are asynchronous but land whole: a load either sees a complete
	// snapshot or the previous one, never a torn file.
	require.Eventually(t, func() bool {
		fresh := store.New()
		if err := fresh.LoadFile(path); err != nil {
			return false
		}
		return len(fresh.Users) == 1 && len(fresh.Channels) == 1
	}, 3*time.Second, 50*time.Millisecond)
}
