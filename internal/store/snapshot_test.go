package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lalith-99/huddle/internal/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	u := seedUser(s, true)
	ch := &models.Channel{ID: s.NewChannelID(), Name: "general", Members: []int64{u.ID}}
	s.Channels = append(s.Channels, ch)
	s.InsertMessage(ChannelContainer(ch), &models.Message{ID: s.NewMessageID(), Body: "hi"})
	burned := s.NewMessageID()

	data, err := s.Snapshot()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(data))

	require.Len(t, restored.Users, 1)
	require.Len(t, restored.Channels, 1)
	require.Equal(t, "hi", restored.Channels[0].Messages[0].Body)
	require.Len(t, restored.Index, 1)
	require.True(t, restored.UsedIDs[burned], "ids issued but never inserted stay burned across a restore")
}

func TestLoadFile(t *testing.T) {
	s := New()
	seedUser(s, true)
	data, err := s.Snapshot()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fresh := New()
	require.NoError(t, fresh.LoadFile(path))
	require.Len(t, fresh.Users, 1)

	empty := New()
	require.NoError(t, empty.LoadFile(filepath.Join(t.TempDir(), "missing.json")),
		"a missing snapshot file is not an error")
	require.Empty(t, empty.Users)
}
