package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lalith-99/huddle/internal/models"
)

// snapshot is the on-disk shape of the store. Persistence is best effort:
// a failed save is logged by the caller and never fails the operation that
// triggered it.
type snapshot struct {
	Users    []*models.User       `json:"users"`
	Channels []*models.Channel    `json:"channels"`
	DMs      []*models.DM         `json:"dms"`
	Index    []*models.IndexEntry `json:"msg_positions"`
	Stats    models.SystemStats   `json:"system_stats"`
	UsedIDs  []int64              `json:"used_ids"`
}

// Snapshot serializes the current state. The caller must hold the store
// lock; the returned bytes can then be written outside the critical section.
func (s *Store) Snapshot() ([]byte, error) {
	snap := snapshot{
		Users:    s.Users,
		Channels: s.Channels,
		DMs:      s.DMs,
		Index:    s.Index,
		Stats:    s.Stats,
	}
	snap.UsedIDs = make([]int64, 0, len(s.UsedIDs))
	for id := range s.UsedIDs {
		snap.UsedIDs = append(snap.UsedIDs, id)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the store state with a previously serialized snapshot.
// The caller must hold the store lock.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	s.Users = snap.Users
	s.Channels = snap.Channels
	s.DMs = snap.DMs
	s.Index = snap.Index
	s.Stats = snap.Stats
	s.UsedIDs = make(map[int64]bool, len(snap.UsedIDs))
	for _, id := range snap.UsedIDs {
		s.UsedIDs[id] = true
	}
	return nil
}

// LoadFile restores state from path at process start. A missing file is not
// an error; the store simply starts empty.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}
	s.Lock()
	defer s.Unlock()
	return s.Restore(data)
}
