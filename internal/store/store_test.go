package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lalith-99/huddle/internal/models"
)

func TestIDAllocationRangesAndUniqueness(t *testing.T) {
	s := New()

	seen := make(map[int64]bool)
	for i := 0; i < 500; i++ {
		id := s.NewUserID()
		require.GreaterOrEqual(t, id, int64(1000000))
		require.LessOrEqual(t, id, int64(9999999))
		require.False(t, seen[id], "entity id reused")
		seen[id] = true
	}
	for i := 0; i < 500; i++ {
		id := s.NewMessageID()
		require.GreaterOrEqual(t, id, int64(10000000))
		require.LessOrEqual(t, id, int64(99999999))
		require.False(t, seen[id], "message id reused")
		seen[id] = true
	}
}

func TestContainerMembership(t *testing.T) {
	ch := &models.Channel{ID: 1, Members: []int64{10}, Owners: []int64{10}}
	c := ChannelContainer(ch)

	c.AddMember(20)
	c.AddMember(20)
	require.Equal(t, []int64{10, 20}, ch.Members, "add is idempotent")

	c.AddOwner(20)
	require.True(t, c.HasOwner(20))

	c.RemoveMember(20)
	c.RemoveOwner(20)
	require.False(t, c.HasMember(20))
	require.False(t, c.HasOwner(20))

	c.RemoveMember(99)
	require.Equal(t, []int64{10}, ch.Members, "removing an absent id is a no-op")
}

func TestInsertAndFindMessage(t *testing.T) {
	s := New()
	ch := &models.Channel{ID: s.NewChannelID()}
	s.Channels = append(s.Channels, ch)
	c := ChannelContainer(ch)

	first := &models.Message{ID: s.NewMessageID(), Body: "first"}
	second := &models.Message{ID: s.NewMessageID(), Body: "second"}
	s.InsertMessage(c, first)
	s.InsertMessage(c, second)

	require.Equal(t, "second", ch.Messages[0].Body, "newest first")

	ref, ok := s.FindMessage(first.ID)
	require.True(t, ok)
	require.Equal(t, models.KindChannel, ref.Kind)
	require.Equal(t, 1, ref.Pos)
	require.Same(t, first, ref.Msg)

	_, ok = s.FindMessage(12345678)
	require.False(t, ok)
}

func TestRemoveMessagePrunesIndex(t *testing.T) {
	s := New()
	dm := &models.DM{ID: s.NewDMID()}
	s.DMs = append(s.DMs, dm)
	c := DMContainer(dm)

	msg := &models.Message{ID: s.NewMessageID()}
	s.InsertMessage(c, msg)
	require.Len(t, s.Index, 1)

	ref, ok := s.FindMessage(msg.ID)
	require.True(t, ok)
	s.RemoveMessage(ref)

	require.Empty(t, dm.Messages)
	require.Empty(t, s.Index, "empty index entries are pruned")
	require.True(t, s.UsedIDs[msg.ID], "the id stays burned")
}

func TestRemoveDM(t *testing.T) {
	s := New()
	dm := &models.DM{ID: s.NewDMID()}
	s.DMs = append(s.DMs, dm)
	c := DMContainer(dm)
	s.InsertMessage(c, &models.Message{ID: s.NewMessageID()})
	s.InsertMessage(c, &models.Message{ID: s.NewMessageID()})

	removed := s.RemoveDM(dm)
	require.Equal(t, 2, removed)
	require.Empty(t, s.DMs)
	require.Empty(t, s.Index)
}

func TestSessionHelpers(t *testing.T) {
	u := &models.User{Sessions: []int64{1, 2, 3}}
	require.True(t, HasSession(u, 2))

	DropSession(u, 2)
	require.False(t, HasSession(u, 2))
	require.Equal(t, []int64{1, 3}, u.Sessions)
}

func TestUserLookupVisibility(t *testing.T) {
	s := New()
	u := &models.User{
		ID:    1000001,
		Valid: true,
		Profile: models.Profile{
			UserID: 1000001,
			Handle: "gone",
			Email:  "gone@example.com",
		},
	}
	s.Users = append(s.Users, u)

	require.NotNil(t, s.UserByID(u.ID))
	require.NotNil(t, s.UserByHandle("gone"))

	u.Valid = false
	require.Nil(t, s.UserByID(u.ID), "removed users are invisible to authorization lookups")
	require.Nil(t, s.UserByHandle("gone"))
	require.NotNil(t, s.UserByIDAny(u.ID), "but still resolvable for display")
	require.NotNil(t, s.UserByEmail("gone@example.com"))
	require.True(t, s.HandleTaken("gone"), "their handle stays reserved")
}
