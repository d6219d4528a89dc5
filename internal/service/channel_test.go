package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelCreateAndList(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	channels, err := svc.ChannelsList(alice.Token)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, id, channels[0].ID)
	require.Equal(t, "general", channels[0].Name)

	// Bob is not a member but sees it in listall.
	channels, err = svc.ChannelsList(bob.Token)
	require.NoError(t, err)
	require.Empty(t, channels)

	all, err := svc.ChannelsListAll(bob.Token)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestChannelCreateNameTooLong(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")

	_, err := svc.ChannelsCreate(alice.Token, strings.Repeat("x", 21), true)
	require.True(t, IsInput(err))
}

func TestChannelInviteIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	require.NoError(t, svc.ChannelInvite(alice.Token, id, bob.UserID))
	require.NoError(t, svc.ChannelInvite(alice.Token, id, bob.UserID))
	require.NoError(t, svc.ChannelInvite(alice.Token, id, bob.UserID))

	details, err := svc.ChannelDetails(alice.Token, id)
	require.NoError(t, err)

	count := 0
	for _, p := range details.Members {
		if p.UserID == bob.UserID {
			count++
		}
	}
	require.Equal(t, 1, count, "bob should appear exactly once")
}

func TestChannelInviteErrors(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	err = svc.ChannelInvite(alice.Token, 42, bob.UserID)
	require.True(t, IsInput(err), "unknown channel")
	err = svc.ChannelInvite(bob.Token, id, alice.UserID)
	require.True(t, IsAccess(err), "inviter not a member")
	err = svc.ChannelInvite(alice.Token, id, 42)
	require.True(t, IsInput(err), "unknown invitee")
}

func TestChannelJoin(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")
	carol := register(t, svc, "carol@example.com", "Carol", "Danvers")

	public, err := svc.ChannelsCreate(alice.Token, "public", true)
	require.NoError(t, err)
	private, err := svc.ChannelsCreate(bob.Token, "private", false)
	require.NoError(t, err)

	require.NoError(t, svc.ChannelJoin(bob.Token, public))
	require.NoError(t, svc.ChannelJoin(bob.Token, public), "rejoin is a no-op")

	// Carol is a plain member, Alice is the first user and a global owner.
	err = svc.ChannelJoin(carol.Token, private)
	require.True(t, IsAccess(err))

	require.NoError(t, svc.ChannelJoin(alice.Token, private))
	details, err := svc.ChannelDetails(alice.Token, private)
	require.NoError(t, err)

	ownerIDs := make([]int64, 0, len(details.Owners))
	for _, p := range details.Owners {
		ownerIDs = append(ownerIDs, p.UserID)
	}
	require.Contains(t, ownerIDs, alice.UserID, "global owner gets channel ownership on joining a private channel")
}

func TestChannelJoinPrivateMemberDenied(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	private, err := svc.ChannelsCreate(alice.Token, "secret", false)
	require.NoError(t, err)

	err = svc.ChannelJoin(bob.Token, private)
	require.True(t, IsAccess(err))
}

func TestChannelLeaveStats(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, svc.ChannelJoin(bob.Token, id))
	require.NoError(t, svc.ChannelLeave(bob.Token, id))

	details, err := svc.ChannelDetails(alice.Token, id)
	require.NoError(t, err)
	for _, p := range details.Members {
		require.NotEqual(t, bob.UserID, p.UserID, "bob should be gone from all_members")
	}

	stats, err := svc.UserStats(bob.Token)
	require.NoError(t, err)
	counts := make([]int, 0, len(stats.ChannelsJoined))
	for _, p := range stats.ChannelsJoined {
		counts = append(counts, p.Count)
	}
	require.Equal(t, []int{0, 1, 0}, counts, "series records the join then the leave")
}

func TestChannelAddOwner(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "owner@example.com", "Olive", "Yang")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")
	carol := register(t, svc, "carol@example.com", "Carol", "Danvers")

	id, err := svc.ChannelsCreate(owner.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, svc.ChannelJoin(bob.Token, id))

	err = svc.ChannelAddOwner(bob.Token, id, bob.UserID)
	require.True(t, IsAccess(err), "plain member cannot grant ownership")

	require.NoError(t, svc.ChannelAddOwner(owner.Token, id, bob.UserID))
	err = svc.ChannelAddOwner(owner.Token, id, bob.UserID)
	require.True(t, IsInput(err), "already an owner")

	// Carol is not a member; granting ownership promotes her to both lists.
	require.NoError(t, svc.ChannelAddOwner(owner.Token, id, carol.UserID))
	details, err := svc.ChannelDetails(owner.Token, id)
	require.NoError(t, err)

	memberIDs := make([]int64, 0, len(details.Members))
	for _, p := range details.Members {
		memberIDs = append(memberIDs, p.UserID)
	}
	require.Contains(t, memberIDs, carol.UserID)
}

func TestChannelRemoveOwnerLastOwnerGuard(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "owner@example.com", "Olive", "Yang")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	id, err := svc.ChannelsCreate(owner.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, svc.ChannelJoin(bob.Token, id))

	err = svc.ChannelRemoveOwner(owner.Token, id, owner.UserID)
	require.True(t, IsInput(err), "cannot remove the only owner")

	require.NoError(t, svc.ChannelAddOwner(owner.Token, id, bob.UserID))
	require.NoError(t, svc.ChannelRemoveOwner(bob.Token, id, owner.UserID))

	err = svc.ChannelRemoveOwner(bob.Token, id, owner.UserID)
	require.True(t, IsInput(err), "target no longer an owner")
}

func TestChannelMessagesPagination(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	for i := 0; i < 52; i++ {
		_, err := svc.MessageSend(alice.Token, id, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	page, err := svc.ChannelMessages(alice.Token, id, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)
	require.Equal(t, 0, page.Start)
	require.Equal(t, 50, page.End)
	require.Equal(t, "message 51", page.Messages[0].Body, "newest first")

	page, err = svc.ChannelMessages(alice.Token, id, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.Equal(t, -1, page.End, "window reached the oldest message")

	_, err = svc.ChannelMessages(alice.Token, id, 53)
	require.True(t, IsInput(err), "start beyond message count")
}

func TestChannelDetailsProfilesAreLive(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)

	require.NoError(t, svc.UserSetName(alice.Token, "Alicia", "Ng"))

	details, err := svc.ChannelDetails(alice.Token, id)
	require.NoError(t, err)
	require.Equal(t, "Alicia", details.Members[0].FirstName, "membership resolves through the live profile")
}

func TestInvolvementAndUtilization(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	stats, err := svc.UserStats(alice.Token)
	require.NoError(t, err)
	require.Zero(t, stats.InvolvementRate, "zero when nothing exists yet")

	id, err := svc.ChannelsCreate(alice.Token, "general", true)
	require.NoError(t, err)
	_, err = svc.MessageSend(alice.Token, id, "hello")
	require.NoError(t, err)

	stats, err = svc.UserStats(alice.Token)
	require.NoError(t, err)
	require.InDelta(t, 1.0, stats.InvolvementRate, 1e-9)

	sys, err := svc.UsersStats(bob.Token)
	require.NoError(t, err)
	require.InDelta(t, 0.5, sys.UtilizationRate, 1e-9, "one of two valid users belongs to something")
}
