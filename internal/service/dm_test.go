package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDMCreateName(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")
	carol := register(t, svc, "carol@example.com", "Carol", "Danvers")

	res, err := svc.DMCreate(alice.Token, []int64{carol.UserID, bob.UserID})
	require.NoError(t, err)
	require.Equal(t, "alicenguyen, bobli, caroldanvers", res.Name, "sorted comma-joined handles")

	details, err := svc.DMDetails(bob.Token, res.DMID)
	require.NoError(t, err)
	require.Len(t, details.Members, 3)
}

func TestDMCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	_, err := svc.DMCreate(alice.Token, []int64{bob.UserID, bob.UserID})
	require.True(t, IsInput(err), "duplicate member")
	_, err = svc.DMCreate(alice.Token, []int64{42})
	require.True(t, IsInput(err), "unknown member")
}

func TestDMInviteIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")
	carol := register(t, svc, "carol@example.com", "Carol", "Danvers")

	res, err := svc.DMCreate(alice.Token, []int64{bob.UserID})
	require.NoError(t, err)

	require.NoError(t, svc.DMInvite(alice.Token, res.DMID, carol.UserID))
	require.NoError(t, svc.DMInvite(alice.Token, res.DMID, carol.UserID))

	details, err := svc.DMDetails(alice.Token, res.DMID)
	require.NoError(t, err)

	count := 0
	for _, p := range details.Members {
		if p.UserID == carol.UserID {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Equal(t, "alicenguyen, bobli", details.Name, "name is fixed at creation")

	err = svc.DMInvite(carol.Token, 42, bob.UserID)
	require.True(t, IsInput(err), "unknown dm")
}

func TestDMLeave(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	res, err := svc.DMCreate(alice.Token, []int64{bob.UserID})
	require.NoError(t, err)

	require.NoError(t, svc.DMLeave(bob.Token, res.DMID))

	_, err = svc.DMDetails(bob.Token, res.DMID)
	require.True(t, IsAccess(err), "bob no longer a member")

	dms, err := svc.DMList(bob.Token)
	require.NoError(t, err)
	require.Empty(t, dms)
}

func TestDMRemove(t *testing.T) {
	svc, _ := newTestService(t)
	alice := register(t, svc, "alice@example.com", "Alice", "Nguyen")
	bob := register(t, svc, "bob@example.com", "Bob", "Li")

	res, err := svc.DMCreate(alice.Token, []int64{bob.UserID})
	require.NoError(t, err)

	_, err = svc.MessageSendDM(alice.Token, res.DMID, "one")
	require.NoError(t, err)
	_, err = svc.MessageSendDM(bob.Token, res.DMID, "two")
	require.NoError(t, err)

	err = svc.DMRemove(bob.Token, res.DMID)
	require.True(t, IsAccess(err), "only the creator may remove a dm")

	require.NoError(t, svc.DMRemove(alice.Token, res.DMID))

	_, err = svc.DMDetails(alice.Token, res.DMID)
	require.True(t, IsInput(err))

	sys, err := svc.UsersStats(alice.Token)
	require.NoError(t, err)
	require.Equal(t, 0, sys.MessagesExist[len(sys.MessagesExist)-1].Count,
		"every message the dm held is deducted")
	require.Equal(t, 0, sys.DMsExist[len(sys.DMsExist)-1].Count)
}
