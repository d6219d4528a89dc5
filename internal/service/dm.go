package service

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

// DMCreateResult carries the id and derived name of a new DM.
type DMCreateResult struct {
	DMID int64  `json:"dm_id"`
	Name string `json:"dm_name"`
}

// DMCreate opens a direct-message group between the caller and the listed
// users. The caller is the sole owner; the name is the alphabetically sorted
// comma-joined handles of everyone in it at creation time.
func (s *Service) DMCreate(token string, userIDs []int64) (DMCreateResult, error) {
	s.st.Lock()
	defer s.st.Unlock()

	creator, _, err := s.authorize(token)
	if err != nil {
		return DMCreateResult{}, err
	}

	seen := map[int64]bool{creator.ID: true}
	members := []*models.User{creator}
	for _, id := range userIDs {
		if seen[id] {
			return DMCreateResult{}, inputError("duplicate user %d in dm member list", id)
		}
		u := s.st.UserByID(id)
		if u == nil {
			return DMCreateResult{}, inputError("user %d does not exist", id)
		}
		seen[id] = true
		members = append(members, u)
	}

	handles := make([]string, 0, len(members))
	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		handles = append(handles, m.Profile.Handle)
		memberIDs = append(memberIDs, m.ID)
	}
	sort.Strings(handles)

	dm := &models.DM{
		ID:      s.st.NewDMID(),
		Name:    strings.Join(handles, ", "),
		Members: memberIDs,
		Owners:  []int64{creator.ID},
	}
	s.st.DMs = append(s.st.DMs, dm)

	s.st.BumpUserStat(memberIDs, store.StatDMs, 1)
	s.st.BumpSystemStat(store.StatDMs, 1)

	c := store.DMContainer(dm)
	for _, m := range members[1:] {
		s.notifyAdded(creator, m, c)
	}

	s.logger.Info("dm created",
		zap.Int64("dm_id", dm.ID),
		zap.Int64("user_id", creator.ID),
		zap.Int("members", len(memberIDs)),
	)
	s.persist()
	return DMCreateResult{DMID: dm.ID, Name: dm.Name}, nil
}

// DMList returns the DMs the caller belongs to.
func (s *Service) DMList(token string) ([]DMSummary, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	out := []DMSummary{}
	for _, dm := range s.st.DMs {
		if store.DMContainer(dm).HasMember(u.ID) {
			out = append(out, DMSummary{ID: dm.ID, Name: dm.Name})
		}
	}
	return out, nil
}

// DMInvite adds a user to an existing DM. Inviting a current member is a
// success no-op. The DM's name is not recomputed.
func (s *Service) DMInvite(token string, dmID, userID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	inviter, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasMember(inviter.ID) {
		return accessError("user %d is not a member of dm %d", inviter.ID, dmID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if c.HasMember(target.ID) {
		return nil
	}

	c.AddMember(target.ID)
	s.st.BumpUserStat([]int64{target.ID}, store.StatDMs, 1)
	s.notifyAdded(inviter, target, c)
	s.persist()
	return nil
}

// DMLeave removes the caller from a DM. The DM survives with its name
// unchanged even if nobody is left.
func (s *Service) DMLeave(token string, dmID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasMember(u.ID) {
		return accessError("user %d is not a member of dm %d", u.ID, dmID)
	}

	c.RemoveMember(u.ID)
	c.RemoveOwner(u.ID)
	s.st.BumpUserStat([]int64{u.ID}, store.StatDMs, -1)
	s.persist()
	return nil
}

// DMDetails returns a DM's name and resolved member profiles.
func (s *Service) DMDetails(token string, dmID int64) (DMDetails, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return DMDetails{}, err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return DMDetails{}, inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasMember(u.ID) {
		return DMDetails{}, accessError("user %d is not a member of dm %d", u.ID, dmID)
	}

	return DMDetails{
		Name:    dm.Name,
		Members: s.profilesFor(dm.Members),
	}, nil
}

// DMRemove deletes a whole DM. Only the original creator may do this. All
// remaining members lose a DM membership and the system message count drops
// by every message the DM held.
func (s *Service) DMRemove(token string, dmID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasOwner(u.ID) {
		return accessError("user %d is not the creator of dm %d", u.ID, dmID)
	}

	members := append([]int64(nil), dm.Members...)
	removed := s.st.RemoveDM(dm)

	s.st.BumpUserStat(members, store.StatDMs, -1)
	s.st.BumpSystemStat(store.StatDMs, -1)
	for i := 0; i < removed; i++ {
		s.st.BumpSystemStat(store.StatMessages, -1)
	}

	s.logger.Info("dm removed",
		zap.Int64("dm_id", dmID),
		zap.Int("messages_removed", removed),
	)
	s.persist()
	return nil
}

// DMMessages returns the page of up to 50 messages starting at the given
// offset from the newest.
func (s *Service) DMMessages(token string, dmID int64, start int) (MessagesPage, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return MessagesPage{}, err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return MessagesPage{}, inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasMember(u.ID) {
		return MessagesPage{}, accessError("user %d is not a member of dm %d", u.ID, dmID)
	}
	return messagesPage(c, u.ID, start)
}
