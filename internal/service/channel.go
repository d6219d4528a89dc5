package service

import (
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

// ChannelsCreate makes a new channel with the caller as its only member and
// owner.
func (s *Service) ChannelsCreate(token, name string, public bool) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	if len([]rune(name)) > maxChannelNameLen {
		return 0, inputError("channel name is longer than %d characters", maxChannelNameLen)
	}

	ch := &models.Channel{
		ID:      s.st.NewChannelID(),
		Name:    name,
		Public:  public,
		Members: []int64{u.ID},
		Owners:  []int64{u.ID},
	}
	s.st.Channels = append(s.st.Channels, ch)

	s.st.BumpUserStat([]int64{u.ID}, store.StatChannels, 1)
	s.st.BumpSystemStat(store.StatChannels, 1)

	s.logger.Info("channel created",
		zap.Int64("channel_id", ch.ID),
		zap.Int64("user_id", u.ID),
	)
	s.persist()
	return ch.ID, nil
}

// ChannelsList returns the channels the caller belongs to.
func (s *Service) ChannelsList(token string) ([]ChannelSummary, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	out := []ChannelSummary{}
	for _, ch := range s.st.Channels {
		if store.ChannelContainer(ch).HasMember(u.ID) {
			out = append(out, ChannelSummary{ID: ch.ID, Name: ch.Name})
		}
	}
	return out, nil
}

// ChannelsListAll returns every channel, public or private.
func (s *Service) ChannelsListAll(token string) ([]ChannelSummary, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if _, _, err := s.authorize(token); err != nil {
		return nil, err
	}
	out := []ChannelSummary{}
	for _, ch := range s.st.Channels {
		out = append(out, ChannelSummary{ID: ch.ID, Name: ch.Name})
	}
	return out, nil
}

// ChannelInvite adds another user to a channel the caller belongs to.
// Inviting an existing member is a success no-op.
func (s *Service) ChannelInvite(token string, channelID, userID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	inviter, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasMember(inviter.ID) {
		return accessError("user %d is not a member of channel %d", inviter.ID, channelID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if c.HasMember(target.ID) {
		return nil
	}

	s.addToChannel(inviter, target, c)
	s.persist()
	return nil
}

// ChannelJoin adds the caller to a channel. Private channels admit only
// global owners, who also get channel ownership on entry. Joining a channel
// the caller already belongs to is a success no-op.
func (s *Service) ChannelJoin(token string, channelID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if c.HasMember(u.ID) {
		return nil
	}
	if !ch.Public && u.Permission != models.PermOwner {
		return accessError("channel %d is private", channelID)
	}

	c.AddMember(u.ID)
	if u.Permission == models.PermOwner {
		c.AddOwner(u.ID)
	}
	s.st.BumpUserStat([]int64{u.ID}, store.StatChannels, 1)
	s.persist()
	return nil
}

// addToChannel performs the shared invite/add mutation: membership, global
// owner privilege, stats, notification.
func (s *Service) addToChannel(actor *models.User, target *models.User, c store.Container) {
	c.AddMember(target.ID)
	if target.Permission == models.PermOwner {
		c.AddOwner(target.ID)
	}
	s.st.BumpUserStat([]int64{target.ID}, store.StatChannels, 1)
	s.notifyAdded(actor, target, c)
}

// ChannelLeave removes the caller from a channel's member and owner lists.
func (s *Service) ChannelLeave(token string, channelID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasMember(u.ID) {
		return accessError("user %d is not a member of channel %d", u.ID, channelID)
	}

	c.RemoveMember(u.ID)
	c.RemoveOwner(u.ID)
	s.st.BumpUserStat([]int64{u.ID}, store.StatChannels, -1)
	s.persist()
	return nil
}

// ChannelDetails returns a channel's name, visibility and resolved member
// profiles.
func (s *Service) ChannelDetails(token string, channelID int64) (ChannelDetails, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return ChannelDetails{}, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return ChannelDetails{}, inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasMember(u.ID) {
		return ChannelDetails{}, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}

	return ChannelDetails{
		Name:    ch.Name,
		Public:  ch.Public,
		Owners:  s.profilesFor(ch.Owners),
		Members: s.profilesFor(ch.Members),
	}, nil
}

// ChannelMessages returns the page of up to 50 messages starting at the
// given offset from the newest.
func (s *Service) ChannelMessages(token string, channelID int64, start int) (MessagesPage, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return MessagesPage{}, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return MessagesPage{}, inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasMember(u.ID) {
		return MessagesPage{}, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}
	return messagesPage(c, u.ID, start)
}

// ChannelAddOwner grants channel ownership. A target who is not yet a member
// is promoted to member and owner at once.
func (s *Service) ChannelAddOwner(token string, channelID, userID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	actor, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasOwner(actor.ID) && actor.Permission != models.PermOwner {
		return accessError("user %d is not an owner of channel %d", actor.ID, channelID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if c.HasOwner(target.ID) {
		return inputError("user %d is already an owner of channel %d", userID, channelID)
	}

	if !c.HasMember(target.ID) {
		c.AddMember(target.ID)
		s.st.BumpUserStat([]int64{target.ID}, store.StatChannels, 1)
		s.notifyAdded(actor, target, c)
	}
	c.AddOwner(target.ID)
	s.persist()
	return nil
}

// ChannelRemoveOwner revokes channel ownership, keeping plain membership.
// The last owner cannot be removed.
func (s *Service) ChannelRemoveOwner(token string, channelID, userID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	actor, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasOwner(actor.ID) && actor.Permission != models.PermOwner {
		return accessError("user %d is not an owner of channel %d", actor.ID, channelID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if !c.HasOwner(target.ID) {
		return inputError("user %d is not an owner of channel %d", userID, channelID)
	}
	if len(ch.Owners) == 1 {
		return inputError("channel %d has no other owners", channelID)
	}

	c.RemoveOwner(target.ID)
	s.persist()
	return nil
}
