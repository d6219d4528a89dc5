package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

// validBodyLen rejects empty bodies and bodies over the 1000-character cap.
func validBodyLen(body string) error {
	n := len([]rune(body))
	if n < 1 || n > maxMessageLen {
		return inputError("message length must be between 1 and %d characters", maxMessageLen)
	}
	return nil
}

// deliver inserts a freshly built message and does the bookkeeping every
// insert shares: stats, tag notifications, live event. tagSource is the text
// scanned for @handle tags, which for shares is only the added comment.
// Caller holds the store lock.
func (s *Service) deliver(sender *models.User, c store.Container, msg *models.Message, tagSource string) {
	s.st.InsertMessage(c, msg)
	s.st.BumpUserStat([]int64{sender.ID}, store.StatMessages, 1)
	s.st.BumpSystemStat(store.StatMessages, 1)
	s.notifyTags(sender, c, tagSource)
	s.publish(*c.Members(), "message", messageView(msg, sender.ID))
}

// newMessage allocates a message with the kind-1 reaction slot already in
// place, so the wire shape always carries one react entry.
func (s *Service) newMessage(authorID int64, body string) *models.Message {
	return &models.Message{
		ID:        s.st.NewMessageID(),
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: s.st.Now(),
		Reacts:    []*models.React{{ReactID: models.ReactID1}},
	}
}

// MessageSend posts a message to a channel the caller belongs to.
func (s *Service) MessageSend(token string, channelID int64, body string) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return 0, inputError("channel %d does not exist", channelID)
	}
	c := store.ChannelContainer(ch)
	if !c.HasMember(u.ID) {
		return 0, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}
	if err := validBodyLen(body); err != nil {
		return 0, err
	}

	msg := s.newMessage(u.ID, body)
	s.deliver(u, c, msg, body)
	s.persist()
	return msg.ID, nil
}

// MessageSendDM posts a message to a DM the caller belongs to.
func (s *Service) MessageSendDM(token string, dmID int64, body string) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return 0, inputError("dm %d does not exist", dmID)
	}
	c := store.DMContainer(dm)
	if !c.HasMember(u.ID) {
		return 0, accessError("user %d is not a member of dm %d", u.ID, dmID)
	}
	if err := validBodyLen(body); err != nil {
		return 0, err
	}

	msg := s.newMessage(u.ID, body)
	s.deliver(u, c, msg, body)
	s.persist()
	return msg.ID, nil
}

// canModerate reports whether u may edit or remove the message: its author,
// an owner of its container, or a global owner.
func canModerate(u *models.User, ref store.MessageRef) bool {
	return ref.Msg.AuthorID == u.ID || ref.HasOwner(u.ID) || u.Permission == models.PermOwner
}

// MessageEdit replaces a message's body. An empty new body removes the
// message instead.
func (s *Service) MessageEdit(token string, messageID int64, body string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !canModerate(u, ref) {
		return accessError("user %d may not edit message %d", u.ID, messageID)
	}
	if len([]rune(body)) > maxMessageLen {
		return inputError("message length must be at most %d characters", maxMessageLen)
	}

	if body == "" {
		s.st.RemoveMessage(ref)
		s.st.BumpSystemStat(store.StatMessages, -1)
	} else {
		ref.Msg.Body = body
		s.notifyTags(u, ref.Container, body)
	}
	s.persist()
	return nil
}

// MessageRemove deletes a message from its container. Senders' personal
// message counts are left alone; only the system count drops.
func (s *Service) MessageRemove(token string, messageID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !canModerate(u, ref) {
		return accessError("user %d may not remove message %d", u.ID, messageID)
	}

	s.st.RemoveMessage(ref)
	s.st.BumpSystemStat(store.StatMessages, -1)
	s.persist()
	return nil
}

// MessageShare copies a message's body, with an optional leading comment,
// into another container the caller belongs to. Exactly one of channelID
// and dmID is a real target; the other is -1. Tags fire only on the added
// comment.
func (s *Service) MessageShare(token string, ogMessageID int64, comment string, channelID, dmID int64) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}

	var target store.Container
	if channelID != -1 {
		target = store.ChannelContainer(s.st.ChannelByID(channelID))
	} else {
		target = store.DMContainer(s.st.DMByID(dmID))
	}
	if !target.Valid() {
		return 0, inputError("share target does not exist")
	}
	og, ok := s.st.FindMessage(ogMessageID)
	if !ok {
		return 0, inputError("message %d does not exist", ogMessageID)
	}
	if !target.HasMember(u.ID) {
		return 0, accessError("user %d is not a member of the share target", u.ID)
	}

	msg := s.newMessage(u.ID, comment+"\n"+og.Msg.Body+"\n")
	s.deliver(u, target, msg, comment)
	s.persist()
	return msg.ID, nil
}

// containerModerator reports whether u may pin in ref's container.
func containerModerator(u *models.User, ref store.MessageRef) bool {
	return ref.HasOwner(u.ID) || (u.Permission == models.PermOwner && ref.HasMember(u.ID))
}

// MessagePin marks a message as pinned.
func (s *Service) MessagePin(token string, messageID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !containerModerator(u, ref) {
		return accessError("user %d is not an owner of the %s holding message %d", u.ID, ref.Kind, messageID)
	}
	if ref.Msg.Pinned {
		return inputError("message %d is already pinned", messageID)
	}

	ref.Msg.Pinned = true
	s.persist()
	return nil
}

// MessageUnpin clears a message's pinned mark.
func (s *Service) MessageUnpin(token string, messageID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !containerModerator(u, ref) {
		return accessError("user %d is not an owner of the %s holding message %d", u.ID, ref.Kind, messageID)
	}
	if !ref.Msg.Pinned {
		return inputError("message %d is not pinned", messageID)
	}

	ref.Msg.Pinned = false
	s.persist()
	return nil
}

// MessageReact records the caller's reaction. One reaction kind exists
// today; reacting twice with the same kind is rejected.
func (s *Service) MessageReact(token string, messageID, reactID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !ref.HasMember(u.ID) {
		return accessError("user %d is not a member of the %s holding message %d", u.ID, ref.Kind, messageID)
	}
	if reactID != models.ReactID1 {
		return inputError("react %d is not a valid reaction", reactID)
	}

	var slot *models.React
	for _, r := range ref.Msg.Reacts {
		if r.ReactID == reactID {
			slot = r
			break
		}
	}
	if slot == nil {
		slot = &models.React{ReactID: reactID}
		ref.Msg.Reacts = append(ref.Msg.Reacts, slot)
	}
	if containsID(slot.UserIDs, u.ID) {
		return inputError("user %d already reacted to message %d", u.ID, messageID)
	}
	slot.UserIDs = append(slot.UserIDs, u.ID)

	if author := s.st.UserByID(ref.Msg.AuthorID); author != nil && ref.HasMember(author.ID) {
		n := containerNotification(ref.Container, u.Profile.Handle+" reacted to your message in "+ref.Name())
		store.PushNotification(author, n)
		s.publish([]int64{author.ID}, "notification", n)
	}
	s.persist()
	return nil
}

// MessageUnreact withdraws a prior reaction by the caller.
func (s *Service) MessageUnreact(token string, messageID, reactID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ref, ok := s.st.FindMessage(messageID)
	if !ok {
		return inputError("message %d does not exist", messageID)
	}
	if !ref.HasMember(u.ID) {
		return accessError("user %d is not a member of the %s holding message %d", u.ID, ref.Kind, messageID)
	}
	if reactID != models.ReactID1 {
		return inputError("react %d is not a valid reaction", reactID)
	}

	for _, r := range ref.Msg.Reacts {
		if r.ReactID != reactID {
			continue
		}
		if !containsID(r.UserIDs, u.ID) {
			break
		}
		kept := r.UserIDs[:0]
		for _, id := range r.UserIDs {
			if id != u.ID {
				kept = append(kept, id)
			}
		}
		r.UserIDs = kept
		s.persist()
		return nil
	}
	return inputError("user %d has not reacted to message %d", u.ID, messageID)
}

// MessageSendLater posts to a channel at a future time. The message id is
// allocated and returned now; insertion, stats and tags happen when the
// timer fires. A timer cannot be retracted once armed.
func (s *Service) MessageSendLater(token string, channelID int64, body string, timeSent int64) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return 0, inputError("channel %d does not exist", channelID)
	}
	if !store.ChannelContainer(ch).HasMember(u.ID) {
		return 0, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}
	now := s.st.Now()
	if timeSent < now {
		return 0, inputError("scheduled time is in the past")
	}
	if err := validBodyLen(body); err != nil {
		return 0, err
	}

	msg := &models.Message{
		ID:        s.st.NewMessageID(),
		AuthorID:  u.ID,
		Body:      body,
		CreatedAt: timeSent,
		Reacts:    []*models.React{{ReactID: models.ReactID1}},
	}
	senderID := u.ID
	s.sched.After(time.Duration(timeSent-now)*time.Second, "sendlater_channel", func() {
		s.deliverLater(models.KindChannel, channelID, senderID, msg)
	})
	s.persist()
	return msg.ID, nil
}

// MessageSendLaterDM posts to a DM at a future time.
func (s *Service) MessageSendLaterDM(token string, dmID int64, body string, timeSent int64) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	dm := s.st.DMByID(dmID)
	if dm == nil {
		return 0, inputError("dm %d does not exist", dmID)
	}
	if !store.DMContainer(dm).HasMember(u.ID) {
		return 0, accessError("user %d is not a member of dm %d", u.ID, dmID)
	}
	now := s.st.Now()
	if timeSent < now {
		return 0, inputError("scheduled time is in the past")
	}
	if err := validBodyLen(body); err != nil {
		return 0, err
	}

	msg := &models.Message{
		ID:        s.st.NewMessageID(),
		AuthorID:  u.ID,
		Body:      body,
		CreatedAt: timeSent,
		Reacts:    []*models.React{{ReactID: models.ReactID1}},
	}
	senderID := u.ID
	s.sched.After(time.Duration(timeSent-now)*time.Second, "sendlater_dm", func() {
		s.deliverLater(models.KindDM, dmID, senderID, msg)
	})
	s.persist()
	return msg.ID, nil
}

// deliverLater is the timer callback for scheduled sends. It takes the store
// lock like any synchronous operation and silently drops the message if the
// target container or the sender has vanished in the meantime.
func (s *Service) deliverLater(kind models.ContainerKind, containerID, senderID int64, msg *models.Message) {
	s.st.Lock()
	defer s.st.Unlock()

	c := s.st.ContainerByID(kind, containerID)
	if !c.Valid() {
		s.logger.Info("scheduled message dropped, container gone",
			zap.Stringer("kind", kind),
			zap.Int64("container_id", containerID),
			zap.Int64("message_id", msg.ID),
		)
		return
	}
	sender := s.st.UserByIDAny(senderID)
	if sender == nil {
		return
	}
	s.deliver(sender, c, msg, msg.Body)
	s.persist()
}
